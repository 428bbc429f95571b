package handlers

import (
	"context"

	"github.com/art2002-alugu/infimobile-form/internal/models"
	"github.com/art2002-alugu/infimobile-form/internal/services"
)

// IntakeCoordinatorInterface defines the contract for the intake submit flow
// This interface is used for dependency injection and testing
type IntakeCoordinatorInterface interface {
	Draft() *models.Submission
	SetDraft(sub *models.Submission) error
	AddExtraField(label string) models.ExtraField
	Reset()
	Candidate() *models.Record
	Records() []*models.Record
	State() services.SubmitState
	Submit(ctx context.Context) (*services.SubmitResult, error)
	Confirm(ctx context.Context) (*services.SubmitResult, error)
	Abort() (*services.SubmitResult, error)
}

// ContactServiceInterface defines the contract for the simple contact form
// This interface is used for dependency injection and testing
type ContactServiceInterface interface {
	Submit(ctx context.Context, msg *models.ContactMessage) error
}
