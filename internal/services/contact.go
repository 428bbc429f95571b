package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/art2002-alugu/infimobile-form/internal/models"
)

// ErrContactValidation marks a contact message rejected before any network
// activity.
var ErrContactValidation = errors.New("invalid contact message")

// FormSink forwards form fields to the spreadsheet endpoint.
type FormSink interface {
	PostForm(ctx context.Context, fields map[string]string) error
}

// ContactService handles the simple four-field contact form.
type ContactService struct {
	sheet FormSink
}

// NewContactService creates a new contact service
func NewContactService(sheet FormSink) *ContactService {
	return &ContactService{sheet: sheet}
}

// Submit validates and forwards a contact message. Unlike the intake flow,
// a sink failure here is surfaced to the caller.
func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) error {
	if err := s.validateMessage(msg); err != nil {
		return err
	}

	return s.sheet.PostForm(ctx, map[string]string{
		"name":    msg.Name,
		"email":   msg.Email,
		"phone":   msg.Phone,
		"message": msg.Message,
	})
}

// validateMessage validates the contact message fields
func (s *ContactService) validateMessage(msg *models.ContactMessage) error {
	if msg == nil {
		return fmt.Errorf("%w: message cannot be nil", ErrContactValidation)
	}

	if strings.TrimSpace(msg.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrContactValidation)
	}

	if msg.Email == "" {
		return fmt.Errorf("%w: email is required", ErrContactValidation)
	}

	if !strings.Contains(msg.Email, "@") {
		return fmt.Errorf("%w: email is invalid", ErrContactValidation)
	}

	if msg.Phone == "" {
		return fmt.Errorf("%w: phone is required", ErrContactValidation)
	}

	return nil
}
