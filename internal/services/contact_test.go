package services

import (
	"context"
	"errors"
	"testing"

	"github.com/art2002-alugu/infimobile-form/internal/models"
)

type mockFormSink struct {
	postFormFunc func(ctx context.Context, fields map[string]string) error
	calls        int
}

func (m *mockFormSink) PostForm(ctx context.Context, fields map[string]string) error {
	m.calls++
	if m.postFormFunc != nil {
		return m.postFormFunc(ctx, fields)
	}
	return nil
}

func TestContactSubmit(t *testing.T) {
	tests := []struct {
		name    string
		msg     *models.ContactMessage
		wantErr bool
	}{
		{
			name: "valid message",
			msg: &models.ContactMessage{
				Name:    "Jordan",
				Email:   "jordan@example.com",
				Phone:   "5551234567",
				Message: "my sim never activated",
			},
			wantErr: false,
		},
		{
			name: "message text optional",
			msg: &models.ContactMessage{
				Name:  "Jordan",
				Email: "jordan@example.com",
				Phone: "5551234567",
			},
			wantErr: false,
		},
		{
			name: "missing name",
			msg: &models.ContactMessage{
				Email: "jordan@example.com",
				Phone: "5551234567",
			},
			wantErr: true,
		},
		{
			name: "missing email",
			msg: &models.ContactMessage{
				Name:  "Jordan",
				Phone: "5551234567",
			},
			wantErr: true,
		},
		{
			name: "malformed email",
			msg: &models.ContactMessage{
				Name:  "Jordan",
				Email: "not-an-email",
				Phone: "5551234567",
			},
			wantErr: true,
		},
		{
			name: "missing phone",
			msg: &models.ContactMessage{
				Name:  "Jordan",
				Email: "jordan@example.com",
			},
			wantErr: true,
		},
		{
			name:    "nil message",
			msg:     nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &mockFormSink{}
			svc := NewContactService(sink)

			err := svc.Submit(context.Background(), tt.msg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Submit() error = %v, wantErr %v", err, tt.wantErr)
			}

			// Validation failures must not reach the sink
			if tt.wantErr && sink.calls != 0 {
				t.Errorf("Expected no sink call on validation failure, got %d", sink.calls)
			}
			if !tt.wantErr && sink.calls != 1 {
				t.Errorf("Expected exactly one sink call, got %d", sink.calls)
			}
		})
	}
}

func TestContactSubmitFieldsForwarded(t *testing.T) {
	var got map[string]string
	sink := &mockFormSink{postFormFunc: func(_ context.Context, fields map[string]string) error {
		got = fields
		return nil
	}}
	svc := NewContactService(sink)

	msg := &models.ContactMessage{Name: "Jordan", Email: "j@example.com", Phone: "5551234567", Message: "hi"}
	if err := svc.Submit(context.Background(), msg); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	for key, want := range map[string]string{
		"name": "Jordan", "email": "j@example.com", "phone": "5551234567", "message": "hi",
	} {
		if got[key] != want {
			t.Errorf("Expected field %s=%q, got %q", key, want, got[key])
		}
	}
}

func TestContactSubmitSinkFailure(t *testing.T) {
	sink := &mockFormSink{postFormFunc: func(context.Context, map[string]string) error {
		return errors.New("endpoint down")
	}}
	svc := NewContactService(sink)

	msg := &models.ContactMessage{Name: "Jordan", Email: "j@example.com", Phone: "5551234567"}
	if err := svc.Submit(context.Background(), msg); err == nil {
		t.Error("Expected sink failure to surface for the contact form")
	}
}
