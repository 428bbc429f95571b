package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/art2002-alugu/infimobile-form/internal/models"
	"github.com/art2002-alugu/infimobile-form/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockContactService struct {
	submitErr error
	received  *models.ContactMessage
}

func (m *mockContactService) Submit(_ context.Context, msg *models.ContactMessage) error {
	m.received = msg
	return m.submitErr
}

func setupContactRouter(svc ContactServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewContactHandler(svc)

	r := gin.New()
	r.POST("/api/contact", h.Submit)
	return r
}

func TestContactSubmitJSON(t *testing.T) {
	svc := &mockContactService{}
	r := setupContactRouter(svc)

	body, _ := json.Marshal(models.ContactMessage{
		Name:    "Jordan",
		Email:   "jordan@example.com",
		Phone:   "5551234567",
		Message: "my sim never activated",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Submitted successfully")
	require.NotNil(t, svc.received)
	assert.Equal(t, "Jordan", svc.received.Name)
}

func TestContactSubmitFormEncoded(t *testing.T) {
	svc := &mockContactService{}
	r := setupContactRouter(svc)

	form := url.Values{}
	form.Set("name", "Jordan")
	form.Set("email", "jordan@example.com")
	form.Set("phone", "5551234567")
	form.Set("message", "hello")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.received)
	assert.Equal(t, "jordan@example.com", svc.received.Email)
}

func TestContactSubmitValidationFailure(t *testing.T) {
	svc := &mockContactService{
		submitErr: fmt.Errorf("%w: name is required", services.ErrContactValidation),
	}
	r := setupContactRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name is required")
}

func TestContactSubmitSinkFailure(t *testing.T) {
	svc := &mockContactService{submitErr: errors.New("endpoint unreachable")}
	r := setupContactRouter(svc)

	body, _ := json.Marshal(models.ContactMessage{
		Name:  "Jordan",
		Email: "jordan@example.com",
		Phone: "5551234567",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Submission failed")
}
