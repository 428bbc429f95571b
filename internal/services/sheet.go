package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"
)

// SheetClient posts submissions to the spreadsheet-backed web endpoints.
// Any 2xx response counts as success; the endpoints take no authentication.
type SheetClient struct {
	client     *http.Client
	intakeURL  string
	contactURL string
}

func NewSheetClient(intakeURL, contactURL string, timeout time.Duration) *SheetClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SheetClient{
		client:     &http.Client{Timeout: timeout},
		intakeURL:  intakeURL,
		contactURL: contactURL,
	}
}

// PostJSON forwards an intake payload as a JSON body.
func (c *SheetClient) PostJSON(ctx context.Context, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.intakeURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// PostForm forwards contact-form fields as multipart form data.
func (c *SheetClient) PostForm(ctx context.Context, fields map[string]string) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.contactURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req)
}

func (c *SheetClient) do(req *http.Request) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sheet endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
