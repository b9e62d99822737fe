package countdown

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Entry is one reminder as served by GET /api/medications
type Entry struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	Time           string `json:"time"`
	Notes          string `json:"notes"`
	ReminderSent   bool   `json:"reminder_sent"`
}

// Source loads the reminder list
type Source interface {
	Fetch(ctx context.Context) ([]Entry, error)
}

type listResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message"`
	Medications []Entry `json:"medications"`
}

// HTTPSource reads reminders from a running Care Circle server
type HTTPSource struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) (*HTTPSource, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	return &HTTPSource{
		endpoint: u.String() + "/api/medications",
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch medications: %w", err)
	}
	defer resp.Body.Close()

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode medications (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || !body.Success {
		msg := body.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, errors.New("server error: " + msg)
	}
	return body.Medications, nil
}
