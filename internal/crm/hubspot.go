package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gyaneshwarpardhi/signuprelay/internal/config"
	"github.com/gyaneshwarpardhi/signuprelay/internal/metrics"
)

// Outcome classifies a contact-creation attempt.
type Outcome int

const (
	// Created means the CRM returned a new contact record.
	Created Outcome = iota
	// AlreadyExists means the CRM returned 409; the contact was created by an
	// earlier delivery and the attempt counts as a no-op success.
	AlreadyExists
	// Skipped means no access token is configured and contact creation is
	// disabled; no outbound call is made.
	Skipped
	// Failed means the CRM call failed for any other reason. Signup
	// processing continues without a contact.
	Failed
)

// ContactInput holds the fields posted when creating a contact.
type ContactInput struct {
	Email     string
	FirstName string
	LastName  string
}

// Contact is the CRM record for a person, keyed by email.
type Contact struct {
	ID         string            `json:"id"`
	Properties ContactProperties `json:"properties"`
}

// ContactProperties mirrors the CRM property bag for the fields we read back.
type ContactProperties struct {
	Email     string `json:"email"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	ObjectID  string `json:"hs_object_id"`
}

// Service creates HubSpot contacts and derives their app links. It never
// returns errors: CRM failures must not block the signup flow.
type Service struct {
	conf func() config.HubspotConf
	http *http.Client
}

// NewService creates a Service. conf is read on every call so hot-reloaded
// tokens take effect without rebuilding the service.
func NewService(conf func() config.HubspotConf, httpClient *http.Client) *Service {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Service{conf: conf, http: httpClient}
}

// CreateContact posts a new contact to the CRM with a fixed lead-source tag.
// The Outcome tells the caller what happened; the contact is non-nil only for
// Created.
func (s *Service) CreateContact(ctx context.Context, in ContactInput) (*Contact, Outcome) {
	cfg := s.conf()
	if cfg.AccessToken == "" {
		slog.Info("hubspot access token not set, skipping contact creation", "email", in.Email)
		return nil, Skipped
	}

	payload := map[string]any{
		"properties": map[string]string{
			"email":          in.Email,
			"firstname":      in.FirstName,
			"lastname":       in.LastName,
			"lifecyclestage": "lead",
			"hs_lead_status": "NEW",
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("encode hubspot contact", "email", in.Email, "err", err)
		return nil, Failed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		slog.Error("build hubspot request", "email", in.Email, "err", err)
		return nil, Failed
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)

	start := time.Now()
	resp, err := s.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues("hubspot").
		Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		slog.Error("hubspot contact creation failed", "email", in.Email, "err", err)
		return nil, Failed
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		slog.Info("contact already exists in hubspot", "email", in.Email)
		return nil, AlreadyExists
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		slog.Error("hubspot contact creation failed", "email", in.Email, "status", resp.StatusCode)
		return nil, Failed
	}

	var contact Contact
	if err := json.NewDecoder(resp.Body).Decode(&contact); err != nil {
		slog.Error("decode hubspot contact", "email", in.Email, "err", err)
		return nil, Failed
	}
	slog.Info("hubspot contact created", "email", in.Email, "object_id", contact.Properties.ObjectID)
	return &contact, Created
}

// ContactURL returns the CRM app link for the contact, or "" when no app URL
// is configured or the contact has no object id.
func (s *Service) ContactURL(contact *Contact) string {
	cfg := s.conf()
	if cfg.AppURL == "" {
		slog.Info("hubspot app url not set, skipping contact link")
		return ""
	}
	if contact == nil || contact.Properties.ObjectID == "" {
		return ""
	}
	return cfg.AppURL + "/" + contact.Properties.ObjectID
}
