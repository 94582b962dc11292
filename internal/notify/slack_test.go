package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gyaneshwarpardhi/signuprelay/internal/config"
	"github.com/gyaneshwarpardhi/signuprelay/internal/event"
	"github.com/gyaneshwarpardhi/signuprelay/internal/httperr"
	"github.com/gyaneshwarpardhi/signuprelay/internal/identity"
)

type fakeTenants struct {
	details *identity.TenantDetails
	calls   int
}

func (f *fakeTenants) GetTenantDetails(_ context.Context, _ string) *identity.TenantDetails {
	f.calls++
	return f.details
}

func TestFormatMessage(t *testing.T) {
	user := event.User{Email: "jane@acme.com", Name: "Jane Roe"}
	msg := FormatMessage(user, "Acme Corp", "https://app/42")

	if len(msg.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(msg.Blocks))
	}
	header := msg.Blocks[0]
	if header.Type != "header" || header.Text == nil || header.Text.Text != "New User Signup" {
		t.Errorf("header block = %+v", header)
	}
	if got := msg.Blocks[1].Fields[0].Text; got != "*Name:*\nJane Roe" {
		t.Errorf("name field = %q", got)
	}
	if got := msg.Blocks[1].Fields[1].Text; got != "*Email:*\njane@acme.com" {
		t.Errorf("email field = %q", got)
	}
	if got := msg.Blocks[2].Fields[0].Text; got != "*Company:*\nAcme Corp" {
		t.Errorf("company field = %q", got)
	}
	if got := msg.Blocks[2].Fields[1].Text; got != "*HubSpot Contact:*\nhttps://app/42" {
		t.Errorf("contact field = %q", got)
	}
}

func TestFormatMessageDefaults(t *testing.T) {
	msg := FormatMessage(event.User{Email: "a@b.com"}, "", "")

	if len(msg.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(msg.Blocks))
	}
	// Missing name falls back to the email address.
	if got := msg.Blocks[1].Fields[0].Text; got != "*Name:*\na@b.com" {
		t.Errorf("name field = %q", got)
	}
	if got := msg.Blocks[2].Fields[0].Text; !strings.HasSuffix(got, "No Company Name") {
		t.Errorf("company field = %q, want default", got)
	}
	if got := msg.Blocks[2].Fields[1].Text; !strings.HasSuffix(got, "Not created") {
		t.Errorf("contact field = %q, want default", got)
	}
}

func TestSendSignupMessageEnrichesCompany(t *testing.T) {
	var gotMsg Message
	posts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		_ = json.NewDecoder(r.Body).Decode(&gotMsg)
	}))
	defer srv.Close()

	tenants := &fakeTenants{details: &identity.TenantDetails{Name: "Acme Corp"}}
	s := NewService(func() config.SlackConf {
		return config.SlackConf{WebhookURL: srv.URL}
	}, tenants, nil)

	user := event.User{Email: "jane@acme.com", Name: "Jane Roe", TenantID: "t-1"}
	if err := s.SendSignupMessage(context.Background(), user, "https://app/42"); err != nil {
		t.Fatalf("SendSignupMessage: %v", err)
	}
	if posts != 1 {
		t.Fatalf("posts = %d, want 1", posts)
	}
	if tenants.calls != 1 {
		t.Errorf("tenant lookups = %d, want 1", tenants.calls)
	}
	if got := gotMsg.Blocks[2].Fields[0].Text; got != "*Company:*\nAcme Corp" {
		t.Errorf("company field = %q", got)
	}
}

func TestSendSignupMessageWithoutTenant(t *testing.T) {
	var gotMsg Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotMsg)
	}))
	defer srv.Close()

	tenants := &fakeTenants{}
	s := NewService(func() config.SlackConf {
		return config.SlackConf{WebhookURL: srv.URL}
	}, tenants, nil)

	if err := s.SendSignupMessage(context.Background(), event.User{Email: "a@b.com"}, ""); err != nil {
		t.Fatalf("SendSignupMessage: %v", err)
	}
	if tenants.calls != 0 {
		t.Errorf("tenant lookups = %d, want 0", tenants.calls)
	}
	if got := gotMsg.Blocks[2].Fields[0].Text; !strings.HasSuffix(got, "No Company Name") {
		t.Errorf("company field = %q, want default", got)
	}
}

func TestSendSignupMessageLookupFailureUsesDefault(t *testing.T) {
	var gotMsg Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotMsg)
	}))
	defer srv.Close()

	// Lookup returns nil: enrichment is best effort.
	s := NewService(func() config.SlackConf {
		return config.SlackConf{WebhookURL: srv.URL}
	}, &fakeTenants{details: nil}, nil)

	user := event.User{Email: "a@b.com", TenantID: "t-9"}
	if err := s.SendSignupMessage(context.Background(), user, ""); err != nil {
		t.Fatalf("SendSignupMessage: %v", err)
	}
	if got := gotMsg.Blocks[2].Fields[0].Text; !strings.HasSuffix(got, "No Company Name") {
		t.Errorf("company field = %q, want default", got)
	}
}

func TestSendSignupMessageFailurePropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewService(func() config.SlackConf {
		return config.SlackConf{WebhookURL: srv.URL}
	}, &fakeTenants{}, nil)

	err := s.SendSignupMessage(context.Background(), event.User{Email: "a@b.com"}, "")
	var herr *httperr.Error
	if !errors.As(err, &herr) || herr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err = %v, want internal httperr", err)
	}
}
