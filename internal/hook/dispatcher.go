package hook

import (
	"context"

	"github.com/gyaneshwarpardhi/signuprelay/internal/crm"
	"github.com/gyaneshwarpardhi/signuprelay/internal/event"
	"github.com/gyaneshwarpardhi/signuprelay/internal/httperr"
)

// Result is the success envelope returned to the identity provider.
type Result struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// IdentityService assigns activated users to the demo tenant.
type IdentityService interface {
	AssignUserToTenant(ctx context.Context, email string) error
}

// ContactService creates CRM contacts and derives their app links.
type ContactService interface {
	CreateContact(ctx context.Context, in crm.ContactInput) (*crm.Contact, crm.Outcome)
	ContactURL(contact *crm.Contact) string
}

// Notifier posts the signup notification.
type Notifier interface {
	SendSignupMessage(ctx context.Context, user event.User, contactURL string) error
}

// HandlerFunc processes a single verified webhook event.
type HandlerFunc func(ctx context.Context, ev event.Event) (Result, error)

// Dispatcher routes verified webhook events to their handler by event key.
type Dispatcher struct {
	identity     IdentityService
	contacts     ContactService
	notifier     Notifier
	demoTenantID func() string
	handlers     map[string]HandlerFunc
}

// NewDispatcher creates a Dispatcher with the two lifecycle handlers
// registered. demoTenantID is read per event so hot-reloaded settings apply.
func NewDispatcher(identity IdentityService, contacts ContactService, notifier Notifier, demoTenantID func() string) *Dispatcher {
	d := &Dispatcher{
		identity:     identity,
		contacts:     contacts,
		notifier:     notifier,
		demoTenantID: demoTenantID,
	}
	d.handlers = map[string]HandlerFunc{
		event.UserActivated: d.handleActivation,
		event.UserSignedUp:  d.handleSignup,
	}
	return d
}

// Dispatch runs the handler registered for the event key. Unknown keys are
// rejected with 400 before any outbound call.
func (d *Dispatcher) Dispatch(ctx context.Context, ev event.Event) (Result, error) {
	handler, ok := d.handlers[ev.EventKey]
	if !ok {
		return Result{}, httperr.BadRequest("invalid event key")
	}
	return handler(ctx, ev)
}

// handleActivation assigns a newly activated user to the demo tenant. Users
// activated inside the demo tenant itself are rejected, so the provider's
// redelivery does not loop on an assignment that already happened.
func (d *Dispatcher) handleActivation(ctx context.Context, ev event.Event) (Result, error) {
	if ev.EventContext.TenantID == d.demoTenantID() {
		return Result{}, httperr.BadRequest("user already in the demo tenant")
	}
	if err := d.identity.AssignUserToTenant(ctx, ev.User.Email); err != nil {
		return Result{}, err
	}
	return Result{Status: "success", Message: "User successfully assigned to tenant."}, nil
}

// handleSignup creates the CRM contact, then sends the signup notification,
// in that order. A failed contact creation never stops the notification; a
// failed notification fails the event so the provider can redeliver.
func (d *Dispatcher) handleSignup(ctx context.Context, ev event.Event) (Result, error) {
	parsed := event.ParseName(ev.User.Name)
	contact, _ := d.contacts.CreateContact(ctx, crm.ContactInput{
		Email:     ev.User.Email,
		FirstName: parsed.FirstName,
		LastName:  parsed.LastName,
	})
	contactURL := d.contacts.ContactURL(contact)

	if err := d.notifier.SendSignupMessage(ctx, ev.User, contactURL); err != nil {
		return Result{}, err
	}
	return Result{Status: "success", Message: "Successfully processed user signup."}, nil
}
