package event

import "strings"

// Event keys delivered by the identity provider.
const (
	UserSignedUp  = "frontegg.user.signedUp"
	UserActivated = "frontegg.user.activated"
)

// Event is the canonical lifecycle payload delivered by the identity provider.
type Event struct {
	EventKey     string  `json:"eventKey"`
	EventContext Context `json:"eventContext"`
	User         User    `json:"user"`
}

// Context carries per-event metadata. TenantID is the tenant the event
// happened in, which may differ from the user's home tenant.
type Context struct {
	TenantID string `json:"tenantId"`
}

// User is the subject of a lifecycle event. Email is the only required field.
type User struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	TenantID string `json:"tenantId,omitempty"`
}

// ParsedName holds the first/last split of a user's full name.
type ParsedName struct {
	FirstName string
	LastName  string
}

// ParseName splits a full name on the first space. An empty name yields empty
// components; a name with no space yields an empty last name.
func ParseName(name string) ParsedName {
	if name == "" {
		return ParsedName{}
	}
	first, last, _ := strings.Cut(name, " ")
	return ParsedName{FirstName: first, LastName: last}
}
