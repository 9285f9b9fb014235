// Package usertable defines the columns of the user listing: how a user
// record is displayed, filtered and acted upon.
package usertable

// Role is a named permission set attached to a user. Only the name is
// displayed.
type Role struct {
	Name string `json:"name" yaml:"name"`
}

// User is the record listed by the table. Archived false means active.
type User struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Email    string `json:"email" yaml:"email"`
	Archived bool   `json:"archived,omitempty" yaml:"archived,omitempty"`
	Roles    []Role `json:"roles" yaml:"roles"`
}

// RoleNames returns the role names in record order.
func RoleNames(u User) []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}

// HasRole reports whether name is one of the user's role names.
func HasRole(u User, name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

const (
	StatusActive   = "Actif"
	StatusArchived = "Archivé"
)

// StatusLabel is the status text shown for an archived flag.
func StatusLabel(archived bool) string {
	if archived {
		return StatusArchived
	}
	return StatusActive
}
