package domain

import "time"

type Role string

const (
	RoleParent  Role = "parent"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"

	// RoleUnknown marks a session whose profile document is missing or
	// unreadable. It is an explicit state, never silently treated as parent.
	RoleUnknown Role = ""
)

func (r Role) Known() bool {
	switch r {
	case RoleParent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is the profile document stored per identity.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is what the credential store knows about a login,
// independent of whether a profile document exists yet.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session merges an authenticated identity with its profile document.
// Profile is nil when the profile read failed or the document is absent;
// the session is still usable, with Role left unresolved.
type Session struct {
	Identity Identity `json:"identity"`
	Profile  *User    `json:"profile,omitempty"`
	Role     Role     `json:"role"`
}

func NewSession(id Identity, profile *User) Session {
	s := Session{Identity: id, Role: RoleUnknown}
	if profile != nil {
		s.Profile = profile
		s.Role = profile.Role
	}
	return s
}

// DisplayName is the name attached to outgoing chat messages.
func (s Session) DisplayName() string {
	if s.Profile != nil && s.Profile.Name != "" {
		return s.Profile.Name
	}
	return "Usuario"
}
