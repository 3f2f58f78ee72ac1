package auth

// Kind tells who is behind a Session.
type Kind int

const (
	Anonymous Kind = iota
	User
	Admin
)

func (k Kind) String() string {
	switch k {
	case User:
		return "user"
	case Admin:
		return "admin"
	default:
		return "anonymous"
	}
}

func parseKind(role string) (Kind, bool) {
	switch role {
	case "user":
		return User, true
	case "admin":
		return Admin, true
	}
	return Anonymous, false
}

// Session is the caller identity passed explicitly through every request.
type Session struct {
	Kind     Kind
	Username string
}

func AnonymousSession() Session { return Session{Kind: Anonymous} }

func UserSession(username string) Session { return Session{Kind: User, Username: username} }

func AdminSession(username string) Session { return Session{Kind: Admin, Username: username} }

func (s Session) IsAdmin() bool { return s.Kind == Admin }

func (s Session) IsAuthenticated() bool { return s.Kind != Anonymous }

// DisplayName is what the UI shows as "logged in as".
func (s Session) DisplayName() string {
	if s.Kind == Admin {
		return "Admin"
	}
	return s.Username
}
