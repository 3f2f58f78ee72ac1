package accounts

import "context"

// AdminProvider supplies the single admin credential pair.
type AdminProvider interface {
	AdminCredentials(ctx context.Context) (username, password string, err error)
}

// StaticAdmin serves credentials taken from configuration.
type StaticAdmin struct {
	Username string
	Password string
}

func (a StaticAdmin) AdminCredentials(context.Context) (string, string, error) {
	return a.Username, a.Password, nil
}
