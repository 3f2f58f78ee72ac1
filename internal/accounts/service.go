// Package accounts registers users and verifies user and admin logins.
package accounts

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"go.uber.org/zap"

	"rollbook/internal/auth"
	"rollbook/internal/metrics"
	"rollbook/internal/store"
)

const documentName = "user_credentials"

var (
	ErrEmptyUsername      = errors.New("username is empty")
	ErrDuplicateUsername  = errors.New("username already exists, choose a different one")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidTenantCode  = errors.New("invalid university code")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Credentials maps username to password digest.
type Credentials map[string]string

// CodeChecker tells whether a university code is currently valid.
type CodeChecker interface {
	Contains(ctx context.Context, code string) (bool, error)
}

type Service struct {
	snap   *store.Snapshot[Credentials]
	codes  CodeChecker
	admin  AdminProvider
	hasher Hasher
	log    *zap.Logger
}

func NewService(backend store.Backend, codes CodeChecker, admin AdminProvider, hasher Hasher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if hasher == nil {
		hasher = SHA256Hasher{}
	}
	return &Service{
		snap:   store.NewSnapshot(backend, documentName, func() Credentials { return Credentials{} }, log),
		codes:  codes,
		admin:  admin,
		hasher: hasher,
		log:    log,
	}
}

// Register creates an account. Checks run in this order: duplicate username,
// password confirmation, university code.
func (s *Service) Register(ctx context.Context, username, password, confirm, code string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}
	err := s.snap.Update(ctx, func(creds Credentials) (Credentials, error) {
		if _, ok := creds[username]; ok {
			return nil, ErrDuplicateUsername
		}
		if password != confirm {
			return nil, ErrPasswordMismatch
		}
		ok, err := s.codes.Contains(ctx, code)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrInvalidTenantCode
		}
		digest, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		creds[username] = digest
		return creds, nil
	})
	if err != nil {
		return err
	}
	s.log.Info("account created", zap.String("username", username))
	return nil
}

// Authenticate verifies a user login.
func (s *Service) Authenticate(ctx context.Context, username, password string) (auth.Session, error) {
	creds, err := s.snap.Read(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	digest, ok := creds[username]
	if !ok || !checkPassword(digest, password) {
		metrics.ObserveLogin("user", false)
		s.log.Info("login rejected", zap.String("username", username))
		return auth.Session{}, ErrInvalidCredentials
	}
	metrics.ObserveLogin("user", true)
	return auth.UserSession(username), nil
}

// AuthenticateAdmin verifies the admin login against the AdminProvider.
func (s *Service) AuthenticateAdmin(ctx context.Context, username, password string) (auth.Session, error) {
	wantUser, wantPass, err := s.admin.AdminCredentials(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPass)) == 1
	if !userOK || !passOK || wantPass == "" {
		metrics.ObserveLogin("admin", false)
		s.log.Warn("admin login rejected", zap.String("username", username))
		return auth.Session{}, ErrInvalidCredentials
	}
	metrics.ObserveLogin("admin", true)
	return auth.AdminSession(username), nil
}
