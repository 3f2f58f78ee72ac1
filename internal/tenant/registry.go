// Package tenant keeps the university codes that gate self-signup.
package tenant

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"rollbook/internal/store"
)

const documentName = "university_codes"

var (
	ErrEmptyCode     = errors.New("university code is empty")
	ErrDuplicateCode = errors.New("university code already exists")
	ErrCodeNotFound  = errors.New("university code not found")
)

// Registry is the set of valid university codes, stored as a JSON array.
type Registry struct {
	snap *store.Snapshot[[]string]
	log  *zap.Logger
}

func NewRegistry(backend store.Backend, log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		snap: store.NewSnapshot(backend, documentName, func() []string { return []string{} }, log),
		log:  log,
	}
}

// List returns the codes in insertion order.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	return r.snap.Read(ctx)
}

// Contains reports whether code may be used to sign up.
func (r *Registry) Contains(ctx context.Context, code string) (bool, error) {
	codes, err := r.snap.Read(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(codes, code), nil
}

// Add appends code. Callers must hold an admin session.
func (r *Registry) Add(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return ErrEmptyCode
	}
	err := r.snap.Update(ctx, func(codes []string) ([]string, error) {
		if slices.Contains(codes, code) {
			return nil, ErrDuplicateCode
		}
		return append(codes, code), nil
	})
	if err == nil {
		r.log.Info("university code added", zap.String("code", code))
	}
	return err
}

// Remove deletes code. Callers must hold an admin session.
func (r *Registry) Remove(ctx context.Context, code string) error {
	err := r.snap.Update(ctx, func(codes []string) ([]string, error) {
		i := slices.Index(codes, code)
		if i < 0 {
			return nil, ErrCodeNotFound
		}
		return slices.Delete(codes, i, i+1), nil
	})
	if err == nil {
		r.log.Info("university code removed", zap.String("code", code))
	}
	return err
}
