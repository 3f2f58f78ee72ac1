// Package store persists whole JSON documents. Every write replaces the
// previous body of a document entirely.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"rollbook/internal/metrics"
)

var (
	// ErrNotExist is returned by a Backend when a document was never saved.
	ErrNotExist = errors.New("store: document does not exist")
	// ErrCorrupt is returned when a stored document cannot be decoded.
	ErrCorrupt = errors.New("store: document is corrupt")
)

// Backend loads and saves named documents as opaque bytes.
type Backend interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, body []byte) error
	Close() error
}

// Snapshot is a typed document kept in a Backend under a fixed name.
// Update calls on the same Snapshot are serialised.
type Snapshot[T any] struct {
	backend Backend
	name    string
	empty   func() T
	log     *zap.Logger

	mu sync.Mutex
}

// NewSnapshot binds a document name to a backend. empty builds the value
// returned when nothing has been stored yet.
func NewSnapshot[T any](backend Backend, name string, empty func() T, log *zap.Logger) *Snapshot[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Snapshot[T]{backend: backend, name: name, empty: empty, log: log.With(zap.String("store", name))}
}

func (s *Snapshot[T]) Name() string { return s.name }

// Read returns the current document, or the empty document if none exists.
func (s *Snapshot[T]) Read(ctx context.Context) (T, error) {
	return s.load(ctx)
}

// Update runs fn on the current document and writes the result back.
// Nothing is written when fn returns an error.
func (s *Snapshot[T]) Update(ctx context.Context, fn func(T) (T, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	doc, err = fn(doc)
	if err != nil {
		return err
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.name, err)
	}

	start := time.Now()
	err = s.backend.Save(ctx, s.name, body)
	metrics.ObserveSnapshotWrite(s.name, time.Since(start), err)
	if err != nil {
		s.log.Error("snapshot write failed", zap.Error(err))
		return fmt.Errorf("save %s: %w", s.name, err)
	}
	s.log.Debug("snapshot written", zap.Int("bytes", len(body)))
	return nil
}

func (s *Snapshot[T]) load(ctx context.Context) (T, error) {
	var zero T
	body, err := s.backend.Load(ctx, s.name)
	if errors.Is(err, ErrNotExist) {
		return s.empty(), nil
	}
	if err != nil {
		return zero, fmt.Errorf("load %s: %w", s.name, err)
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return zero, fmt.Errorf("%w: %s is empty", ErrCorrupt, s.name)
	}
	doc := s.empty()
	if err := json.Unmarshal(body, &doc); err != nil {
		s.log.Warn("snapshot decode failed", zap.Error(err))
		return zero, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.name, err)
	}
	return doc, nil
}
