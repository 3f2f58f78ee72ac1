// Package attendance keeps the roster, the timetable and the attendance
// ledger, and derives percentages and flat records from them.
package attendance

import (
	"context"
	"errors"
	"iter"

	"go.uber.org/zap"
)

var ErrEmptyName = errors.New("name is empty")

// Service validates roster and ledger changes before persisting them.
type Service struct {
	repo        *Repository
	denominator Denominator
	log         *zap.Logger
}

type Option func(*Service)

// WithDenominator selects how total classes are counted for percentages.
func WithDenominator(d Denominator) Option {
	return func(s *Service) { s.denominator = d }
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a service backed by a repository.
func NewService(repo *Repository, opts ...Option) *Service {
	s := &Service{repo: repo, denominator: PerDate, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Document returns the current snapshot for read-only use.
func (s *Service) Document(ctx context.Context) (*Document, error) {
	return s.repo.Load(ctx)
}

// View is what the attendance page shows.
type View struct {
	Percentages []StudentPercentage `json:"percentages"`
	Records     []Record            `json:"records"`
}

// View computes percentages over the whole ledger and the records matching f.
func (s *Service) View(ctx context.Context, f Filter) (View, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return View{}, err
	}
	v := View{Percentages: Percentages(doc, s.denominator), Records: []Record{}}
	for rec := range FilteredRecords(doc, f) {
		v.Records = append(v.Records, rec)
	}
	return v, nil
}

// Records returns every ledger row of the current snapshot.
func (s *Service) Records(ctx context.Context) (iter.Seq[Record], error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return AllRecords(doc), nil
}
