package attendance

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	"rollbook/internal/metrics"
)

var (
	ErrEmptyMarks          = errors.New("no attendance marks submitted")
	ErrSubjectNotScheduled = errors.New("subject is not scheduled on that weekday")
)

// Mark is one student's status in a submission.
type Mark struct {
	Student string `json:"student"`
	Status  Status `json:"status"`
}

// Submit stores marks for (date, subject), replacing whatever was recorded
// for that key before. subject must be in the timetable for date's weekday.
func (s *Service) Submit(ctx context.Context, date time.Time, subject string, marks []Mark) error {
	if len(marks) == 0 {
		return ErrEmptyMarks
	}
	entry := orderedmap.New[string, Status](len(marks))
	for _, m := range marks {
		if strings.TrimSpace(m.Student) == "" {
			return ErrEmptyName
		}
		if m.Status != Present && m.Status != Absent {
			return ErrInvalidStatus
		}
		entry.Set(m.Student, m.Status)
	}

	key := date.Format(DateLayout)
	day := date.Weekday().String()
	err := s.repo.Update(ctx, func(doc *Document) error {
		scheduled, _ := doc.Timetable.Get(day)
		if !slices.Contains(scheduled, subject) {
			return ErrSubjectNotScheduled
		}
		classes, ok := doc.Attendance.Get(key)
		if !ok || classes == nil {
			classes = orderedmap.New[string, *Marks]()
			doc.Attendance.Set(key, classes)
		}
		classes.Set(subject, entry)
		return nil
	})
	if err != nil {
		return err
	}
	metrics.Submissions.Inc()
	s.log.Info("attendance submitted",
		zap.String("date", key), zap.String("subject", subject), zap.Int("marks", entry.Len()))
	return nil
}

// Entry returns the marks recorded for (date, subject), in submission order.
func (s *Service) Entry(ctx context.Context, date, subject string) ([]Mark, bool, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, false, err
	}
	classes, ok := doc.Attendance.Get(date)
	if !ok || classes == nil {
		return nil, false, nil
	}
	marks, ok := classes.Get(subject)
	if !ok || marks == nil {
		return nil, false, nil
	}
	out := make([]Mark, 0, marks.Len())
	for p := marks.Oldest(); p != nil; p = p.Next() {
		out = append(out, Mark{Student: p.Key, Status: p.Value})
	}
	return out, true, nil
}
