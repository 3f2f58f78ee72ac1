package attendance

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"
)

var ErrEmptySubjectList = errors.New("select or enter at least one subject")

// AddStudent appends name to the roster. Duplicate names are allowed.
func (s *Service) AddStudent(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	err := s.repo.Update(ctx, func(doc *Document) error {
		doc.Students = append(doc.Students, name)
		return nil
	})
	if err == nil {
		s.log.Info("student added", zap.String("student", name))
	}
	return err
}

// AddSubject appends name to the subject list. Duplicate names are allowed.
func (s *Service) AddSubject(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	err := s.repo.Update(ctx, func(doc *Document) error {
		doc.Subjects = append(doc.Subjects, name)
		return nil
	})
	if err == nil {
		s.log.Info("subject added", zap.String("subject", name))
	}
	return err
}

// SetTimetable replaces the subjects scheduled on day. Entries are trimmed
// and blank ones dropped.
func (s *Service) SetTimetable(ctx context.Context, day string, subjects []string) error {
	key, err := ParseWeekday(day)
	if err != nil {
		return err
	}
	cleaned := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		if sub = strings.TrimSpace(sub); sub != "" {
			cleaned = append(cleaned, sub)
		}
	}
	if len(cleaned) == 0 {
		return ErrEmptySubjectList
	}
	err = s.repo.Update(ctx, func(doc *Document) error {
		doc.Timetable.Set(key, cleaned)
		return nil
	})
	if err == nil {
		s.log.Info("timetable updated", zap.String("day", key), zap.Strings("subjects", cleaned))
	}
	return err
}

func (s *Service) Students(ctx context.Context) ([]string, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Students, nil
}

func (s *Service) Subjects(ctx context.Context) ([]string, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Subjects, nil
}

// Timetable returns the whole weekday to subjects mapping. Days keep the
// order in which they were first scheduled.
func (s *Service) Timetable(ctx context.Context) (*Schedule, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Timetable, nil
}

// SubjectsOn returns the subjects scheduled for the weekday of date.
func (s *Service) SubjectsOn(ctx context.Context, date string) (string, []string, error) {
	d, err := ParseDate(date)
	if err != nil {
		return "", nil, err
	}
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return "", nil, err
	}
	day := d.Weekday().String()
	subjects, _ := doc.Timetable.Get(day)
	if subjects == nil {
		subjects = []string{}
	}
	return day, subjects, nil
}

func (s *Service) Institution(ctx context.Context) (string, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return "", err
	}
	return doc.Institution, nil
}

func (s *Service) SetInstitution(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return s.repo.Update(ctx, func(doc *Document) error {
		doc.Institution = name
		return nil
	})
}

// AddHoliday records date as a holiday; adding it twice is a no-op.
func (s *Service) AddHoliday(ctx context.Context, date string) error {
	d, err := ParseDate(date)
	if err != nil {
		return err
	}
	key := d.Format(DateLayout)
	return s.repo.Update(ctx, func(doc *Document) error {
		if !slices.Contains(doc.Holidays, key) {
			doc.Holidays = append(doc.Holidays, key)
		}
		return nil
	})
}

func (s *Service) Holidays(ctx context.Context) ([]string, error) {
	doc, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Holidays, nil
}
