package attendance

import (
	"context"
	"encoding/json"
	"iter"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollbook/internal/store"
)

func newService(t *testing.T, opts ...Option) (*Service, store.Backend) {
	t.Helper()
	b, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	return NewService(NewRepository(b, nil), opts...), b
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

// 2024-01-01 and 2024-01-08 are Mondays, 2024-01-02 is a Tuesday.
func seed(t *testing.T, s *Service) {
	t.Helper()
	ctx := context.Background()
	for _, st := range []string{"A", "B"} {
		require.NoError(t, s.AddStudent(ctx, st))
	}
	for _, sub := range []string{"Math", "Sci"} {
		require.NoError(t, s.AddSubject(ctx, sub))
	}
	require.NoError(t, s.SetTimetable(ctx, "monday", []string{"Math", " Sci ", ""}))
	require.NoError(t, s.SetTimetable(ctx, "Tuesday", []string{"Sci"}))
}

func TestRosterValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	assert.ErrorIs(t, s.AddStudent(ctx, "  "), ErrEmptyName)
	assert.ErrorIs(t, s.AddSubject(ctx, ""), ErrEmptyName)
	assert.ErrorIs(t, s.SetTimetable(ctx, "Monday", []string{" ", ""}), ErrEmptySubjectList)
	assert.ErrorIs(t, s.SetTimetable(ctx, "Funday", []string{"Math"}), ErrInvalidWeekday)

	require.NoError(t, s.AddStudent(ctx, "A"))
	require.NoError(t, s.AddStudent(ctx, "A"))
	students, err := s.Students(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A"}, students)
}

func TestTimetableReplacesDay(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	seed(t, s)

	tt, err := s.Timetable(ctx)
	require.NoError(t, err)
	monday, ok := tt.Get("Monday")
	require.True(t, ok)
	assert.Equal(t, []string{"Math", "Sci"}, monday)

	require.NoError(t, s.SetTimetable(ctx, "Monday", []string{"Art"}))
	weekday, subjects, err := s.SubjectsOn(ctx, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, "Monday", weekday)
	assert.Equal(t, []string{"Art"}, subjects)

	weekday, subjects, err = s.SubjectsOn(ctx, "2024-01-06")
	require.NoError(t, err)
	assert.Equal(t, "Saturday", weekday)
	assert.Empty(t, subjects)

	_, _, err = s.SubjectsOn(ctx, "06/01/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	seed(t, s)
	mon := day(t, "2024-01-01")

	assert.ErrorIs(t, s.Submit(ctx, mon, "Math", nil), ErrEmptyMarks)
	assert.ErrorIs(t, s.Submit(ctx, mon, "Math", []Mark{{"A", "Late"}}), ErrInvalidStatus)
	assert.ErrorIs(t, s.Submit(ctx, mon, "Art", []Mark{{"A", Present}}), ErrSubjectNotScheduled)
	assert.ErrorIs(t, s.Submit(ctx, day(t, "2024-01-02"), "Math", []Mark{{"A", Present}}), ErrSubjectNotScheduled)

	_, ok, err := s.Entry(ctx, "2024-01-01", "Math")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubmitIdempotentAndOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	seed(t, s)
	mon := day(t, "2024-01-01")
	marks := []Mark{{"A", Present}, {"B", Absent}}

	require.NoError(t, s.Submit(ctx, mon, "Math", marks))
	first, err := s.Document(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Submit(ctx, mon, "Math", marks))
	second, err := s.Document(ctx)
	require.NoError(t, err)
	assert.Equal(t, collect(AllRecords(first)), collect(AllRecords(second)))

	require.NoError(t, s.Submit(ctx, mon, "Math", []Mark{{"B", Present}}))
	got, ok, err := s.Entry(ctx, "2024-01-01", "Math")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Mark{{"B", Present}}, got)
}

func TestStorageOrderSurvivesReload(t *testing.T) {
	ctx := context.Background()
	s, b := newService(t)
	seed(t, s)

	require.NoError(t, s.Submit(ctx, day(t, "2024-01-08"), "Sci", []Mark{{"B", Present}, {"A", Absent}}))
	require.NoError(t, s.Submit(ctx, day(t, "2024-01-01"), "Math", []Mark{{"A", Present}}))
	require.NoError(t, s.Submit(ctx, day(t, "2024-01-08"), "Math", []Mark{{"A", Present}}))
	// overwriting keeps the key where it was
	require.NoError(t, s.Submit(ctx, day(t, "2024-01-08"), "Sci", []Mark{{"B", Absent}, {"A", Present}}))

	reloaded := NewService(NewRepository(b, nil))
	seq, err := reloaded.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Record{
		{"2024-01-08", "Sci", "B", Absent},
		{"2024-01-08", "Sci", "A", Present},
		{"2024-01-08", "Math", "A", Present},
		{"2024-01-01", "Math", "A", Present},
	}, collect(seq))
}

func TestViewPercentagesAndFilter(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)
	seed(t, s)

	v, err := s.View(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []StudentPercentage{{"A", 0}, {"B", 0}}, v.Percentages)
	assert.Empty(t, v.Records)

	require.NoError(t, s.Submit(ctx, day(t, "2024-01-01"), "Math", []Mark{{"A", Present}, {"B", Absent}}))
	require.NoError(t, s.Submit(ctx, day(t, "2024-01-02"), "Sci", []Mark{{"A", Absent}, {"B", Absent}}))

	v, err = s.View(ctx, Filter{Date: "2024-01-01", Subject: AllSubjects})
	require.NoError(t, err)
	assert.Equal(t, []StudentPercentage{{"A", 50}, {"B", 0}}, v.Percentages)
	assert.Len(t, v.Records, 2)
	for _, r := range v.Records {
		assert.Equal(t, "2024-01-01", r.Date)
	}
}

func TestHolidaysAndInstitution(t *testing.T) {
	ctx := context.Background()
	s, _ := newService(t)

	require.NoError(t, s.AddHoliday(ctx, "2024-12-25"))
	require.NoError(t, s.AddHoliday(ctx, "2024-12-25"))
	assert.ErrorIs(t, s.AddHoliday(ctx, "Christmas"), ErrInvalidDate)
	h, err := s.Holidays(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12-25"}, h)

	assert.ErrorIs(t, s.SetInstitution(ctx, ""), ErrEmptyName)
	require.NoError(t, s.SetInstitution(ctx, "North Campus"))
	name, err := s.Institution(ctx)
	require.NoError(t, err)
	assert.Equal(t, "North Campus", name)
}

func collect(seq iter.Seq[Record]) []Record {
	return slices.Collect(seq)
}

func TestNullDocumentIsCorrupt(t *testing.T) {
	ctx := context.Background()
	s, b := newService(t)
	require.NoError(t, b.Save(ctx, "secure_data", []byte("null")))

	_, err := s.Students(ctx)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.ErrorIs(t, s.AddStudent(ctx, "A"), store.ErrCorrupt)
}

func TestTimetableKeepsDayOrderAcrossReload(t *testing.T) {
	ctx := context.Background()
	s, b := newService(t)

	require.NoError(t, s.SetTimetable(ctx, "Wednesday", []string{"Art"}))
	require.NoError(t, s.SetTimetable(ctx, "Monday", []string{"Math"}))
	require.NoError(t, s.SetTimetable(ctx, "Friday", []string{"Sci"}))
	require.NoError(t, s.SetTimetable(ctx, "Wednesday", []string{"Music"}))

	reloaded := NewService(NewRepository(b, nil))
	tt, err := reloaded.Timetable(ctx)
	require.NoError(t, err)
	var days []string
	for p := tt.Oldest(); p != nil; p = p.Next() {
		days = append(days, p.Key)
	}
	assert.Equal(t, []string{"Wednesday", "Monday", "Friday"}, days)
	wed, _ := tt.Get("Wednesday")
	assert.Equal(t, []string{"Music"}, wed)

	raw, err := json.Marshal(tt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Wednesday":["Music"],"Monday":["Math"],"Friday":["Sci"]}`, string(raw))
	assert.Less(t, strings.Index(string(raw), "Wednesday"), strings.Index(string(raw), "Monday"))
}
