package attendance

import (
	"errors"
	"strings"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DateLayout is how dates are keyed in the ledger.
const DateLayout = "2006-01-02"

// Status is a presence mark.
type Status string

const (
	Present Status = "Present"
	Absent  Status = "Absent"
)

var (
	ErrInvalidStatus  = errors.New("status must be Present or Absent")
	ErrInvalidDate    = errors.New("date must be formatted YYYY-MM-DD")
	ErrInvalidWeekday = errors.New("unknown weekday")
)

// ParseStatus accepts any letter case.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present":
		return Present, nil
	case "absent":
		return Absent, nil
	}
	return "", ErrInvalidStatus
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// Weekdays lists timetable keys, Monday first.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ParseWeekday normalises a day name to its timetable key.
func ParseWeekday(s string) (string, error) {
	for _, d := range Weekdays {
		if strings.EqualFold(d, strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", ErrInvalidWeekday
}

// Marks maps student name to status, in submission order.
type Marks = orderedmap.OrderedMap[string, Status]

// Classes maps subject to the marks taken for it on one date.
type Classes = orderedmap.OrderedMap[string, *Marks]

// Schedule maps weekday to subjects, in the order days were first set.
type Schedule = orderedmap.OrderedMap[string, []string]

// Register maps date to the classes recorded that day.
type Register = orderedmap.OrderedMap[string, *Classes]

// Document is the secure_data snapshot: roster, curriculum and ledger.
type Document struct {
	Institution string    `json:"institution"`
	Students    []string  `json:"students"`
	Subjects    []string  `json:"subjects"`
	Timetable   *Schedule `json:"timetable"`
	Attendance  *Register `json:"attendance"`
	Holidays    []string  `json:"holidays"`
}

func NewDocument() *Document {
	return &Document{
		Students:   []string{},
		Subjects:   []string{},
		Timetable:  orderedmap.New[string, []string](),
		Attendance: orderedmap.New[string, *Classes](),
		Holidays:   []string{},
	}
}

// normalize replaces JSON nulls so callers never see nil collections.
func (d *Document) normalize() {
	if d.Students == nil {
		d.Students = []string{}
	}
	if d.Subjects == nil {
		d.Subjects = []string{}
	}
	if d.Timetable == nil {
		d.Timetable = orderedmap.New[string, []string]()
	}
	if d.Attendance == nil {
		d.Attendance = orderedmap.New[string, *Classes]()
	}
	if d.Holidays == nil {
		d.Holidays = []string{}
	}
}
