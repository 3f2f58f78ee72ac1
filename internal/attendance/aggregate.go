package attendance

import (
	"fmt"
	"iter"
	"strings"
)

// Denominator decides what counts as one class when computing percentages.
type Denominator int

const (
	// PerDate counts distinct dates with any recorded attendance. A student
	// present in several subjects on one date can exceed 100%.
	PerDate Denominator = iota
	// PerClass counts distinct (date, subject) entries.
	PerClass
)

func ParseDenominator(s string) (Denominator, error) {
	switch strings.ToLower(s) {
	case "", "dates":
		return PerDate, nil
	case "classes":
		return PerClass, nil
	}
	return PerDate, fmt.Errorf("unknown attendance denominator %q", s)
}

// Record is one flattened ledger row.
type Record struct {
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Student string `json:"student"`
	Status  Status `json:"status"`
}

// StudentPercentage is one row of the percentage table.
type StudentPercentage struct {
	Student    string  `json:"student"`
	Percentage float64 `json:"percentage"`
}

// Filter narrows FilteredRecords. Empty fields, and Subject "All", match everything.
type Filter struct {
	Date    string
	Subject string
}

// AllSubjects is the Subject filter value that disables subject filtering.
const AllSubjects = "All"

// Percentages reports every roster student once, in roster order. Students
// missing from the roster are ignored even if the ledger mentions them.
func Percentages(doc *Document, d Denominator) []StudentPercentage {
	total := doc.Attendance.Len()
	if d == PerClass {
		total = 0
		for p := doc.Attendance.Oldest(); p != nil; p = p.Next() {
			if p.Value != nil {
				total += p.Value.Len()
			}
		}
	}

	present := make(map[string]int)
	for rec := range AllRecords(doc) {
		if rec.Status == Present {
			present[rec.Student]++
		}
	}

	out := make([]StudentPercentage, 0, len(doc.Students))
	seen := make(map[string]bool, len(doc.Students))
	for _, st := range doc.Students {
		if seen[st] {
			continue
		}
		seen[st] = true
		var pct float64
		if total > 0 {
			pct = float64(present[st]) / float64(total) * 100
		}
		out = append(out, StudentPercentage{Student: st, Percentage: pct})
	}
	return out
}

// AllRecords yields every (date, subject, student) row in storage order.
func AllRecords(doc *Document) iter.Seq[Record] {
	return FilteredRecords(doc, Filter{})
}

// FilteredRecords yields the rows matching f in storage order. The sequence
// can be ranged over any number of times.
func FilteredRecords(doc *Document, f Filter) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for day := doc.Attendance.Oldest(); day != nil; day = day.Next() {
			if f.Date != "" && day.Key != f.Date {
				continue
			}
			if day.Value == nil {
				continue
			}
			for class := day.Value.Oldest(); class != nil; class = class.Next() {
				if f.Subject != "" && f.Subject != AllSubjects && class.Key != f.Subject {
					continue
				}
				if class.Value == nil {
					continue
				}
				for m := class.Value.Oldest(); m != nil; m = m.Next() {
					if !yield(Record{Date: day.Key, Subject: class.Key, Student: m.Key, Status: m.Value}) {
						return
					}
				}
			}
		}
	}
}
