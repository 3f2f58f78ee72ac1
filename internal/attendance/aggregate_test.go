package attendance

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ledgerJSON = `{
  "students": ["A", "B", "A", "C"],
  "subjects": ["Math", "Sci"],
  "timetable": {"Monday": ["Math", "Sci"]},
  "attendance": {
    "2024-01-08": {"Sci": {"A": "Present", "B": "Absent"}, "Math": {"A": "Present", "Ghost": "Present"}},
    "2024-01-01": {"Math": {"A": "Absent", "B": "Present"}}
  }
}`

func decode(t *testing.T, body string) *Document {
	t.Helper()
	doc := NewDocument()
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	doc.normalize()
	return doc
}

func TestPercentages(t *testing.T) {
	doc := decode(t, ledgerJSON)

	tests := []struct {
		name string
		d    Denominator
		want []StudentPercentage
	}{
		// A is present twice on one date, so it can exceed 100% per date.
		{"per date", PerDate, []StudentPercentage{{"A", 100}, {"B", 50}, {"C", 0}}},
		{"per class", PerClass, []StudentPercentage{{"A", 200.0 / 3}, {"B", 100.0 / 3}, {"C", 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentages(doc, tt.d)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Student, got[i].Student)
				assert.InDelta(t, tt.want[i].Percentage, got[i].Percentage, 1e-9)
			}
		})
	}
}

func TestPercentagesEmptyLedger(t *testing.T) {
	doc := NewDocument()
	doc.Students = []string{"A"}
	assert.Equal(t, []StudentPercentage{{"A", 0}}, Percentages(doc, PerDate))
	assert.Equal(t, []StudentPercentage{{"A", 0}}, Percentages(doc, PerClass))
}

func TestFilteredRecords(t *testing.T) {
	doc := decode(t, ledgerJSON)

	tests := []struct {
		name string
		f    Filter
		want int
	}{
		{"none", Filter{}, 6},
		{"all subjects", Filter{Subject: AllSubjects}, 6},
		{"date", Filter{Date: "2024-01-08"}, 4},
		{"subject", Filter{Subject: "Math"}, 4},
		{"date and subject", Filter{Date: "2024-01-01", Subject: "Math"}, 2},
		{"no match", Filter{Date: "2023-01-01"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n int
			for r := range FilteredRecords(doc, tt.f) {
				n++
				if tt.f.Date != "" {
					assert.Equal(t, tt.f.Date, r.Date)
				}
				if tt.f.Subject != "" && tt.f.Subject != AllSubjects {
					assert.Equal(t, tt.f.Subject, r.Subject)
				}
			}
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestRecordsRestartable(t *testing.T) {
	doc := decode(t, ledgerJSON)
	seq := AllRecords(doc)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
	assert.Equal(t, Record{"2024-01-08", "Sci", "A", Present}, first[0])
	assert.Equal(t, Record{"2024-01-01", "Math", "B", Present}, first[len(first)-1])

	var taken []Record
	for r := range seq {
		taken = append(taken, r)
		if len(taken) == 2 {
			break
		}
	}
	assert.Equal(t, first[:2], taken)
}

func TestParseHelpers(t *testing.T) {
	st, err := ParseStatus("present")
	require.NoError(t, err)
	assert.Equal(t, Present, st)
	_, err = ParseStatus("late")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	d, err := ParseDenominator("classes")
	require.NoError(t, err)
	assert.Equal(t, PerClass, d)
	_, err = ParseDenominator("weeks")
	assert.Error(t, err)
}
