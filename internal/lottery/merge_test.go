package lottery

import (
	"reflect"
	"testing"
)

func record(issue, date string) DrawRecord {
	return DrawRecord{
		IssueNumber:     issue,
		MainBalls:       []int{1, 2, 3, 4, 5},
		SupplementBalls: []int{6, 7},
		DrawDate:        date,
	}
}

func issues(records []DrawRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.IssueNumber)
	}
	return out
}

func TestMergeScenario(t *testing.T) {
	existing := []DrawRecord{record("100", "OLD")}
	incoming := []DrawRecord{record("100", "NEW"), record("101", "2025-01-03")}

	got := Merge(existing, incoming)
	want := []DrawRecord{record("101", "2025-01-03"), record("100", "NEW")}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge() = %+v, want %+v", got, want)
	}
}

func TestMergeOrdering(t *testing.T) {
	tests := []struct {
		name     string
		existing []DrawRecord
		incoming []DrawRecord
		want     []string
	}{
		{"empty", nil, nil, []string{}},
		{"only existing", []DrawRecord{record("25001", ""), record("25003", "")}, nil, []string{"25003", "25001"}},
		{"only incoming", nil, []DrawRecord{record("24150", ""), record("25001", "")}, []string{"25001", "24150"}},
		{"numeric not lexical", []DrawRecord{record("99", ""), record("100", "")}, []DrawRecord{record("9", "")}, []string{"100", "99", "9"}},
		{"leading zeros", []DrawRecord{record("07001", ""), record("25001", "")}, nil, []string{"25001", "07001"}},
		{"non numeric last", []DrawRecord{record("x", ""), record("2", "")}, []DrawRecord{record("", ""), record("5", "")}, []string{"5", "2", "x", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := issues(Merge(tt.existing, tt.incoming))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() issues = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeFreshness(t *testing.T) {
	a := []DrawRecord{record("25001", "stored"), record("25002", "stored")}
	b := []DrawRecord{{IssueNumber: "25001", MainBalls: []int{9, 10, 11, 12, 13}, SupplementBalls: []int{1, 2}, DrawDate: "fetched"}}

	merged := Merge(a, b)
	for _, r := range merged {
		if r.IssueNumber != "25001" {
			continue
		}
		if !reflect.DeepEqual(r, b[0]) {
			t.Errorf("25001 = %+v, want incoming payload %+v", r, b[0])
		}
		return
	}
	t.Fatal("25001 missing from merge result")
}

func TestMergeIdempotentAndUnique(t *testing.T) {
	a := []DrawRecord{record("3", "a"), record("1", "a"), record("2", "a")}
	b := []DrawRecord{record("2", "b"), record("4", "b"), record("4", "b2")}

	once := Merge(a, b)
	twice := Merge(once, b)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Merge(Merge(A, B), B) = %v, want %v", twice, once)
	}

	seen := make(map[string]bool)
	for _, r := range once {
		if seen[r.IssueNumber] {
			t.Errorf("duplicate issue %q in %v", r.IssueNumber, issues(once))
		}
		seen[r.IssueNumber] = true
	}
	if got := once[0]; got.IssueNumber != "4" || got.DrawDate != "b2" {
		t.Errorf("last incoming duplicate should win, got %+v", got)
	}
}

func TestMergeDoesNotValidate(t *testing.T) {
	bad := DrawRecord{IssueNumber: "7", MainBalls: []int{Unparsed, 2}, SupplementBalls: []int{Unparsed}}
	got := Merge(nil, []DrawRecord{bad})
	if len(got) != 1 || !got[0].HasUnparsed() {
		t.Errorf("Merge() = %+v, want unparsed record kept", got)
	}
}

func TestHistoricalWindow(t *testing.T) {
	records := []DrawRecord{record("7", ""), record("6", ""), record("5", ""), record("4", ""), record("3", ""), record("2", ""), record("1", "")}

	tests := []struct {
		name    string
		exclude int
		want    []string
	}{
		{"default", DefaultExcludeRecent, []string{"2", "1"}},
		{"none", 0, []string{"7", "6", "5", "4", "3", "2", "1"}},
		{"negative", -3, []string{"7", "6", "5", "4", "3", "2", "1"}},
		{"all", 7, []string{}},
		{"more than all", 20, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := issues(HistoricalWindow(records, tt.exclude))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HistoricalWindow(%d) = %v, want %v", tt.exclude, got, tt.want)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := SuperLotto().MainRange
	for _, n := range []int{1, 17, 35} {
		if !r.Contains(n) {
			t.Errorf("%v should contain %d", r, n)
		}
	}
	for _, n := range []int{0, 36, Unparsed} {
		if r.Contains(n) {
			t.Errorf("%v should not contain %d", r, n)
		}
	}
}
