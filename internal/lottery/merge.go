package lottery

import (
	"cmp"
	"slices"
	"strconv"
)

// DefaultExcludeRecent is the number of newest draws left out of the historical window.
const DefaultExcludeRecent = 5

// Merge combines persisted records with freshly fetched ones.
// Records are keyed by issue number; incoming records replace existing ones with the
// same key. The result is sorted by the integer value of the issue number, newest first.
// Issue numbers that are not integers sort last, in insertion order.
func Merge(existing, incoming []DrawRecord) []DrawRecord {
	index := make(map[string]int, len(existing)+len(incoming))
	merged := make([]DrawRecord, 0, len(existing)+len(incoming))

	put := func(record DrawRecord) {
		if i, ok := index[record.IssueNumber]; ok {
			merged[i] = record
			return
		}
		index[record.IssueNumber] = len(merged)
		merged = append(merged, record)
	}
	for _, record := range existing {
		put(record)
	}
	for _, record := range incoming {
		put(record)
	}

	slices.SortStableFunc(merged, func(a, b DrawRecord) int {
		an, aok := issueValue(a.IssueNumber)
		bn, bok := issueValue(b.IssueNumber)
		switch {
		case aok && bok:
			return cmp.Compare(bn, an)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
	return merged
}

func issueValue(issue string) (int64, bool) {
	n, err := strconv.ParseInt(issue, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// HistoricalWindow drops the excludeRecent newest records from a descending record set.
func HistoricalWindow(records []DrawRecord, excludeRecent int) []DrawRecord {
	if excludeRecent < 0 {
		excludeRecent = 0
	}
	if excludeRecent >= len(records) {
		return []DrawRecord{}
	}
	return records[excludeRecent:]
}
