package order

import "strconv"

// SortKey mirrors the client-facing QLSortMethod enumeration. Ordinals are a
// persisted external contract (clients store the selected mode) and must not
// be renumbered without a migration note.
type SortKey int

const (
	SortNone SortKey = iota
	SortByDate
	SortByDuration
	SortByRating
	SortByPercentage
	SortByAmount
)

func (k SortKey) Valid() bool { return k >= SortNone && k <= SortByAmount }

func (k SortKey) String() string {
	switch k {
	case SortNone:
		return "none"
	case SortByDate:
		return "date"
	case SortByDuration:
		return "duration"
	case SortByRating:
		return "rating"
	case SortByPercentage:
		return "percentage"
	case SortByAmount:
		return "amount"
	}
	return "sortkey(" + strconv.Itoa(int(k)) + ")"
}

// ParseSortKey accepts either the ordinal or the lowercase name.
// Empty input means SortNone.
func ParseSortKey(raw string) (SortKey, bool) {
	if raw == "" {
		return SortNone, true
	}
	if n, err := strconv.Atoi(raw); err == nil {
		k := SortKey(n)
		return k, k.Valid()
	}
	for k := SortNone; k <= SortByAmount; k++ {
		if k.String() == raw {
			return k, true
		}
	}
	return SortNone, false
}
