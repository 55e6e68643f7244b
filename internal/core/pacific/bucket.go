package pacific

// Bucket groups the items that fell on one civil day
type Bucket[T any] struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
	Items []T  `json:"items"`
}

// BucketByDay returns one bucket per day of r in ascending order
//
// Days without items are present with Count 0 and an empty (non nil) Items
// slice so charts never silently skip a day. Items dated outside r are
// dropped
func BucketByDay[T any](r Range, items []T, dateOf func(T) Date) []Bucket[T] {
	days := r.Days()
	out := make([]Bucket[T], len(days))
	idx := make(map[Date]int, len(days))
	for i, d := range days {
		out[i] = Bucket[T]{Date: d, Items: []T{}}
		idx[d] = i
	}
	for _, it := range items {
		i, ok := idx[dateOf(it)]
		if !ok {
			continue
		}
		out[i].Items = append(out[i].Items, it)
		out[i].Count++
	}
	return out
}

// DayCount is a Bucket without its items
type DayCount struct {
	Date  Date `json:"date"`
	Count int  `json:"count"`
}

// CountByDay is BucketByDay for series that only need totals; same order,
// zero days included
func CountByDay[T any](r Range, items []T, dateOf func(T) Date) []DayCount {
	days := r.Days()
	out := make([]DayCount, len(days))
	idx := make(map[Date]int, len(days))
	for i, d := range days {
		out[i] = DayCount{Date: d}
		idx[d] = i
	}
	for _, it := range items {
		if i, ok := idx[dateOf(it)]; ok {
			out[i].Count++
		}
	}
	return out
}
