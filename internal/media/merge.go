package media

import (
	"slices"
)

// compareNullable orders nil before any value.
func compareNullable(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}

func compareRecords(a, b Record) int {
	if c := compareNullable(a.CreationDate, b.CreationDate); c != 0 {
		return c
	}
	return compareNullable(a.ModifiedDate, b.ModifiedDate)
}

// MergeRecords concatenates the per-kind lists and orders them by
// (creationDate, modifiedDate). Equal keys keep their input order; newest
// reverses the ascending result as a whole.
func MergeRecords(newest bool, lists ...[]Record) []Record {
	var n int
	for _, l := range lists {
		n += len(l)
	}

	merged := make([]Record, 0, n)
	for _, l := range lists {
		merged = append(merged, l...)
	}

	slices.SortStableFunc(merged, compareRecords)
	if newest {
		slices.Reverse(merged)
	}
	return merged
}

// Paginate slices items into a page. A start past the end yields an empty page.
func Paginate(items []Record, skip, take *int) Page {
	start := 0
	if skip != nil && *skip > 0 {
		start = *skip
	}

	page := Page{Start: start, Items: []Record{}}
	if skip == nil && take == nil {
		page.Items = append(page.Items, items...)
		return page
	}

	total := len(items)
	if start >= total {
		return page
	}

	end := total
	if take != nil && *take < total-start {
		end = start + max(*take, 0)
	}

	page.Items = append(page.Items, items[start:end]...)
	return page
}
