package listing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByDate       SortKey = "date"
	SortByTitle      SortKey = "title"
	SortByApplicants SortKey = "applicants"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortByDate, SortByTitle, SortByApplicants:
		return true
	}
	return false
}

// titles compare case-insensitively with locale-aware ordering, the same
// ordering a collating string compare gives in the browser.
var titleCollator = collate.New(language.English, collate.IgnoreCase)

// Sort orders items in place by the given key. SortByApplicants is a no-op
// comparator: the backend exposes no applicant counts yet, so every pair
// compares equal and the incoming order is kept (stable sort).
func Sort(items []Listing, key SortKey, descending bool) {
	cmp := comparatorFor(key)

	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if descending {
			return c > 0
		}
		return c < 0
	})
}

func comparatorFor(key SortKey) func(a, b Listing) int {
	switch key {
	case SortByTitle:
		return func(a, b Listing) int {
			return titleCollator.CompareString(a.Title, b.Title)
		}
	case SortByApplicants:
		return func(a, b Listing) int {
			return 0
		}
	default: // date
		return func(a, b Listing) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}
}
