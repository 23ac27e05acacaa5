package tree

import (
	"github.com/glabrego/devwebfeed/internal/posts"
)

type RowKind string

const (
	RowMonth RowKind = "month"
	RowPost  RowKind = "post"
)

const undatedLabel = "Undated"

type Row struct {
	Kind      RowKind
	Label     string
	Month     string
	PostIndex int
}

type BuildOptions struct {
	// Flat drops the month headers.
	Flat            bool
	CollapsedMonths map[string]bool
}

// MonthKey labels the month a post was submitted in, e.g. "November 2017".
func MonthKey(p posts.Post) string {
	t := p.SubmittedAt()
	if t.IsZero() {
		return undatedLabel
	}
	return t.UTC().Format("January 2006")
}

// BuildRows groups posts under month headers. Months appear in the order
// their first post appears and posts keep their list order.
func BuildRows(list []posts.Post, opts BuildOptions) []Row {
	if opts.Flat {
		rows := make([]Row, 0, len(list))
		for i, p := range list {
			rows = append(rows, Row{Kind: RowPost, Month: MonthKey(p), PostIndex: i})
		}
		return rows
	}

	order := make([]string, 0, 16)
	groups := make(map[string][]int)
	for i, p := range list {
		key := MonthKey(p)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	rows := make([]Row, 0, len(list)+len(order))
	for _, key := range order {
		rows = append(rows, Row{Kind: RowMonth, Label: key, Month: key})
		if opts.CollapsedMonths[key] {
			continue
		}
		for _, idx := range groups[key] {
			rows = append(rows, Row{Kind: RowPost, Month: key, PostIndex: idx})
		}
	}
	return rows
}

// MonthCounts counts posts per month label.
func MonthCounts(list []posts.Post) map[string]int {
	counts := make(map[string]int)
	for _, p := range list {
		counts[MonthKey(p)]++
	}
	return counts
}

func FirstPostRow(rows []Row) int {
	for i, row := range rows {
		if row.Kind == RowPost {
			return i
		}
	}
	return 0
}
