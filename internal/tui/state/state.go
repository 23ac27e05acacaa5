package state

import (
	"github.com/glabrego/devwebfeed/internal/posts"
	tuitree "github.com/glabrego/devwebfeed/internal/tui/tree"
)

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

func PostIndexByURL(list []posts.Post, url string) int {
	for i, p := range list {
		if p.URL == url {
			return i
		}
	}
	return -1
}

func TreeCursorForPost(rows []tuitree.Row, postIndex int) int {
	for i, row := range rows {
		if row.Kind == tuitree.RowPost && row.PostIndex == postIndex {
			return i
		}
	}
	return -1
}

// SelectedPost resolves the row under the cursor to a post index. Month rows
// resolve to nothing.
func SelectedPost(rows []tuitree.Row, treeCursor int) (int, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	row := rows[ClampCursor(treeCursor, len(rows))]
	if row.Kind != tuitree.RowPost {
		return 0, false
	}
	return row.PostIndex, true
}
