package board

import (
	"context"
	"fmt"

	"github.com/glabrego/devwebfeed/internal/posts"
)

const DeletePrompt = "Are you sure you want to delete this post?"

type Deleter interface {
	DeletePost(ctx context.Context, year, month, url string) error
}

// DeleteTarget derives the year and the 1-based, zero-padded month of the
// month document holding a post from its displayed date, in UTC.
func DeleteTarget(displayDate string) (year, month string, err error) {
	t, ok := posts.ParseDate(displayDate)
	if !ok {
		return "", "", fmt.Errorf("unrecognised post date %q", displayDate)
	}
	t = t.UTC()
	return fmt.Sprintf("%04d", t.Year()), fmt.Sprintf("%02d", int(t.Month())), nil
}

// Delete asks confirm and, when accepted, issues the delete call. A declined
// confirmation is not an error; it reports false.
func Delete(ctx context.Context, d Deleter, confirm func(prompt string) bool, displayDate, url string) (bool, error) {
	year, month, err := DeleteTarget(displayDate)
	if err != nil {
		return false, err
	}
	if confirm != nil && !confirm(DeletePrompt) {
		return false, nil
	}
	if err := d.DeletePost(ctx, year, month, url); err != nil {
		return true, fmt.Errorf("delete post %s: %w", url, err)
	}
	return true, nil
}
