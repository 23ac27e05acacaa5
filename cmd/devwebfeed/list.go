package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glabrego/devwebfeed/internal/board"
	"github.com/glabrego/devwebfeed/internal/posts"
	"github.com/glabrego/devwebfeed/internal/render/markup"
	"github.com/glabrego/devwebfeed/internal/tui/view"
)

var (
	flagListDomain     string
	flagListAuthor     string
	flagListMaxResults int
	flagListTweets     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the merged post list",
	Long: `Fetch last year's and this year's posts plus the tweet feed, merge them and
print the result. --domain and --author narrow the list the same way the
interactive filters do.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&flagListDomain, "domain", "", "only posts from this domain")
	listCmd.Flags().StringVar(&flagListAuthor, "author", "", "only posts by this author")
	listCmd.Flags().IntVar(&flagListMaxResults, "max-results", 0, "cap each year's request (0 for no cap)")
	listCmd.Flags().BoolVar(&flagListTweets, "tweets", true, "include tweets")
}

func runList(cmd *cobra.Command, args []string) error {
	if flagListDomain != "" && flagListAuthor != "" {
		return fmt.Errorf("--domain and --author cannot be combined")
	}

	ctx := context.Background()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()
	svc.service.WithMaxResults(flagListMaxResults)

	query := url.Values{}
	if flagListDomain != "" {
		query.Set(posts.KeyDomain, flagListDomain)
	}
	if flagListAuthor != "" {
		query.Set(posts.KeyAuthor, flagListAuthor)
	}

	renderer := view.NewListRenderer()
	ctrl := board.NewController(renderer, board.Options{
		IncludeTweets: flagListTweets,
		Location:      &board.Location{Path: "/", Query: query},
	})
	if err := ctrl.Start(ctx, svc.service); err != nil {
		return err
	}
	if _, _, filtering := ctrl.Filter(); !filtering && !flagListTweets {
		ctrl.SetIncludeTweets(false)
	}

	printPosts(cmd.OutOrStdout(), renderer.Posts())
	return nil
}

const listTitleWidth = 64

func printPosts(w io.Writer, list []posts.Post) {
	for _, p := range list {
		title := markup.Wrap(view.PostTitle(p), listTitleWidth)
		line := fmt.Sprintf("%-12s  %s", view.DisplayDate(p), strings.Join(title, "\n"+strings.Repeat(" ", 14)))
		if meta := view.PostMeta(p); meta != "" {
			line += "  (" + meta + ")"
		}
		fmt.Fprintf(w, "%s\n    %s\n", line, p.URL)
	}
}
