package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/glabrego/devwebfeed/internal/board"
	"github.com/glabrego/devwebfeed/internal/devweb"
)

var flagDeleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <date> <url>",
	Short: "Delete a post from its month document",
	Long: `Delete the post with the given URL. The date is the post's submitted date as
shown in the list (e.g. "Nov 9, 2017" or "2017-11-09"); it selects the month
document the post lives in.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm := confirmFromReader(cmd.InOrStdin(), cmd.OutOrStdout())
		if flagDeleteYes {
			confirm = nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		client := devweb.NewClient(cfg.BaseURL, nil)
		issued, err := board.Delete(ctx, client, confirm, args[0], args[1])
		if err != nil {
			return err
		}
		if !issued {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Delete requested.")
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&flagDeleteYes, "yes", "y", false, "skip the confirmation prompt")
}

func confirmFromReader(in io.Reader, out io.Writer) func(string) bool {
	return func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && answer == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		default:
			return false
		}
	}
}
