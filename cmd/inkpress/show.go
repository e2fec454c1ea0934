package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/eringen/inkpress/content"
)

func newShowCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "show <file>",
		Short: "Validate one post and print it",
		Long: `Validate a single document and print its metadata and body.
Terminal output is rendered with glamour; pipes get raw markdown.`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	c.Flags().Bool("raw", false, "Output raw markdown without rendering")
	return c
}

func runShow(c *cobra.Command, args []string) error {
	raw, _ := c.Flags().GetBool("raw")
	post, err := content.LoadFile(args[0])
	if err != nil {
		return fmt.Errorf("show %q: %w", args[0], err)
	}

	out := c.OutOrStdout()
	m := post.Meta
	fmt.Fprintf(out, "slug:      %s\n", post.Slug)
	fmt.Fprintf(out, "title:     %s\n", m.Title)
	fmt.Fprintf(out, "category:  %s\n", m.Category)
	fmt.Fprintf(out, "published: %s\n", m.PubDate.Format("2006-01-02"))
	if m.UpdatedDate != nil {
		fmt.Fprintf(out, "updated:   %s\n", m.UpdatedDate.Format("2006-01-02"))
	}
	if m.CoverImage != nil {
		fmt.Fprintf(out, "cover:     %s\n", *m.CoverImage)
	}
	fmt.Fprintln(out)

	if !raw && term.IsTerminal(int(os.Stdout.Fd())) {
		rendered, renderErr := glamour.Render("# "+m.Title+"\n\n"+post.Body, "dark")
		if renderErr == nil {
			fmt.Fprint(out, rendered)
			return nil
		}
	}
	fmt.Fprint(out, post.Body)
	return nil
}
