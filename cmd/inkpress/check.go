package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/content"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every post in the content directory",
		Long: `Load the content collection and report every document whose frontmatter
does not satisfy the blog schema. Exits non-zero when any document fails.`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := inkpress.LoadConfig(configFile)
			if err != nil {
				return err
			}
			report, err := content.LoadCollection(c.Context(), os.DirFS(cfg.ContentDir))
			if err != nil {
				return err
			}
			printReport(c.OutOrStdout(), report)
			if !report.OK() {
				return fmt.Errorf("%d of %d documents failed validation", len(report.Failures), len(report.Posts)+len(report.Failures))
			}
			return nil
		},
	}
}

func printReport(w io.Writer, report content.Report) {
	for _, f := range report.Failures {
		fmt.Fprintf(w, "FAIL %s\n", f.Path)
		fes := f.FieldErrors()
		if len(fes) == 0 {
			fmt.Fprintf(w, "  %v\n", f.Err)
			continue
		}
		for _, fe := range fes {
			fmt.Fprintf(w, "  %-16s %-22s %s\n", fe.Field, fe.Kind, fe.Error())
		}
	}
	fmt.Fprintf(w, "%d posts ok, %d failed\n", len(report.Posts), len(report.Failures))
}
