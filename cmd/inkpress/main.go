// Command inkpress serves, exports and checks an inkpress blog.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpress"
)

// version is set at build time via ldflags.
var version = "dev"

var configFile string

var rootCmd = &cobra.Command{
	Use:           "inkpress",
	Short:         "A markdown blog engine with a validated content schema",
	Long:          `inkpress loads markdown posts, validates their frontmatter against the blog schema, and serves or exports the site.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "inkpress.yaml", "Path to the site config file")
	rootCmd.AddCommand(
		newServeCmd(),
		newBuildCmd(),
		newCheckCmd(),
		newNewCmd(),
		newShowCmd(),
		newVersionCmd(),
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadApp() (*inkpress.App, error) {
	cfg, err := inkpress.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	return inkpress.New(cfg, inkpress.DefaultViews()), nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the site",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.Init(c.Context()); err != nil {
				return err
			}
			go func() {
				<-c.Context().Done()
				_ = app.Echo.Close()
			}()
			return app.Start()
		},
	}
}

func newBuildCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "build",
		Short: "Export the site as static files",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out, _ := c.Flags().GetString("out")
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			n, err := app.Build(c.Context(), out)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "wrote %d files to %s\n", n, out)
			return nil
		},
	}
	c.Flags().StringP("out", "o", "dist", "Output directory")
	return c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inkpress version",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, _ []string) {
			fmt.Fprintf(c.OutOrStdout(), "inkpress %s\n", version)
		},
	}
}
