package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/inkpress"
	"github.com/eringen/inkpress/content"
	"github.com/eringen/inkpress/scaffold"
)

// postData holds the template variables passed to the post scaffold.
type postData struct {
	Title       string
	Description string
	Category    content.Category
	PubDate     string
	Slug        string
}

func newNewCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "new <title>",
		Short: "Create a new post in the content directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			category, _ := c.Flags().GetString("category")
			description, _ := c.Flags().GetString("description")
			cfg, err := inkpress.LoadConfig(configFile)
			if err != nil {
				return err
			}
			path, err := runNew(cfg.ContentDir, strings.Join(args, " "), description, content.Category(category), time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "created %s\n", path)
			return nil
		},
	}
	c.Flags().String("category", string(content.CategoryAlgorithm),
		"Post category ("+strings.Join(categoryNames(), ", ")+")")
	c.Flags().String("description", "", "Short summary shown in listings and feeds")
	return c
}

// runNew writes a scaffolded post into dir and returns its path. The
// result is validated before it is reported as created.
func runNew(dir, title, description string, category content.Category, now time.Time) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errors.New("title must not be empty")
	}
	if !category.Valid() {
		return "", fmt.Errorf("unknown category %q: must be one of: %s", category, strings.Join(categoryNames(), ", "))
	}
	slug := content.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q does not produce a usable slug", title)
	}
	if description == "" {
		description = title
	}

	outPath := filepath.Join(dir, slug+".md")
	if _, err := os.Stat(outPath); err == nil {
		return "", fmt.Errorf("post %q already exists", outPath)
	}

	tmpl, err := template.ParseFS(scaffold.Templates, scaffold.Post)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", scaffold.Post, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", outPath, err)
	}
	err = writePost(f, tmpl, postData{
		Title:       title,
		Description: description,
		Category:    category,
		PubDate:     now.Format("2006-01-02"),
		Slug:        slug,
	})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outPath)
		return "", err
	}

	if _, err := content.LoadFile(outPath); err != nil {
		return outPath, fmt.Errorf("generated post is invalid: %w", err)
	}
	return outPath, nil
}

func writePost(w io.Writer, tmpl *template.Template, data postData) error {
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}

func categoryNames() []string {
	names := make([]string, len(content.Categories))
	for i, c := range content.Categories {
		names[i] = string(c)
	}
	return names
}
