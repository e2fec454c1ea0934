// Package content defines the blog collection: the frontmatter schema, its
// validator, the frontmatter parser and the directory loader.
//
// Validate is pure. It never logs, never touches the filesystem and never
// mutates its input, so documents can be validated concurrently.
package content

import (
	"strings"
	"time"
)

// Category is the fixed set of topics a post can belong to.
type Category string

const (
	CategoryAlgorithm      Category = "algorithm"
	CategoryLowLevelSystem Category = "low-level-system"
	CategorySoftwareDesign Category = "software-design"
)

// Categories lists every valid category in declaration order.
var Categories = []Category{
	CategoryAlgorithm,
	CategoryLowLevelSystem,
	CategorySoftwareDesign,
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Title returns a display label, e.g. "Low Level System".
func (c Category) Title() string {
	words := strings.Split(string(c), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Metadata is the validated frontmatter of one blog post. Optional fields
// are nil when the document did not set them.
type Metadata struct {
	Title            string
	Description      string
	PubDate          time.Time
	UpdatedDate      *time.Time
	CoverImageCredit *string
	CoverImage       *string
	Category         Category
}

type fieldType int

const (
	stringField fieldType = iota
	dateField
	enumField
)

// field is one declarative rule of the schema.
type field struct {
	name     string
	typ      fieldType
	required bool
	nonEmpty bool
	enum     []string
	assign   func(m *Metadata, v any)
}

var blogSchema = []field{
	{
		name: "title", typ: stringField, required: true, nonEmpty: true,
		assign: func(m *Metadata, v any) { m.Title = v.(string) },
	},
	{
		name: "description", typ: stringField, required: true, nonEmpty: true,
		assign: func(m *Metadata, v any) { m.Description = v.(string) },
	},
	{
		name: "pubDate", typ: dateField, required: true,
		assign: func(m *Metadata, v any) { m.PubDate = v.(time.Time) },
	},
	{
		name: "updatedDate", typ: dateField,
		assign: func(m *Metadata, v any) {
			t := v.(time.Time)
			m.UpdatedDate = &t
		},
	},
	{
		name: "coverImageCredit", typ: stringField,
		assign: func(m *Metadata, v any) {
			s := v.(string)
			m.CoverImageCredit = &s
		},
	},
	{
		name: "coverImage", typ: stringField,
		assign: func(m *Metadata, v any) {
			s := v.(string)
			m.CoverImage = &s
		},
	},
	{
		name: "category", typ: enumField, required: true,
		enum: categoryNames(),
		assign: func(m *Metadata, v any) { m.Category = Category(v.(string)) },
	},
}

func categoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// FieldNames returns the schema's field names in declaration order.
func FieldNames() []string {
	names := make([]string, len(blogSchema))
	for i, f := range blogSchema {
		names[i] = f.name
	}
	return names
}
