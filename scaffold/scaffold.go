// Package scaffold embeds the templates used by "inkpress new".
package scaffold

import "embed"

// Templates contains the scaffold files. They use text/template syntax
// and carry a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Post is the template path for a new blog post.
const Post = "templates/post.md.tmpl"
