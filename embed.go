package inkpress

import "embed"

// EmbeddedAssets contains the default stylesheet and favicon, served when
// the public directory does not provide its own.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
