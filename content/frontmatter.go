package content

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrMalformedFrontmatter is returned when a document opens a frontmatter
// block that cannot be decoded into a key/value mapping.
var ErrMalformedFrontmatter = errors.New("malformed frontmatter")

// ParseDocument splits src into its frontmatter mapping and body. YAML
// frontmatter is fenced by "---" lines, TOML by "+++" lines. A document
// without a fence has an empty mapping and src as its body.
func ParseDocument(src []byte) (map[string]any, string, error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))
	first, rest, _ := cutLine(src)
	fence := string(bytes.TrimRight(first, " \t"))
	if fence != "---" && fence != "+++" {
		return map[string]any{}, string(src), nil
	}

	var block []byte
	closed := false
	for len(rest) > 0 {
		var line []byte
		line, rest, _ = cutLine(rest)
		if string(bytes.TrimRight(line, " \t")) == fence {
			closed = true
			break
		}
		block = append(block, line...)
		block = append(block, '\n')
	}
	if !closed {
		return nil, "", fmt.Errorf("%w: missing closing %q", ErrMalformedFrontmatter, fence)
	}

	raw := map[string]any{}
	if fence == "---" {
		if err := yaml.Unmarshal(block, &raw); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	} else {
		if err := toml.Unmarshal(block, &raw); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrMalformedFrontmatter, err)
		}
		normalizeTOML(raw)
	}
	return raw, string(bytes.TrimLeft(rest, "\r\n")), nil
}

// cutLine returns the first line of b without its terminator.
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

// normalizeTOML turns TOML local dates into UTC times so the date coercion
// sees the same types regardless of the frontmatter format.
func normalizeTOML(raw map[string]any) {
	for k, v := range raw {
		switch x := v.(type) {
		case toml.LocalDate:
			raw[k] = x.AsTime(time.UTC)
		case toml.LocalDateTime:
			raw[k] = x.AsTime(time.UTC)
		}
	}
}
