package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrDuplicateSlug is reported when two documents resolve to the same slug.
var ErrDuplicateSlug = errors.New("duplicate slug")

// Post is one validated document of the blog collection.
type Post struct {
	Slug         string
	Path         string // path of the source document within the collection
	Meta         Metadata
	Body         string // markdown after the frontmatter block
	ModifiedTime time.Time
}

// LastModified returns updatedDate when set, then the file modification
// time, then pubDate.
func (p Post) LastModified() time.Time {
	if p.Meta.UpdatedDate != nil {
		return *p.Meta.UpdatedDate
	}
	if !p.ModifiedTime.IsZero() {
		return p.ModifiedTime
	}
	return p.Meta.PubDate
}

// Failure records a document that could not be turned into a Post.
type Failure struct {
	Path string
	Err  error
}

// FieldErrors returns the per-field errors when the failure came from
// validation, nil otherwise.
func (f Failure) FieldErrors() []*FieldError {
	var ve *ValidationError
	if errors.As(f.Err, &ve) {
		return ve.Errors
	}
	return nil
}

// Report is the outcome of loading a collection.
type Report struct {
	Posts    []Post
	Failures []Failure
	Loaded   time.Time
}

// OK reports whether every document was valid.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Err joins every failure into a single error, or returns nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = fmt.Errorf("%s: %w", f.Path, f.Err)
	}
	return errors.Join(errs...)
}

var documentExts = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
}

// LoadOption configures LoadCollection.
type LoadOption func(*loadConfig)

type loadConfig struct {
	workers int
	now     func() time.Time
}

// WithWorkers bounds how many documents are parsed at once.
func WithWorkers(n int) LoadOption {
	return func(c *loadConfig) {
		if n > 0 {
			c.workers = n
		}
	}
}

// LoadCollection walks fsys, parses and validates every document and
// returns the valid posts together with every failure. Only walk and
// context errors are returned as err; bad documents land in the report.
func LoadCollection(ctx context.Context, fsys fs.FS, opts ...LoadOption) (Report, error) {
	cfg := loadConfig{workers: runtime.GOMAXPROCS(0), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if p != "." && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && documentExts[strings.ToLower(path.Ext(name))] {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("content: walk collection: %w", err)
	}
	sort.Strings(paths)

	type result struct {
		post Post
		err  error
	}
	results := make([]result, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				post, err := loadDocument(fsys, paths[i])
				results[i] = result{post: post, err: err}
			}
		}()
	}
feed:
	for i := range paths {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	report := Report{Loaded: cfg.now()}
	seen := make(map[string]string)
	for i, r := range results {
		if r.err != nil {
			report.Failures = append(report.Failures, Failure{Path: paths[i], Err: r.err})
			continue
		}
		if first, dup := seen[r.post.Slug]; dup {
			report.Failures = append(report.Failures, Failure{
				Path: paths[i],
				Err:  fmt.Errorf("%w %q (already used by %s)", ErrDuplicateSlug, r.post.Slug, first),
			})
			continue
		}
		seen[r.post.Slug] = paths[i]
		report.Posts = append(report.Posts, r.post)
	}
	SortPosts(report.Posts)
	return report, nil
}

// LoadFile parses and validates a single document from disk.
func LoadFile(name string) (Post, error) {
	dir, base := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	return loadDocument(os.DirFS(dir), base)
}

func loadDocument(fsys fs.FS, p string) (Post, error) {
	src, err := fs.ReadFile(fsys, p)
	if err != nil {
		return Post{}, err
	}
	raw, body, err := ParseDocument(src)
	if err != nil {
		return Post{}, err
	}
	meta, err := Validate(raw)
	if err != nil {
		return Post{}, err
	}
	slug := SlugFor(p)
	if slug == "" {
		return Post{}, fmt.Errorf("%w: %q has no letters or digits", ErrEmptySlug, p)
	}
	post := Post{
		Slug: slug,
		Path: p,
		Meta: meta,
		Body: body,
	}
	if info, err := fs.Stat(fsys, p); err == nil {
		post.ModifiedTime = info.ModTime().UTC()
	}
	return post, nil
}

// SortPosts orders posts newest first, breaking ties by slug.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].Meta.PubDate, posts[j].Meta.PubDate
		if !a.Equal(b) {
			return a.After(b)
		}
		return posts[i].Slug < posts[j].Slug
	})
}
