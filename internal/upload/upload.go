// Package upload validates files before they leave for the backend and sends
// them concurrently.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"slidecast/internal/backend"
	"slidecast/internal/domain"
)

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize int64 = 20_000_000

// DefaultAllowedTypes accepts any image or audio MIME type.
var DefaultAllowedTypes = []string{"image/*", "audio/*"}

// ErrTooLarge matches files over the size limit, whether rejected up front by
// Validate or cut off while their body streams.
var ErrTooLarge = errors.New("upload: file exceeds size limit")

// Uploader sends one file to a project.
type Uploader interface {
	UploadAsset(ctx context.Context, projectID string, f backend.File) (*domain.AssetRef, error)
}

// Options tune validation and fan-out. Zero values mean defaults.
type Options struct {
	MaxSize      int64
	AllowedTypes []string
	Concurrency  int
}

func (o Options) withDefaults() Options {
	if o.MaxSize <= 0 {
		o.MaxSize = MaxFileSize
	}
	if len(o.AllowedTypes) == 0 {
		o.AllowedTypes = DefaultAllowedTypes
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	return o
}

// FileError explains why one file was rejected. Kind, when set, narrows the
// rejection beyond ErrInvalidInput.
type FileError struct {
	Name   string
	Reason string
	Kind   error
}

func (e *FileError) Error() string { return e.Reason }

func (e *FileError) Unwrap() []error {
	if e.Kind == nil {
		return []error{domain.ErrInvalidInput}
	}
	return []error{domain.ErrInvalidInput, e.Kind}
}

// ContentType returns the declared type, or one guessed from the extension.
func ContentType(f backend.File) string {
	if ct := strings.TrimSpace(f.ContentType); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			return mt
		}
		return strings.ToLower(ct)
	}
	if mt, _, err := mime.ParseMediaType(mime.TypeByExtension(strings.ToLower(filepath.Ext(f.Name)))); err == nil {
		return mt
	}
	return ""
}

// Allowed reports whether contentType matches one of patterns. A pattern is
// either an exact type or "category/*".
func Allowed(contentType string, patterns []string) bool {
	for _, p := range patterns {
		if category, ok := strings.CutSuffix(p, "/*"); ok {
			if strings.HasPrefix(contentType, category+"/") {
				return true
			}
			continue
		}
		if contentType == p {
			return true
		}
	}
	return false
}

// Validate checks the declared size and the content type of f.
func Validate(f backend.File, opts Options) error {
	opts = opts.withDefaults()
	if f.Size > opts.MaxSize {
		mb := int(math.Round(float64(opts.MaxSize) / (1024 * 1024)))
		return &FileError{Name: f.Name, Reason: fmt.Sprintf("File %s is too large. Maximum size is %dMB.", f.Name, mb), Kind: ErrTooLarge}
	}
	ct := ContentType(f)
	if !Allowed(ct, opts.AllowedTypes) {
		return &FileError{Name: f.Name, Reason: fmt.Sprintf("File type %s is not allowed. Allowed types: %s", ct, strings.Join(opts.AllowedTypes, ", "))}
	}
	return nil
}

// FormatFor maps an accepted content type to the asset kind it becomes.
func FormatFor(contentType string) domain.AssetFormat {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.AssetFormatImage
	case strings.HasPrefix(contentType, "audio/"):
		return domain.AssetFormatAudio
	case strings.HasPrefix(contentType, "video/"):
		return domain.AssetFormatVideo
	}
	return ""
}

// All validates every file, then uploads them concurrently. Nothing is sent
// when any file is invalid. onDone, when set, runs once per finished upload
// in completion order and never concurrently. The first failure cancels the
// remaining uploads. Assets are returned in input order.
func All(ctx context.Context, up Uploader, projectID string, files []backend.File, opts Options, onDone func(i int, asset domain.AssetRef)) ([]domain.AssetRef, error) {
	opts = opts.withDefaults()
	var invalid []error
	for _, f := range files {
		if err := Validate(f, opts); err != nil {
			invalid = append(invalid, err)
		}
	}
	if len(invalid) > 0 {
		return nil, errors.Join(invalid...)
	}

	out := make([]domain.AssetRef, len(files))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, f := range files {
		g.Go(func() error {
			f.ContentType = ContentType(f)
			f.Body = &limitedReader{r: f.Body, left: opts.MaxSize}
			asset, err := up.UploadAsset(gctx, projectID, f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			out[i] = *asset
			if onDone != nil {
				mu.Lock()
				onDone(i, *asset)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// limitedReader fails instead of truncating once more than left bytes arrive.
type limitedReader struct {
	r    io.Reader
	left int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.r == nil {
		return 0, io.EOF
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
