package extractor

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"resumescan/internal/analyzer"
	"resumescan/internal/config"
	"resumescan/internal/errors"
)

// Source kinds reported to the fetch observer.
const (
	SourceLocal = "local"
	SourceHTTP  = "http"
	SourceS3    = "s3"
)

// FetchObserver is told about every remote read, successful or not.
type FetchObserver func(ctx context.Context, kind string, err error)

// Loader reads documents from local paths, http(s) URLs and s3:// URIs and
// extracts their text.
type Loader struct {
	fetcher  *Fetcher
	s3       *S3Source
	maxBytes int64
	logger   *errors.Logger
	observe  FetchObserver
}

// NewLoader creates a loader. Remote sources that are disabled in cfg are
// rejected when used.
func NewLoader(ctx context.Context, cfg config.SourcesConfig, maxBytes int64, logger *errors.Logger) (*Loader, error) {
	l := &Loader{maxBytes: maxBytes, logger: logger}
	if cfg.HTTP.Enabled {
		httpCfg := cfg.HTTP
		if httpCfg.MaxBytes <= 0 {
			httpCfg.MaxBytes = maxBytes
		}
		l.fetcher = NewFetcher(httpCfg, logger)
	}
	if cfg.S3.Enabled {
		src, err := NewS3Source(ctx, cfg.S3, maxBytes)
		if err != nil {
			return nil, err
		}
		l.s3 = src
	}
	return l, nil
}

// WithS3 replaces the S3 source.
func (l *Loader) WithS3(src *S3Source) *Loader {
	l.s3 = src
	return l
}

// WithObserver sets the fetch observer.
func (l *Loader) WithObserver(observe FetchObserver) *Loader {
	l.observe = observe
	return l
}

// Read returns the raw bytes of a source and a display name for it.
func (l *Loader) Read(ctx context.Context, source string) (name string, data []byte, err error) {
	kind := sourceKind(source)
	switch kind {
	case SourceHTTP:
		if l.fetcher == nil {
			return "", nil, disabledSource(source, "http")
		}
		data, err = l.fetcher.Fetch(ctx, source)
		name = urlName(source)
	case SourceS3:
		if l.s3 == nil {
			return "", nil, disabledSource(source, "s3")
		}
		data, err = l.s3.Get(ctx, source)
		name = path.Base(source)
	default:
		data, err = readLocal(source, l.maxBytes)
		name = filepath.Base(source)
	}

	if kind != SourceLocal && l.observe != nil {
		l.observe(ctx, kind, err)
	}
	if err != nil {
		return "", nil, err
	}
	return name, data, nil
}

// Text reads a source and extracts its text.
func (l *Loader) Text(ctx context.Context, source string) (string, error) {
	name, data, err := l.Read(ctx, source)
	if err != nil {
		return "", err
	}
	return extractSource(source, name, data)
}

// Documents reads every source into an analyzer document. Local directories
// expand to the supported files they contain. Failures are recorded on the
// document instead of stopping the batch.
func (l *Loader) Documents(ctx context.Context, sources []string) []analyzer.Document {
	var docs []analyzer.Document
	for _, source := range l.expand(sources) {
		if ctx.Err() != nil {
			break
		}
		name, data, err := l.Read(ctx, source)
		if err != nil {
			docs = append(docs, analyzer.Document{Name: displayName(source), Err: err})
			continue
		}
		text, err := extractSource(source, name, data)
		docs = append(docs, analyzer.Document{Name: name, Text: text, Err: err})
		if l.logger != nil {
			l.logger.Debug("Document loaded", "source", source, "bytes", len(data), "error", err)
		}
	}
	return docs
}

func (l *Loader) expand(sources []string) []string {
	out := make([]string, 0, len(sources))
	for _, source := range sources {
		if sourceKind(source) != SourceLocal {
			out = append(out, source)
			continue
		}
		info, err := os.Stat(source)
		if err != nil || !info.IsDir() {
			out = append(out, source)
			continue
		}
		entries, err := os.ReadDir(source)
		if err != nil {
			out = append(out, source)
			continue
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && IsSupported(e.Name()) {
				files = append(files, filepath.Join(source, e.Name()))
			}
		}
		sort.Strings(files)
		if l.logger != nil {
			l.logger.Debug("Expanded directory", "path", source, "files", len(files))
		}
		out = append(out, files...)
	}
	return out
}

// extractSource trusts local file extensions. Remote names without a known
// extension are sniffed, as URL paths and object keys rarely carry one.
func extractSource(source, name string, data []byte) (string, error) {
	if sourceKind(source) == SourceLocal || IsSupported(name) {
		return Extract(name, data)
	}
	return ExtractContent(name, data)
}

func sourceKind(source string) string {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return SourceHTTP
	case strings.HasPrefix(lower, "s3://"):
		return SourceS3
	}
	return SourceLocal
}

func displayName(source string) string {
	switch sourceKind(source) {
	case SourceHTTP:
		return urlName(source)
	case SourceS3:
		return path.Base(source)
	}
	return filepath.Base(source)
}

// urlName is the last path segment of a URL, or its host.
func urlName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if base := path.Base(u.Path); base != "/" && base != "." {
		return base
	}
	return u.Host
}

func disabledSource(source, kind string) error {
	return errors.NewValidationError(errors.ErrCodeSourceUnavailable,
		fmt.Sprintf("%s sources are disabled: %s", kind, source), nil)
}

func readLocal(filename string, maxBytes int64) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", filename), err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot read file: %s", filename), err)
	}
	if info.IsDir() {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Path is a directory, not a file: %s", filename), nil)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return nil, errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("%s exceeds the %d byte limit", filename, maxBytes), nil).
			WithContext("size", info.Size())
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", filename), err)
	}
	return data, nil
}
