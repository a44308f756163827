package firmware

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fwversion/internal/model"
)

// ImageFormat is the container format of a firmware artifact.
type ImageFormat string

const (
	FormatBinary ImageFormat = "bin" // Raw memory dump
	FormatELF    ImageFormat = "elf" // ELF executable
)

// Fetcher downloads remote artifacts into memory.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Options configures an Extractor.
type Options struct {
	SectionName string // ELF section holding the record
	MaxFileSize int64  // Upper bound on artifact size in bytes, 0 for no limit
}

// Extractor turns a firmware path or URL into an ExtractionResult.
type Extractor struct {
	locator *Locator
	fetcher Fetcher
	opts    Options
	logger  zerolog.Logger
	now     func() time.Time
}

// NewExtractor creates an Extractor. fetcher may be nil, in which case
// URL sources are rejected.
func NewExtractor(locator *Locator, fetcher Fetcher, opts Options, logger zerolog.Logger) *Extractor {
	if opts.SectionName == "" {
		opts.SectionName = DefaultSectionName
	}
	return &Extractor{
		locator: locator,
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// DetectFormat picks the decoder from the file extension of source.
// For URLs the extension of the URL path is used.
func DetectFormat(source string) (ImageFormat, error) {
	var ext string
	if IsRemote(source) {
		u, err := url.Parse(source)
		if err != nil {
			return "", fmt.Errorf("invalid URL %q: %w", source, err)
		}
		ext = path.Ext(u.Path)
	} else {
		ext = filepath.Ext(source)
	}

	switch ext = strings.ToLower(ext); ext {
	case ".bin":
		return FormatBinary, nil
	case ".elf":
		return FormatELF, nil
	case ".hex":
		return "", ErrHEXNotSupported
	default:
		return "", &UnsupportedExtensionError{Ext: ext}
	}
}

// Extract loads source and decodes its version record. The extension is
// checked before the artifact is read.
func (e *Extractor) Extract(ctx context.Context, source string) (*model.ExtractionResult, error) {
	format, err := DetectFormat(source)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With().Str("source", source).Str("format", string(format)).Logger()
	logger.Debug().Msg("loading firmware")

	data, err := e.load(ctx, source)
	if err != nil {
		return nil, err
	}

	result := &model.ExtractionResult{
		Source:      source,
		SourceSize:  len(data),
		ExtractedAt: e.now(),
	}

	var loc *Location
	switch format {
	case FormatBinary:
		result.Method = model.MethodRawScan
		loc, err = e.locator.ScanRaw(data)
	case FormatELF:
		result.Method = model.MethodELFSection
		var section *Section
		section, err = ReadSection(data, e.opts.SectionName)
		if err != nil {
			return nil, err
		}
		result.SectionName = section.Name
		result.SectionAddr = section.Addr
		logger.Info().
			Str("section", section.Name).
			Str("addr", fmt.Sprintf("0x%08X", section.Addr)).
			Msg("found version info in section")
		loc, err = e.locator.FromSection(section.Data)
	}
	if err != nil {
		return nil, err
	}

	result.Record = loc.Record
	result.Offset = loc.Offset
	result.MagicMatches = loc.MagicMatches
	result.ValidCandidates = loc.ValidCandidates

	logger.Debug().
		Str("version", loc.Record.Version).
		Str("board", loc.Record.BoardName).
		Msg("version record decoded")
	return result, nil
}

// load reads the whole artifact into memory.
func (e *Extractor) load(ctx context.Context, source string) ([]byte, error) {
	if IsRemote(source) {
		if e.fetcher == nil {
			return nil, fmt.Errorf("remote firmware sources are not enabled: %s", source)
		}
		return e.fetcher.Fetch(ctx, source)
	}

	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, source)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", source, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", source)
	}
	if e.opts.MaxFileSize > 0 && info.Size() > e.opts.MaxFileSize {
		return nil, fmt.Errorf("%s is %d bytes, larger than the %d byte limit", source, info.Size(), e.opts.MaxFileSize)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return data, nil
}
