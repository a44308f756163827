package firmware

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/rs/zerolog"

	"fwversion/internal/model"
)

// Location is a decoded record together with where it was found.
type Location struct {
	Record          model.VersionRecord
	Offset          int // Offset of the record in the searched buffer
	MagicMatches    int // Raw occurrences of the magic pattern
	ValidCandidates int // Candidates that decoded and passed validation
}

// Locator finds version records in raw images and ELF section payloads.
type Locator struct {
	validator *Validator
	logger    zerolog.Logger
}

// NewLocator creates a Locator. A nil validator uses the default year range.
func NewLocator(v *Validator, logger zerolog.Logger) *Locator {
	if v == nil {
		v = NewValidator(0, 0)
	}
	return &Locator{
		validator: v,
		logger:    logger.With().Str("component", "locator").Logger(),
	}
}

// FindMagic returns the offsets of every occurrence of the magic pattern,
// including overlapping ones, in ascending order.
func FindMagic(data []byte) []int {
	var offsets []int
	for pos := 0; pos < len(data); {
		idx := bytes.Index(data[pos:], magicBytes)
		if idx < 0 {
			break
		}
		offsets = append(offsets, pos+idx)
		pos += idx + 1
	}
	return offsets
}

// ScanRaw searches an unstructured image for the record. Every magic match
// is decoded and validated; the first plausible one wins.
func (l *Locator) ScanRaw(data []byte) (*Location, error) {
	matches := FindMagic(data)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w (magic: 0x%08X)", ErrMagicNotFound, Magic)
	}
	l.logger.Debug().Int("matches", len(matches)).Msg("magic pattern matches")

	var (
		found *Location
		valid int
	)
	for _, offset := range matches {
		record, err := Decode(data, offset)
		if err != nil {
			l.logger.Debug().Err(err).Int("offset", offset).Msg("candidate rejected")
			continue
		}
		if err := l.validator.Check(record); err != nil {
			l.logger.Debug().Err(err).Int("offset", offset).Msg("candidate rejected")
			continue
		}
		valid++
		if found == nil {
			found = &Location{Record: record, Offset: offset}
		}
	}

	if found == nil {
		return nil, &NoValidCandidateError{Matches: len(matches)}
	}

	found.MagicMatches = len(matches)
	found.ValidCandidates = valid
	if valid > 1 {
		l.logger.Warn().Int("valid_candidates", valid).Msg("found multiple valid version info locations, using first one")
	}
	l.logger.Info().Str("offset", fmt.Sprintf("0x%08X", found.Offset)).Msg("found version info")
	return found, nil
}

// FromSection decodes the record at the start of a section payload. The
// magic must match exactly; no search and no plausibility check is done.
func (l *Locator) FromSection(data []byte) (*Location, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("%w: section holds %d bytes", ErrTruncatedRecord, len(data))
	}
	if got := binary.LittleEndian.Uint32(data); got != Magic {
		return nil, &MagicMismatchError{Got: got, Want: Magic}
	}

	record, err := Decode(data, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to parse version info: %w", err)
	}
	return &Location{
		Record:          record,
		Offset:          0,
		MagicMatches:    1,
		ValidCandidates: 1,
	}, nil
}
