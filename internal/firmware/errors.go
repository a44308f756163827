package firmware

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure kind. Typed errors below match them via errors.Is.
var (
	ErrFileNotFound         = errors.New("file not found")
	ErrUnsupportedExtension = errors.New("unsupported file format")
	ErrMagicNotFound        = errors.New("version info not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrMagicMismatch        = errors.New("magic number mismatch")
	ErrTruncatedRecord      = errors.New("truncated version record")
	ErrNoValidCandidate     = errors.New("no valid version record")
)

// ErrHEXNotSupported is returned for Intel HEX images.
var ErrHEXNotSupported error = &UnsupportedExtensionError{Ext: ".hex"}

// UnsupportedExtensionError reports an artifact whose extension has no decoder.
type UnsupportedExtensionError struct {
	Ext string // Lower-cased, with the dot; empty when the path has none
}

func (e *UnsupportedExtensionError) Error() string {
	switch e.Ext {
	case ".hex":
		return "HEX format not supported, please use .elf or .bin"
	case "":
		return "unsupported file format: (no extension), please use .elf or .bin"
	default:
		return fmt.Sprintf("unsupported file format: %s", e.Ext)
	}
}

// Is reports whether target is ErrUnsupportedExtension.
func (e *UnsupportedExtensionError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// SectionNotFoundError reports a missing ELF section.
type SectionNotFoundError struct {
	Name string
}

func (e *SectionNotFoundError) Error() string {
	return fmt.Sprintf("%s section not found in ELF file", e.Name)
}

// Is reports whether target is ErrSectionNotFound.
func (e *SectionNotFoundError) Is(target error) bool {
	return target == ErrSectionNotFound
}

// MagicMismatchError reports a section whose first word is not the record magic.
type MagicMismatchError struct {
	Got  uint32
	Want uint32
}

func (e *MagicMismatchError) Error() string {
	return fmt.Sprintf("magic number mismatch: 0x%08X != 0x%08X", e.Got, e.Want)
}

// Is reports whether target is ErrMagicMismatch.
func (e *MagicMismatchError) Is(target error) bool {
	return target == ErrMagicMismatch
}

// NoValidCandidateError reports a raw scan where the magic was found but no
// candidate decoded into a plausible record.
type NoValidCandidateError struct {
	Matches int
}

func (e *NoValidCandidateError) Error() string {
	return fmt.Sprintf("found %d magic number(s), but none contain valid version data", e.Matches)
}

// Is reports whether target is ErrNoValidCandidate.
func (e *NoValidCandidateError) Is(target error) bool {
	return target == ErrNoValidCandidate
}
