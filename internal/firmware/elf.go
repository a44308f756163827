package firmware

import (
	"bytes"
	"debug/elf"
	"fmt"
)

// DefaultSectionName is the linker section holding the version record.
const DefaultSectionName = ".version"

// Section is the payload of a named ELF section.
type Section struct {
	Name string
	Addr uint64
	Data []byte
}

// ReadSection parses an in-memory ELF image and returns the named section.
func ReadSection(image []byte, name string) (*Section, error) {
	f, err := elf.NewFile(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ELF file: %w", err)
	}
	defer f.Close()

	s := f.Section(name)
	if s == nil {
		return nil, &SectionNotFoundError{Name: name}
	}
	if s.Type == elf.SHT_NOBITS {
		return nil, fmt.Errorf("%w: %s section has no file data", ErrTruncatedRecord, name)
	}

	data, err := s.Data()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s section: %w", name, err)
	}
	return &Section{Name: name, Addr: s.Addr, Data: data}, nil
}
