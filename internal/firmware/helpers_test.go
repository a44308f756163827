package firmware

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"

	"fwversion/internal/model"
)

// newTestRecord returns a record that passes every plausibility check.
func newTestRecord() model.VersionRecord {
	return model.VersionRecord{
		Magic:          Magic,
		Version:        "v1.4.12",
		Major:          1,
		Minor:          4,
		Patch:          12,
		BuildNumber:    318,
		GitCommit:      "a1b2c3d4e5f60718293a4b5c6d7e8f9012345678",
		GitBranch:      "main",
		IsDirty:        true,
		BuildDate:      "2025-03-14",
		BuildTime:      "09:26:53",
		BuildTimestamp: 1741944413,
		Compiler:       "GCC 13.2.1 20231009",
		BoardName:      "stm32f407zg",
		CRC32:          0xDEADBEEF,
	}
}

// rawImage places each chunk at the given offset in a buffer of size n
// filled with 0xFF, the erased-flash value.
func rawImage(n int, chunks map[int][]byte) []byte {
	buf := bytes.Repeat([]byte{0xFF}, n)
	for off, chunk := range chunks {
		copy(buf[off:], chunk)
	}
	return buf
}

type elfSection struct {
	name string
	addr uint32
	data []byte
}

// buildELF assembles a minimal little-endian ELF32 ARM image holding the
// given PROGBITS sections and a section name table.
func buildELF(t *testing.T, sections ...elfSection) []byte {
	t.Helper()

	const (
		ehsize    = 52
		shentsize = 40
	)

	shstrtab := []byte{0}
	nameOffsets := make([]uint32, len(sections))
	for i, s := range sections {
		nameOffsets[i] = uint32(len(shstrtab))
		shstrtab = append(append(shstrtab, s.name...), 0)
	}
	shstrtabName := uint32(len(shstrtab))
	shstrtab = append(append(shstrtab, ".shstrtab"...), 0)

	var payload bytes.Buffer
	dataOffsets := make([]uint32, len(sections))
	for i, s := range sections {
		dataOffsets[i] = uint32(ehsize + payload.Len())
		payload.Write(s.data)
	}
	shstrtabOff := uint32(ehsize + payload.Len())
	payload.Write(shstrtab)
	for payload.Len()%4 != 0 {
		payload.WriteByte(0)
	}
	shoff := uint32(ehsize + payload.Len())

	header := elf.Header32{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_ARM),
		Version:   uint32(elf.EV_CURRENT),
		Shoff:     shoff,
		Ehsize:    ehsize,
		Phentsize: 32,
		Shentsize: shentsize,
		Shnum:     uint16(len(sections) + 2),
		Shstrndx:  uint16(len(sections) + 1),
	}
	copy(header.Ident[:], elf.ELFMAG)
	header.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS32)
	header.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	header.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	headers := []elf.Section32{{}}
	for i, s := range sections {
		headers = append(headers, elf.Section32{
			Name:      nameOffsets[i],
			Type:      uint32(elf.SHT_PROGBITS),
			Flags:     uint32(elf.SHF_ALLOC),
			Addr:      s.addr,
			Off:       dataOffsets[i],
			Size:      uint32(len(s.data)),
			Addralign: 4,
		})
	}
	headers = append(headers, elf.Section32{
		Name:      shstrtabName,
		Type:      uint32(elf.SHT_STRTAB),
		Off:       shstrtabOff,
		Size:      uint32(len(shstrtab)),
		Addralign: 1,
	})

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
		t.Fatalf("failed to write ELF header: %v", err)
	}
	out.Write(payload.Bytes())
	if err := binary.Write(&out, binary.LittleEndian, headers); err != nil {
		t.Fatalf("failed to write section headers: %v", err)
	}
	return out.Bytes()
}
