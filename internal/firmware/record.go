// Package firmware locates and decodes the version record embedded in
// firmware images. The record layout is defined once here and shared by the
// raw-scan and ELF-section paths.
package firmware

import (
	"encoding/binary"
	"fmt"
	"strings"

	"fwversion/internal/model"
)

// Magic marks the start of a version record ("FWVE" read as a little-endian word).
const Magic uint32 = 0x46574556

// RecordSize is the packed size of the on-flash record, up to and
// including the trailing crc32 word.
const RecordSize = offCRC32 + 4

// Field offsets and widths of the packed little-endian layout.
const (
	offMagic          = 0
	offMajor          = 4
	offMinor          = 5
	offPatch          = 6
	offBuildNumber    = 8
	offGitCommit      = 12
	offGitBranch      = 53
	offIsDirty        = 85
	offReserved       = 86
	offBuildDate      = 89
	offBuildTime      = 101
	offBuildTimestamp = 110
	offCompiler       = 114
	offBoardName      = 146
	offCRC32          = 178

	lenGitCommit = 41
	lenGitBranch = 32
	lenReserved  = 3
	lenBuildDate = 12
	lenBuildTime = 9
	lenCompiler  = 32
	lenBoardName = 32
)

// magicBytes is the little-endian byte pattern searched for in raw images.
var magicBytes = binary.LittleEndian.AppendUint32(nil, Magic)

// Decode reads a version record starting at offset in buf.
// It does not check the magic or the plausibility of the fields.
func Decode(buf []byte, offset int) (model.VersionRecord, error) {
	if offset < 0 || offset > len(buf) || len(buf)-offset < RecordSize {
		return model.VersionRecord{}, fmt.Errorf("%w: need %d bytes at offset 0x%08X, have %d",
			ErrTruncatedRecord, RecordSize, max(offset, 0), max(len(buf)-offset, 0))
	}
	b := buf[offset : offset+RecordSize]

	r := model.VersionRecord{
		Magic:          binary.LittleEndian.Uint32(b[offMagic:]),
		Major:          b[offMajor],
		Minor:          b[offMinor],
		Patch:          binary.LittleEndian.Uint16(b[offPatch:]),
		BuildNumber:    binary.LittleEndian.Uint32(b[offBuildNumber:]),
		GitCommit:      cString(b[offGitCommit : offGitCommit+lenGitCommit]),
		GitBranch:      cString(b[offGitBranch : offGitBranch+lenGitBranch]),
		IsDirty:        b[offIsDirty] != 0,
		BuildDate:      cString(b[offBuildDate : offBuildDate+lenBuildDate]),
		BuildTime:      cString(b[offBuildTime : offBuildTime+lenBuildTime]),
		BuildTimestamp: binary.LittleEndian.Uint32(b[offBuildTimestamp:]),
		Compiler:       cString(b[offCompiler : offCompiler+lenCompiler]),
		BoardName:      cString(b[offBoardName : offBoardName+lenBoardName]),
		CRC32:          binary.LittleEndian.Uint32(b[offCRC32:]),
	}
	r.Version = model.FormatVersion(r.Major, r.Minor, r.Patch)
	return r, nil
}

// Encode writes r into the packed RecordSize-byte layout. String fields longer
// than their buffer are truncated so that a terminating NUL always fits.
func Encode(r model.VersionRecord) []byte {
	b := make([]byte, RecordSize)

	binary.LittleEndian.PutUint32(b[offMagic:], r.Magic)
	b[offMajor] = r.Major
	b[offMinor] = r.Minor
	binary.LittleEndian.PutUint16(b[offPatch:], r.Patch)
	binary.LittleEndian.PutUint32(b[offBuildNumber:], r.BuildNumber)
	putCString(b[offGitCommit:offGitCommit+lenGitCommit], r.GitCommit)
	putCString(b[offGitBranch:offGitBranch+lenGitBranch], r.GitBranch)
	if r.IsDirty {
		b[offIsDirty] = 1
	}
	putCString(b[offBuildDate:offBuildDate+lenBuildDate], r.BuildDate)
	putCString(b[offBuildTime:offBuildTime+lenBuildTime], r.BuildTime)
	binary.LittleEndian.PutUint32(b[offBuildTimestamp:], r.BuildTimestamp)
	putCString(b[offCompiler:offCompiler+lenCompiler], r.Compiler)
	putCString(b[offBoardName:offBoardName+lenBoardName], r.BoardName)
	binary.LittleEndian.PutUint32(b[offCRC32:], r.CRC32)

	return b
}

// cString decodes a NUL-terminated ASCII field. Bytes outside the ASCII
// range are dropped.
func cString(field []byte) string {
	var sb strings.Builder
	for _, c := range field {
		if c == 0 {
			break
		}
		if c < 0x80 {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

func putCString(field []byte, s string) {
	n := copy(field[:len(field)-1], s)
	clear(field[n:])
}
