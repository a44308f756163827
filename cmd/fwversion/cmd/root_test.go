package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwversion/internal/firmware"
	"fwversion/internal/model"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFirmware writes a raw image with a valid record at offset 0x100.
func writeFirmware(t *testing.T, name string) string {
	t.Helper()

	record := model.VersionRecord{
		Magic:          firmware.Magic,
		Major:          3,
		Minor:          1,
		Patch:          0,
		BuildNumber:    42,
		GitCommit:      "c0ffee0123456789abcdef0123456789abcdef01",
		GitBranch:      "develop",
		BuildDate:      "2025-06-01",
		BuildTime:      "12:00:00",
		BuildTimestamp: 1748779200,
		Compiler:       "GCC 13.2.1",
		BoardName:      "nrf52840dk",
		CRC32:          0x12345678,
	}

	image := bytes.Repeat([]byte{0xFF}, 1024)
	copy(image[0x100:], firmware.Encode(record))

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, image, 0o644))
	return path
}

func TestRoot_TextOutput(t *testing.T) {
	path := writeFirmware(t, "app.bin")

	stdout, _, err := execute(t, path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Firmware Version Information")
	assert.Contains(t, stdout, "  Version:       v3.1.0+build.42.c0ffee0\n")
	assert.Contains(t, stdout, "  Board:         nrf52840dk\n")
	assert.Contains(t, stdout, "  Dirty:         No\n")
}

func TestRoot_JSONOutput(t *testing.T) {
	path := writeFirmware(t, "app.bin")

	stdout, _, err := execute(t, "-j", path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	assert.Equal(t, "v3.1.0", decoded["version"])
	assert.Equal(t, "nrf52840dk", decoded["board_name"])
}

func TestRoot_YAMLOutput(t *testing.T) {
	path := writeFirmware(t, "app.bin")

	stdout, _, err := execute(t, "--format", "yaml", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "board_name: nrf52840dk")
}

func TestRoot_JSONConflictsWithFormat(t *testing.T) {
	path := writeFirmware(t, "app.bin")

	stdout, _, err := execute(t, "--json", "--format", "yaml", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicts")
	assert.Empty(t, stdout)

	// --format json is redundant but allowed
	_, _, err = execute(t, "--json", "--format", "json", path)
	assert.NoError(t, err)
}

func TestRoot_HEXRejectedBeforeOpen(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.hex")

	stdout, _, err := execute(t, missing)
	require.Error(t, err)
	assert.ErrorIs(t, err, firmware.ErrUnsupportedExtension)
	assert.NotErrorIs(t, err, firmware.ErrFileNotFound)
	assert.Equal(t, "HEX format not supported, please use .elf or .bin", err.Error())
	assert.Empty(t, stdout)

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Equal(t, "[ERROR] HEX format not supported, please use .elf or .bin\n", buf.String())
}

func TestRoot_UnsupportedExtension(t *testing.T) {
	_, _, err := execute(t, "firmware.img")
	require.Error(t, err)
	assert.ErrorIs(t, err, firmware.ErrUnsupportedExtension)
	assert.Equal(t, "unsupported file format: .img", err.Error())

	_, _, err = execute(t, "firmware")
	require.Error(t, err)
	assert.Equal(t, "unsupported file format: (no extension), please use .elf or .bin", err.Error())
}

func TestRoot_FileNotFound(t *testing.T) {
	stdout, _, err := execute(t, filepath.Join(t.TempDir(), "missing.bin"))
	require.Error(t, err)
	assert.ErrorIs(t, err, firmware.ErrFileNotFound)
	assert.Empty(t, stdout)
}

func TestRoot_NoMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.bin")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0xFF}, 512), 0o644))

	stdout, _, err := execute(t, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, firmware.ErrMagicNotFound)
	assert.Empty(t, stdout)
}

func TestRoot_ArgumentCount(t *testing.T) {
	_, _, err := execute(t)
	assert.Error(t, err)

	_, _, err = execute(t, "a.bin", "b.bin")
	assert.Error(t, err)
}

func TestRoot_LogLevelInfo(t *testing.T) {
	path := writeFirmware(t, "app.bin")

	stdout, stderr, err := execute(t, "--log-level", "info", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "found version info")
	assert.NotContains(t, stdout, "found version info")
}

func TestRoot_DefaultLogLevelQuiet(t *testing.T) {
	path := writeFirmware(t, "app.bin")

	_, stderr, err := execute(t, path)
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRoot_ExportReport(t *testing.T) {
	path := writeFirmware(t, "app.bin")
	dir := t.TempDir()

	t.Run("format from extension", func(t *testing.T) {
		out := filepath.Join(dir, "report.html")
		stdout, _, err := execute(t, "-o", out, path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Firmware Version Information")
		assert.FileExists(t, out)
	})

	t.Run("explicit export format", func(t *testing.T) {
		out := filepath.Join(dir, "report")
		_, _, err := execute(t, "-o", out, "--export-format", "excel", path)
		require.NoError(t, err)
		assert.FileExists(t, out+".xlsx")
	})

	t.Run("unknown extension", func(t *testing.T) {
		stdout, _, err := execute(t, "-o", filepath.Join(dir, "report.pdf"), path)
		require.Error(t, err)
		assert.Empty(t, stdout)
	})

	t.Run("export format without output", func(t *testing.T) {
		_, _, err := execute(t, "--export-format", "html", path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output")
	})
}

func TestRoot_ConfigFile(t *testing.T) {
	path := writeFirmware(t, "app.bin")

	t.Run("year window excludes the build", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("extraction:\n  min_year: 2030\n  max_year: 2040\n"), 0o644))

		_, _, err := execute(t, "-c", cfgPath, path)
		require.Error(t, err)
		assert.ErrorIs(t, err, firmware.ErrNoValidCandidate)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, _, err := execute(t, "-c", filepath.Join(t.TempDir(), "nope.yaml"), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config file not found")
	})
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fwversion "+Version)
	assert.Contains(t, stdout, "Go Version:")
}

func TestValidateCmd(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: info\n"), 0o644))

		stdout, _, err := execute(t, "validate", "-c", cfgPath)
		require.NoError(t, err)
		assert.Contains(t, stdout, "config file is valid")
	})

	t.Run("invalid config", func(t *testing.T) {
		cfgPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: verbose\n"), 0o644))

		_, _, err := execute(t, "validate", "-c", cfgPath)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})

	t.Run("no config", func(t *testing.T) {
		_, _, err := execute(t, "validate")
		assert.Error(t, err)
	})
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "boom\n")
}
