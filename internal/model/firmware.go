// Package model provides data models for the firmware version extractor.
package model

import (
	"fmt"
	"time"
)

// ShortCommitLen is the length of the abbreviated git commit hash.
const ShortCommitLen = 7

// VersionRecord is the version metadata block embedded in a firmware image.
// Field order and JSON keys follow the on-flash layout.
type VersionRecord struct {
	Magic          uint32 `json:"magic" yaml:"magic"`                     // 魔法数字 0x46574556
	Version        string `json:"version" yaml:"version"`                 // v{major}.{minor}.{patch}
	Major          uint8  `json:"major" yaml:"major"`                     // 主版本号
	Minor          uint8  `json:"minor" yaml:"minor"`                     // 次版本号
	Patch          uint16 `json:"patch" yaml:"patch"`                     // 修订号
	BuildNumber    uint32 `json:"build_number" yaml:"build_number"`       // 构建编号
	GitCommit      string `json:"git_commit" yaml:"git_commit"`           // Git commit SHA-1
	GitBranch      string `json:"git_branch" yaml:"git_branch"`           // Git 分支名
	IsDirty        bool   `json:"is_dirty" yaml:"is_dirty"`               // 工作区是否有未提交修改
	BuildDate      string `json:"build_date" yaml:"build_date"`           // YYYY-MM-DD
	BuildTime      string `json:"build_time" yaml:"build_time"`           // HH:MM:SS
	BuildTimestamp uint32 `json:"build_timestamp" yaml:"build_timestamp"` // Unix 时间戳
	Compiler       string `json:"compiler" yaml:"compiler"`               // 编译器名称和版本
	BoardName      string `json:"board_name" yaml:"board_name"`           // 目标板名称
	CRC32          uint32 `json:"crc32" yaml:"crc32"`                     // 校验值（不校验）
}

// FormatVersion returns the semantic version string "v{major}.{minor}.{patch}".
func FormatVersion(major, minor uint8, patch uint16) string {
	return fmt.Sprintf("v%d.%d.%d", major, minor, patch)
}

// ShortCommit returns the first seven characters of the git commit hash.
func (r VersionRecord) ShortCommit() string {
	if len(r.GitCommit) <= ShortCommitLen {
		return r.GitCommit
	}
	return r.GitCommit[:ShortCommitLen]
}

// BuildString returns "v1.2.3+build.45.a1b2c3d", the form shown in the text report.
func (r VersionRecord) BuildString() string {
	return fmt.Sprintf("%s+build.%d.%s", r.Version, r.BuildNumber, r.ShortCommit())
}

// FullVersion returns the version string as the firmware itself prints it,
// with a "-dirty" suffix for builds from a modified working tree.
func (r VersionRecord) FullVersion() string {
	if r.IsDirty {
		return r.BuildString() + "-dirty"
	}
	return r.BuildString()
}

// BuiltAt converts the embedded unix timestamp to a UTC time.
// A zero timestamp yields the zero time.
func (r VersionRecord) BuiltAt() time.Time {
	if r.BuildTimestamp == 0 {
		return time.Time{}
	}
	return time.Unix(int64(r.BuildTimestamp), 0).UTC()
}

// ExtractionMethod identifies how a record was located.
type ExtractionMethod string

const (
	MethodRawScan    ExtractionMethod = "raw-scan"    // 扫描魔法数字
	MethodELFSection ExtractionMethod = "elf-section" // 读取 ELF section
)

// ExtractionResult wraps a decoded record with where and how it was found.
type ExtractionResult struct {
	Record VersionRecord `json:"record"`

	Source      string           `json:"source"`                 // 文件路径或 URL
	Method      ExtractionMethod `json:"method"`                 // 提取方式
	Offset      int              `json:"offset"`                 // 记录在缓冲区中的偏移
	SectionName string           `json:"section_name,omitempty"` // ELF section 名称
	SectionAddr uint64           `json:"section_addr,omitempty"` // ELF section 地址
	SourceSize  int              `json:"source_size"`            // 固件大小（bytes）

	MagicMatches    int `json:"magic_matches"`    // 魔法数字匹配次数
	ValidCandidates int `json:"valid_candidates"` // 通过校验的候选数

	ExtractedAt time.Time `json:"extracted_at"`
}
