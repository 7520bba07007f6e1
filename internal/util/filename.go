package util

import (
	"fmt"
	"regexp"
	"strings"
)

var unsafeRun = regexp.MustCompile(`[^a-zA-Z0-9_\-]+`)

// Slug turns a case title into a lower-case file name stem.
func Slug(title string) string {
	s := unsafeRun.ReplaceAllString(strings.TrimSpace(title), "-")
	s = strings.Trim(strings.ToLower(s), "-")
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "-")
	}
	return s
}

// GetFilename 为第 index 个用例（从 1 开始）生成文件名
//
// 标题无法生成有效文件名时退回 case-<index>.<ext>
func GetFilename(title string, index int, ext string) string {
	stem := Slug(title)
	if stem == "" {
		stem = fmt.Sprintf("case-%d", index)
	} else {
		stem = fmt.Sprintf("%02d-%s", index, stem)
	}
	return stem + "." + strings.TrimPrefix(ext, ".")
}
