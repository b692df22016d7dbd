package image

import (
	"regexp"
	"strings"
)

var (
	parentheticalRe = regexp.MustCompile(`\(.*?\)`)
	plusSuffixRe    = regexp.MustCompile(`\+.*$`)
	specialCharsRe  = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// BuildQuery 由關鍵字（或商品名稱）產生圖片搜尋字串。
// 清理後為空時回傳 ""，呼叫端不應發出任何網路請求。
func BuildQuery(name, keywords, styleHint string) string {
	base := keywords
	if strings.TrimSpace(base) == "" {
		base = name
	}
	base = strings.ToLower(base)

	cleaned := parentheticalRe.ReplaceAllString(base, "")
	cleaned = plusSuffixRe.ReplaceAllString(cleaned, "")
	cleaned = specialCharsRe.ReplaceAllString(cleaned, " ")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return ""
	}
	if styleHint = strings.TrimSpace(styleHint); styleHint == "" {
		return cleaned
	}
	return cleaned + " " + styleHint
}
