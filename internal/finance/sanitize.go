package finance

import (
	"regexp"
)

const obsceneMask = "***"

// Words masked out of transaction descriptions before they are persisted.
var obsceneWords = []string{
	"ควย", "เหี้ย", "สัส", "ห่า", "เชี่ย", "มึง", "กู", "เย็ด", "หี",
	"ไอ้สัตว์", "ไอ้สัส", "ไอ้เหี้ย", "ไอ้ควาย", "ไอ้ฟาย", "แม่มึงตาย",
	"พ่อมึงตาย", "ส้นตีน", "ตีน",
}

var obsceneRegexps = compileObsceneWords()

func compileObsceneWords() []*regexp.Regexp {
	regexps := make([]*regexp.Regexp, 0, len(obsceneWords))
	for _, word := range obsceneWords {
		regexps = append(regexps, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(word)))
	}
	return regexps
}

// SanitizeDescription replaces every occurrence of a disallowed word with a
// fixed mask, case-insensitively, leaving the surrounding text intact.
func SanitizeDescription(text string) string {
	for _, re := range obsceneRegexps {
		text = re.ReplaceAllString(text, obsceneMask)
	}
	return text
}
