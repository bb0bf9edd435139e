package domain

import "unicode/utf8"

// DefaultContentLimit is the admission-policy content limit in bytes.
const DefaultContentLimit = 10000

// Admit applies the content admission policy: content at or under the
// limit passes through unchanged, oversized content is cut down to at
// most limit bytes, backing off so the cut never splits a UTF-8 rune.
// The second return is false when the content was truncated. A
// non-positive limit disables the policy.
func Admit(content string, limit int) (string, bool) {
	if limit <= 0 || len(content) <= limit {
		return content, true
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut], false
}
