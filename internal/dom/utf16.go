package dom

import "unicode/utf16"

// UTF16Len returns the length of s in UTF-16 code units, the unit DOM
// offsets are expressed in.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += RuneLen(r)
	}
	return n
}

// RuneLen is the number of UTF-16 code units r occupies (1 or 2).
func RuneLen(r rune) int {
	if l := utf16.RuneLen(r); l > 0 {
		return l
	}
	return 1
}

// SliceUTF16 returns the part of s between the UTF-16 offsets from and to.
// Offsets are clamped to the string; an offset that splits a surrogate pair
// is moved past the pair.
func SliceUTF16(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to < from {
		to = from
	}
	start, end := -1, len(s)
	pos := 0
	for i, r := range s {
		if start < 0 && pos >= from {
			start = i
		}
		if pos >= to {
			end = i
			break
		}
		pos += RuneLen(r)
	}
	if start < 0 {
		return ""
	}
	return s[start:end]
}
