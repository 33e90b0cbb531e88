package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// splitLines returns the trimmed, non-empty lines of text for any line-ending style
func splitLines(text string) []string {
	parts := strings.Split(lineBreaks.Replace(text), "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// window returns up to before characters preceding text[start:end] and up
// to after characters following it. Counts are in runes.
func window(text string, start, end, before, after int) (string, string) {
	b := start
	for i := 0; i < before && b > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:b])
		b -= size
	}
	a := end
	for i := 0; i < after && a < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[a:])
		a += size
	}
	return text[b:start], text[end:a]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// containsWord reports whether word occurs in s without being glued to
// surrounding letters or digits. Both arguments must already be lowercase.
func containsWord(s, word string) bool {
	return containsBounded(s, word, true, true)
}

// containsKeyword matches a category keyword as a substring. A leading or
// trailing blank in the keyword requires a word boundary on that side, so
// " abo " matches "Abo " and "abo" at the end of a line but not "Labor".
func containsKeyword(s, kw string) bool {
	core := strings.TrimSpace(kw)
	return containsBounded(s, core, strings.HasPrefix(kw, " "), strings.HasSuffix(kw, " "))
}

func containsBounded(s, word string, left, right bool) bool {
	if word == "" {
		return false
	}
	for offset := 0; offset < len(s); {
		i := strings.Index(s[offset:], word)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(word)
		prev, _ := utf8.DecodeLastRuneInString(s[:start])
		next, _ := utf8.DecodeRuneInString(s[end:])
		leftOK := !left || start == 0 || !isWordRune(prev) || !isWordRune(firstRune(word))
		rightOK := !right || end == len(s) || !isWordRune(next) || !isWordRune(lastRune(word))
		if leftOK && rightOK {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		offset = start + size
	}
	return false
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

// hasWordPrefix matches lowercase line against prefix entries. An entry
// ending in '*' is a stem; any other entry must be followed by a non-letter.
func hasWordPrefix(line string, prefixes []string) bool {
	for _, p := range prefixes {
		p = strings.ToLower(p)
		stem := strings.HasSuffix(p, "*")
		p = strings.TrimSuffix(p, "*")
		if p == "" || !strings.HasPrefix(line, p) {
			continue
		}
		if stem {
			return true
		}
		rest := line[len(p):]
		if rest == "" || !unicode.IsLetter(firstRune(rest)) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n runes
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n]))
}
