package extraction

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	numericLine   = regexp.MustCompile(`^[\d\s.,:;/\\\-+()#*]+$`)
	leadingAmount = regexp.MustCompile(`^[^\p{L}\d]*\d+(?:[.,]\d{3})*[.,]\d{2}\b`)
)

const minVendorLineLength = 3

// ExtractVendorName returns the most plausible merchant name, if any.
//
// The first line carrying a company legal form wins. Without one, the
// longest of the first few surviving header lines is used.
func (e *Extractor) ExtractVendorName(text string) (string, bool) {
	var candidates []string
	for _, line := range splitLines(text) {
		if utf8.RuneCountInString(line) < minVendorLineLength || e.notAName(line) {
			continue
		}
		candidates = append(candidates, line)
	}

	for _, line := range candidates {
		if e.hasLegalForm(line) {
			return truncate(line, e.locale.MaxVendorLength), true
		}
	}

	header := candidates[:min(len(candidates), e.locale.HeaderLines)]
	best := ""
	for _, line := range header {
		if utf8.RuneCountInString(line) > utf8.RuneCountInString(best) {
			best = line
		}
	}
	if best == "" {
		return "", false
	}
	return truncate(best, e.locale.MaxVendorLength), true
}

func (e *Extractor) notAName(line string) bool {
	lower := strings.ToLower(line)
	switch {
	case numericLine.MatchString(line):
		return true
	case dominatedBySymbols(line):
		return true
	case leadingAmount.MatchString(line):
		return true
	case strings.Contains(lower, "@"), strings.Contains(lower, "www."), strings.Contains(lower, "://"):
		return true
	}
	return hasWordPrefix(lower, e.locale.NonNamePrefixes)
}

// hasLegalForm looks for a legal-form token that follows a word. Two-letter
// forms (AG, KG, OG) must be upper case, which keeps weight units and floor
// numbers ("0,500 kg", "2. OG") out.
func (e *Extractor) hasLegalForm(line string) bool {
	tokens := strings.Fields(line)
	for i := 1; i < len(tokens); i++ {
		if !strings.ContainsFunc(tokens[i-1], unicode.IsLetter) {
			continue
		}
		token := strings.Trim(tokens[i], legalFormPunct)
		for _, form := range e.locale.LegalForms {
			if !strings.EqualFold(token, strings.Trim(form, legalFormPunct)) {
				continue
			}
			if utf8.RuneCountInString(token) <= 2 && token != strings.ToUpper(token) {
				continue
			}
			return true
		}
	}
	return false
}

const legalFormPunct = ".,;:()"

// dominatedBySymbols reports lines with no letters or with more
// punctuation, currency and percent signs than letters
func dominatedBySymbols(line string) bool {
	var letters, symbols int
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbols++
		}
	}
	return letters == 0 || symbols > letters
}
