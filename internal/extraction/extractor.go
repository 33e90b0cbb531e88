package extraction

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Extractor pulls invoice fields out of recognized receipt text.
// It is immutable after construction and safe for concurrent use.
type Extractor struct {
	locale Locale
	now    func() time.Time

	commaDecimal    *regexp.Regexp
	dotDecimal      *regexp.Regexp
	currencyInteger *regexp.Regexp
	looseDecimal    *regexp.Regexp

	dayMonthYear *regexp.Regexp
	yearMonthDay *regexp.Regexp
	dateKeywords []*regexp.Regexp

	categories []categoryRule
}

// NewExtractor creates an Extractor for the given locale
func NewExtractor(loc Locale) (*Extractor, error) {
	return NewExtractorWithClock(loc, time.Now)
}

// NewExtractorWithClock creates an Extractor with a custom clock for testing.
// The clock only bounds the accepted invoice years.
func NewExtractorWithClock(loc Locale, now func() time.Time) (*Extractor, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}
	loc = lowercased(loc)

	currencyInteger, err := currencyIntegerPattern(loc)
	if err != nil {
		return nil, fmt.Errorf("compiling currency pattern: %w", err)
	}

	e := &Extractor{
		locale:          loc,
		now:             now,
		commaDecimal:    regexp.MustCompile(`(\d{1,3}(?:\.\d{3})+|\d+),(\d{2})\b`),
		dotDecimal:      regexp.MustCompile(`(\d{1,3}(?:,\d{3})+|\d+)\.(\d{2})\b`),
		currencyInteger: currencyInteger,
		looseDecimal:    regexp.MustCompile(`(\d+)[.,](\d{2})\b`),
		dayMonthYear:    regexp.MustCompile(`\b(\d{1,2})[./\-](\d{1,2})[./\-](\d{4})\b`),
		yearMonthDay:    regexp.MustCompile(`\b(\d{4})[./\-](\d{1,2})[./\-](\d{1,2})\b`),
	}

	for _, kw := range loc.DateKeywords {
		if kw == "" {
			continue
		}
		e.dateKeywords = append(e.dateKeywords, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(kw)))
	}
	e.categories = buildCategoryRules(loc.Categories)

	return e, nil
}

// Locale returns the locale the extractor was built with
func (e *Extractor) Locale() Locale {
	return e.locale
}

func currencyIntegerPattern(loc Locale) (*regexp.Regexp, error) {
	var before, after []string
	if len(loc.CurrencySymbols) > 0 {
		sym := alternation(loc.CurrencySymbols)
		before = append(before, sym)
		after = append(after, sym)
	}
	if len(loc.CurrencyCodes) > 0 {
		code := alternation(loc.CurrencyCodes)
		before = append(before, `\b`+code)
		after = append(after, code+`\b`)
	}
	return regexp.Compile(`(?i)(?:` + strings.Join(before, "|") + `)\s*(\d{1,6})\b` +
		`|\b(\d{1,6})\s*(?:` + strings.Join(after, "|") + `)`)
}

func alternation(words []string) string {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			quoted = append(quoted, regexp.QuoteMeta(w))
		}
	}
	return `(?:` + strings.Join(quoted, "|") + `)`
}

func lowercased(loc Locale) Locale {
	lower := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	loc.TotalKeywords = lower(loc.TotalKeywords)
	loc.DateKeywords = lower(loc.DateKeywords)
	loc.LegalForms = lower(loc.LegalForms)
	loc.NonNamePrefixes = lower(loc.NonNamePrefixes)

	// category keywords keep their blanks, which mark word boundaries
	keywords := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.ToLower(s))
			}
		}
		return out
	}
	categories := make([]Category, len(loc.Categories))
	for i, c := range loc.Categories {
		categories[i] = Category{Label: c.Label, Keywords: keywords(c.Keywords)}
	}
	loc.Categories = categories
	return loc
}
