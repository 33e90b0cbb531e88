package extraction

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(1_000_000)

// Candidate is a provisional amount found in the text
type Candidate struct {
	Value    decimal.Decimal `json:"value"`
	Span     string          `json:"span"`
	Position int             `json:"position"`
	Score    float64         `json:"score"`
	Family   string          `json:"family"`
}

const (
	familyCommaDecimal    = "comma-decimal"
	familyDotDecimal      = "dot-decimal"
	familyCurrencyInteger = "currency-integer"
)

// ExtractAmount returns the most plausible document total, if any.
// The result is always strictly between 0 and 1,000,000.
func (e *Extractor) ExtractAmount(text string) (decimal.Decimal, bool) {
	if candidates := e.AmountCandidates(text); len(candidates) > 0 {
		return candidates[0].Value, true
	}
	return e.looseAmount(text)
}

// AmountCandidates returns every valid amount candidate, scored and ranked
// best first. Only the highest-priority pattern family that yields valid
// candidates contributes.
func (e *Extractor) AmountCandidates(text string) []Candidate {
	var candidates []Candidate
	for _, family := range []string{familyCommaDecimal, familyDotDecimal, familyCurrencyInteger} {
		candidates = e.collect(text, family)
		if len(candidates) > 0 {
			break
		}
	}

	for i := range candidates {
		c := &candidates[i]
		before, after := window(text, c.Position, c.Position+len(c.Span), e.locale.ContextBefore, e.locale.ContextAfter)
		c.Score = Score(&e.locale, *c, ScoreContext{
			Before:     before,
			After:      after,
			Position:   c.Position,
			TextLength: len(text),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Value.Equal(b.Value) {
			return a.Value.GreaterThan(b.Value)
		}
		return a.Position < b.Position
	})
	return candidates
}

func (e *Extractor) collect(text, family string) []Candidate {
	var (
		re        *regexp.Regexp
		toDecimal func(m []string) string
	)
	switch family {
	case familyCommaDecimal:
		re = e.commaDecimal
		toDecimal = func(m []string) string {
			return strings.ReplaceAll(m[1], ".", "") + "." + m[2]
		}
	case familyDotDecimal:
		re = e.dotDecimal
		toDecimal = func(m []string) string {
			return strings.ReplaceAll(m[1], ",", "") + "." + m[2]
		}
	case familyCurrencyInteger:
		re = e.currencyInteger
		toDecimal = func(m []string) string {
			return m[1] + m[2]
		}
	}

	var out []Candidate
	for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
		m := submatches(text, idx)
		start, end := idx[0], idx[1]
		if family == familyCurrencyInteger {
			// the span is the number alone, without the currency marker
			if idx[2] >= 0 {
				start, end = idx[2], idx[3]
			} else {
				start, end = idx[4], idx[5]
			}
		}
		if !isolated(text, start, end) {
			continue
		}
		value, ok := validAmount(toDecimal(m))
		if !ok {
			continue
		}
		out = append(out, Candidate{
			Value:    value,
			Span:     text[start:end],
			Position: start,
			Family:   family,
		})
	}
	return out
}

// looseAmount accepts the first valid digits-separator-two-digits group
// anywhere in the text, unscored. Unlike the pattern families it ignores
// the isolation guard, so it still finds a total glued to a percent sign
// or another number.
func (e *Extractor) looseAmount(text string) (decimal.Decimal, bool) {
	for _, m := range e.looseDecimal.FindAllStringSubmatch(text, -1) {
		if value, ok := validAmount(m[1] + "." + m[2]); ok {
			return value, true
		}
	}
	return decimal.Decimal{}, false
}

func submatches(text string, idx []int) []string {
	m := make([]string, len(idx)/2)
	for i := range m {
		if idx[2*i] >= 0 {
			m[i] = text[idx[2*i]:idx[2*i+1]]
		}
	}
	return m
}

func validAmount(s string) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if !value.IsPositive() || !value.LessThan(maxAmount) {
		return decimal.Decimal{}, false
	}
	return value, true
}

// isolated rejects matches that are a fragment of a longer number, a dotted
// date or a percentage
func isolated(text string, start, end int) bool {
	if start > 0 {
		prev := text[start-1]
		if isDigit(prev) {
			return false
		}
		if (prev == '.' || prev == ',') && start > 1 && isDigit(text[start-2]) {
			return false
		}
	}
	if end < len(text) {
		next := text[end]
		if isDigit(next) {
			return false
		}
		if (next == '.' || next == ',') && end+1 < len(text) && isDigit(text[end+1]) {
			return false
		}
		if strings.HasPrefix(strings.TrimLeft(text[end:], " "), "%") {
			return false
		}
	}
	return true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
