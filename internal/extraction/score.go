package extraction

import (
	"math"
	"strings"
)

const (
	totalKeywordBonus   = 50.0
	adjacentSymbolBonus = 25.0
	currencyCodeBonus   = 15.0
	maxPositionBonus    = 15.0
	belowOnePenalty     = 20.0
	belowFivePenalty    = 10.0
	maxMagnitudeBonus   = 8.0
	magnitudeCap        = 800.0
)

// ScoreContext is the text surrounding an amount candidate
type ScoreContext struct {
	Before     string // up to Locale.ContextBefore characters preceding the match
	After      string // up to Locale.ContextAfter characters following the match
	Position   int    // byte offset of the match
	TextLength int    // byte length of the whole text
}

// Score rates how likely a candidate is the document total. It looks only
// at its arguments.
func Score(loc *Locale, c Candidate, ctx ScoreContext) float64 {
	surrounding := strings.ToLower(ctx.Before + c.Span + ctx.After)
	var score float64

	for _, kw := range loc.TotalKeywords {
		if kw != "" && strings.Contains(surrounding, strings.ToLower(kw)) {
			score += totalKeywordBonus
			break
		}
	}

	if symbolAdjacent(loc.CurrencySymbols, ctx) {
		score += adjacentSymbolBonus
	}

	for _, code := range loc.CurrencyCodes {
		if containsWord(surrounding, strings.ToLower(code)) {
			score += currencyCodeBonus
			break
		}
	}

	if ctx.TextLength > 0 {
		score += maxPositionBonus * float64(ctx.Position) / float64(ctx.TextLength)
	}

	value := c.Value.InexactFloat64()
	switch {
	case value < 1:
		score -= belowOnePenalty
	case value < 5:
		score -= belowFivePenalty
	}
	score += maxMagnitudeBonus * math.Min(value, magnitudeCap) / magnitudeCap

	return score
}

// symbolAdjacent reports a currency symbol directly before or after the
// match, allowing blanks but not line breaks in between
func symbolAdjacent(symbols []string, ctx ScoreContext) bool {
	before := strings.TrimRight(ctx.Before, " \t\u00a0")
	after := strings.TrimLeft(ctx.After, " \t\u00a0")
	for _, sym := range symbols {
		if sym == "" {
			continue
		}
		if strings.HasSuffix(before, sym) || strings.HasPrefix(after, sym) {
			return true
		}
	}
	return false
}
