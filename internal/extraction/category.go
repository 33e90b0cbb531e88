package extraction

import "strings"

// categoryRule pairs a label with the predicate that selects it
type categoryRule struct {
	label string
	match func(vendor, text string) bool
}

func buildCategoryRules(categories []Category) []categoryRule {
	rules := make([]categoryRule, 0, len(categories))
	for _, c := range categories {
		keywords := c.Keywords
		rules = append(rules, categoryRule{
			label: c.Label,
			match: func(vendor, text string) bool {
				for _, kw := range keywords {
					if containsKeyword(vendor, kw) || containsKeyword(text, kw) {
						return true
					}
				}
				return false
			},
		})
	}
	return rules
}

// SuggestCategory returns the label of the first taxonomy entry with a
// keyword in the vendor name or the text, or the default category.
func (e *Extractor) SuggestCategory(vendorName, text string) string {
	vendor := strings.ToLower(vendorName)
	body := strings.ToLower(text)
	for _, rule := range e.categories {
		if rule.match(vendor, body) {
			return rule.label
		}
	}
	return e.locale.DefaultCategory
}
