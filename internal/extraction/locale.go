package extraction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLocale is returned when a locale cannot drive extraction
var ErrInvalidLocale = errors.New("invalid locale")

// Category is one entry of the ordered category taxonomy. Keywords are
// substrings; a leading or trailing blank asks for a word boundary there.
type Category struct {
	Label    string   `mapstructure:"label" json:"label"`
	Keywords []string `mapstructure:"keywords" json:"keywords"`
}

// Locale holds every language and format assumption the extractors make.
// Keyword lists are matched case-insensitively.
type Locale struct {
	Name            string   `mapstructure:"name"`
	Currency        string   `mapstructure:"currency"`
	CurrencySymbols []string `mapstructure:"currency_symbols"`
	CurrencyCodes   []string `mapstructure:"currency_codes"`

	// TotalKeywords mark the context of a document total
	TotalKeywords []string `mapstructure:"total_keywords"`
	// DateKeywords are tried in order; only the first one present anchors the search
	DateKeywords []string `mapstructure:"date_keywords"`
	// LegalForms are company legal-form tokens (GmbH, AG, e.U., ...)
	LegalForms []string `mapstructure:"legal_forms"`
	// NonNamePrefixes disqualify a line as vendor name. An entry ending in
	// '*' matches any word starting with it, otherwise the whole word.
	NonNamePrefixes []string `mapstructure:"non_name_prefixes"`

	// Categories is evaluated top to bottom, first match wins
	Categories      []Category `mapstructure:"categories"`
	DefaultCategory string     `mapstructure:"default_category"`

	MinYear      int `mapstructure:"min_year"`
	MaxYearAhead int `mapstructure:"max_year_ahead"`

	ContextBefore   int `mapstructure:"context_before"`
	ContextAfter    int `mapstructure:"context_after"`
	DateWindow      int `mapstructure:"date_window"`
	MaxVendorLength int `mapstructure:"max_vendor_length"`
	HeaderLines     int `mapstructure:"header_lines"`
}

// Validate reports whether the locale is usable
func (l Locale) Validate() error {
	switch {
	case strings.TrimSpace(l.Currency) == "":
		return fmt.Errorf("%w: currency is required", ErrInvalidLocale)
	case len(l.CurrencySymbols) == 0 && len(l.CurrencyCodes) == 0:
		return fmt.Errorf("%w: at least one currency symbol or code is required", ErrInvalidLocale)
	case len(l.Categories) == 0:
		return fmt.Errorf("%w: category taxonomy is empty", ErrInvalidLocale)
	case strings.TrimSpace(l.DefaultCategory) == "":
		return fmt.Errorf("%w: default category is required", ErrInvalidLocale)
	case l.ContextBefore <= 0 || l.ContextAfter <= 0 || l.DateWindow <= 0:
		return fmt.Errorf("%w: context windows must be positive", ErrInvalidLocale)
	case l.MaxVendorLength <= 0 || l.HeaderLines <= 0:
		return fmt.Errorf("%w: vendor limits must be positive", ErrInvalidLocale)
	case l.MinYear <= 0 || l.MaxYearAhead < 0:
		return fmt.Errorf("%w: year bounds out of range", ErrInvalidLocale)
	}
	for _, marker := range append(append([]string{}, l.CurrencySymbols...), l.CurrencyCodes...) {
		if strings.TrimSpace(marker) == "" {
			return fmt.Errorf("%w: blank currency symbol or code", ErrInvalidLocale)
		}
	}
	for i, c := range l.Categories {
		if strings.TrimSpace(c.Label) == "" {
			return fmt.Errorf("%w: category %d has no label", ErrInvalidLocale, i)
		}
	}
	return nil
}

// German returns the built-in German/Austrian locale.
//
// Category order matters. Brand-specific groups come before generic ones:
// a hotel bill mentions its restaurant and a fuel station sells groceries,
// so travel and fuel are tested before meals and groceries.
func German() Locale {
	return Locale{
		Name:            "de-AT",
		Currency:        "EUR",
		CurrencySymbols: []string{"€"},
		CurrencyCodes:   []string{"EUR"},
		TotalKeywords: []string{
			"gesamtbetrag", "gesamtsumme", "rechnungsbetrag", "endbetrag",
			"zahlbetrag", "zu zahlen", "bruttobetrag", "brutto", "zwischensumme",
			"summe", "gesamt", "betrag", "total",
			"grand total", "subtotal", "amount due", "balance due",
		},
		DateKeywords: []string{
			"rechnungsdatum", "belegdatum", "ausstellungsdatum", "ausgestellt am",
			"invoice date", "issue date", "document date", "datum", "date",
		},
		LegalForms: []string{
			"gmbh", "gesmbh", "ges.m.b.h.", "mbh", "ag", "kg", "og", "ohg", "gbr",
			"ug", "e.u.", "e.v.", "e.k.", "se", "kgaa", "stiftung", "verein",
			"ltd", "ltd.", "inc", "inc.", "llc", "plc",
		},
		NonNamePrefixes: []string{
			"rechnung*", "invoice*", "beleg*", "datum", "date", "betrag", "amount",
			"summe", "gesamt*", "total", "zwischensumme", "seite", "page",
			"tel", "tel.", "telefon*", "phone", "fax", "mobil", "www*", "http*",
			"e-mail", "email", "mail", "uid*", "ust*", "mwst*", "steuer*", "st.-nr*",
			"atu*", "iban", "bic", "konto*", "blz", "kassa*", "bon*", "kunde*",
			"uhrzeit", "zeit",
		},
		Categories: []Category{
			{Label: "Reisen", Keywords: []string{
				"öbb", "westbahn", "austrian airlines", "lufthansa", "ryanair", "wizz air",
				"hotel", "booking.com", "airbnb", "flughafen", "taxi", "uber", "bahnhof",
				"fahrkarte", "ticket",
			}},
			{Label: "Kraftstoff", Keywords: []string{
				"tankstelle", "omv", "shell", "avanti", "turmöl", "diesel", "benzin",
				"super 95", "super plus", " eni ",
			}},
			{Label: "Telekommunikation", Keywords: []string{
				"a1 telekom", "magenta", "hutchison", "drei.at", "telekom", "vodafone",
				"mobilfunk", "festnetz",
			}},
			{Label: "Software & IT", Keywords: []string{
				"microsoft", "adobe", "github", "atlassian", "jetbrains", "google cloud",
				"amazon web services", "hosting", "domain", "software", "lizenz", " abo ",
			}},
			{Label: "Bewirtung", Keywords: []string{
				"restaurant", "gasthaus", "gasthof", "wirtshaus", "pizzeria", "café",
				" cafe ", "kaffeehaus", "heuriger", "bewirtung", "trinkgeld", "speisen",
			}},
			{Label: "Lebensmittel", Keywords: []string{
				"billa", "interspar", "eurospar", "hofer", "lidl", "merkur", "penny",
				"rewe", "edeka", "aldi", "supermarkt", "lebensmittel",
			}},
			{Label: "Büromaterial", Keywords: []string{
				"libro", "pagro", "staples", "büromaterial", "bürobedarf", "papier",
				"toner", "druckerpatrone",
			}},
			{Label: "Versand", Keywords: []string{
				"österreichische post", "post ag", "dhl", "dpd", "gls", "fedex",
				"paket", "porto", "versand",
			}},
			{Label: "Versicherung", Keywords: []string{
				"versicherung", "uniqa", "generali", "allianz", "wiener städtische",
				"polizze",
			}},
			{Label: "Miete & Energie", Keywords: []string{
				"miete", "wien energie", "verbund", "stromrechnung", "energie",
				"fernwärme", "heizkosten",
			}},
		},
		DefaultCategory: "Sonstiges",
		MinYear:         1990,
		MaxYearAhead:    1,
		ContextBefore:   150,
		ContextAfter:    80,
		DateWindow:      80,
		MaxVendorLength: 100,
		HeaderLines:     5,
	}
}
