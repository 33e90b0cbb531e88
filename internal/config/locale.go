package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/zombor/beleg/internal/extraction"
)

// EnvPrefix is the environment prefix for locale overrides, e.g.
// BELEG_LOCALE_CURRENCY or BELEG_LOCALE_DEFAULT_CATEGORY
const EnvPrefix = "BELEG_LOCALE"

// LoadLocale loads the extraction locale.
//
// The built-in German locale provides the defaults. A YAML, JSON or TOML file
// at path overrides any key, and environment variables override scalar keys.
// An empty path skips the file.
func LoadLocale(path string) (extraction.Locale, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, extraction.German())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return extraction.Locale{}, fmt.Errorf("reading locale file: %w", err)
		}
	}

	var loc extraction.Locale
	if err := v.Unmarshal(&loc); err != nil {
		return extraction.Locale{}, fmt.Errorf("decoding locale: %w", err)
	}

	if err := loc.Validate(); err != nil {
		return extraction.Locale{}, fmt.Errorf("invalid locale configuration: %w", err)
	}

	return loc, nil
}

// setDefaults registers every locale field so that environment overrides
// and partial files resolve against the built-in values
func setDefaults(v *viper.Viper, loc extraction.Locale) {
	v.SetDefault("name", loc.Name)
	v.SetDefault("currency", loc.Currency)
	v.SetDefault("currency_symbols", loc.CurrencySymbols)
	v.SetDefault("currency_codes", loc.CurrencyCodes)

	v.SetDefault("total_keywords", loc.TotalKeywords)
	v.SetDefault("date_keywords", loc.DateKeywords)
	v.SetDefault("legal_forms", loc.LegalForms)
	v.SetDefault("non_name_prefixes", loc.NonNamePrefixes)

	categories := make([]map[string]any, 0, len(loc.Categories))
	for _, c := range loc.Categories {
		categories = append(categories, map[string]any{
			"label":    c.Label,
			"keywords": c.Keywords,
		})
	}
	v.SetDefault("categories", categories)
	v.SetDefault("default_category", loc.DefaultCategory)

	v.SetDefault("min_year", loc.MinYear)
	v.SetDefault("max_year_ahead", loc.MaxYearAhead)

	v.SetDefault("context_before", loc.ContextBefore)
	v.SetDefault("context_after", loc.ContextAfter)
	v.SetDefault("date_window", loc.DateWindow)
	v.SetDefault("max_vendor_length", loc.MaxVendorLength)
	v.SetDefault("header_lines", loc.HeaderLines)
}
