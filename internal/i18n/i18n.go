// Package i18n resolves user-facing strings through dotted keys, the
// same lookup contract the dashboard UI uses. Core logic never depends
// on the resolved text, only on underlying enum values.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
)

//go:embed locales/*.json
var localeFS embed.FS

// Bundle holds the flattened key->string tables for every locale.
type Bundle struct {
	locale   string
	fallback string
	tables   map[string]map[string]string
}

// New loads the embedded locales. Unknown default locales fall back to
// English lookups only.
func New(defaultLocale string) (*Bundle, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}
	b := &Bundle{locale: defaultLocale, fallback: "en", tables: make(map[string]map[string]string)}
	for _, e := range entries {
		name := e.Name()
		raw, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		var nested map[string]any
		if err := json.Unmarshal(raw, &nested); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", name, err)
		}
		table := make(map[string]string)
		flatten("", nested, table)
		b.tables[name[:len(name)-len(".json")]] = table
	}
	return b, nil
}

// T resolves a dotted key in the default locale, falling back to
// English, then to the key itself so a missing translation stays
// visible instead of blank.
func (b *Bundle) T(key string) string {
	if s, ok := b.tables[b.locale][key]; ok {
		return s
	}
	if s, ok := b.tables[b.fallback][key]; ok {
		return s
	}
	return key
}

// Locale reports the configured default locale.
func (b *Bundle) Locale() string {
	return b.locale
}

func flatten(prefix string, nested map[string]any, out map[string]string) {
	for k, v := range nested {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			flatten(key, val, out)
		}
	}
}
