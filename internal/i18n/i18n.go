package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Message catalogs — static key -> string tables per language, embedded in
// the binary. Lookup never fails: unknown keys fall back to English, then to
// the key itself.
// ---------------------------------------------------------------------------

//go:embed locales/*.yaml
var localeFS embed.FS

const fallbackLang = "en"

type Bundle struct {
	messages    map[string]map[string]string // lang -> key -> text
	defaultLang string
}

// New loads every embedded locale file. defaultLang is used when a request
// carries no usable language hint.
func New(defaultLang string) (*Bundle, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded locales: %w", err)
	}

	b := &Bundle{
		messages:    make(map[string]map[string]string, len(entries)),
		defaultLang: defaultLang,
	}

	for _, entry := range entries {
		name := entry.Name()
		lang := strings.TrimSuffix(name, ".yaml")
		if lang == name {
			continue
		}

		data, err := localeFS.ReadFile("locales/" + name)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", name, err)
		}

		catalog := make(map[string]string)
		if err := yaml.Unmarshal(data, &catalog); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", name, err)
		}

		b.messages[lang] = catalog
	}

	if _, ok := b.messages[fallbackLang]; !ok {
		return nil, fmt.Errorf("fallback locale %q missing", fallbackLang)
	}
	if _, ok := b.messages[defaultLang]; !ok {
		return nil, fmt.Errorf("default locale %q missing", defaultLang)
	}

	return b, nil
}

// T resolves key in lang, falling back to English, then to the key itself.
func (b *Bundle) T(lang, key string) string {
	if catalog, ok := b.messages[lang]; ok {
		if text, ok := catalog[key]; ok {
			return text
		}
	}
	if text, ok := b.messages[fallbackLang][key]; ok {
		return text
	}
	return key
}

// Catalog returns the full message table for a language, with English
// filling any holes. Used by the UI to load all strings in one call.
func (b *Bundle) Catalog(lang string) map[string]string {
	if _, ok := b.messages[lang]; !ok {
		lang = fallbackLang
	}

	merged := make(map[string]string, len(b.messages[fallbackLang]))
	for key, text := range b.messages[fallbackLang] {
		merged[key] = text
	}
	for key, text := range b.messages[lang] {
		merged[key] = text
	}
	return merged
}

// Supported lists available language tags, sorted.
func (b *Bundle) Supported() []string {
	langs := make([]string, 0, len(b.messages))
	for lang := range b.messages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// DefaultLanguage returns the configured default.
func (b *Bundle) DefaultLanguage() string {
	return b.defaultLang
}

// Match picks the language for a request: explicit query value first, then
// the first supported tag in the Accept-Language header, then the default.
func (b *Bundle) Match(query, acceptHeader string) string {
	if query != "" {
		if _, ok := b.messages[query]; ok {
			return query
		}
	}

	for _, part := range strings.Split(acceptHeader, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.IndexByte(tag, ';'); i >= 0 {
			tag = tag[:i]
		}
		if i := strings.IndexByte(tag, '-'); i >= 0 {
			tag = tag[:i]
		}
		if _, ok := b.messages[tag]; ok {
			return tag
		}
	}

	return b.defaultLang
}
