// Package i18n maps message keys to user-facing strings. Catalogs are
// embedded YAML files, one per locale, with flat key/value messages.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale; every key must exist here.
const BaseLocale = "en"

//go:embed locales/*.yaml
var embeddedFS embed.FS

// Translator resolves message keys for one negotiated locale, falling back
// to the base locale and finally to the key itself. Lookup never errors:
// a missing translation must not take the map down.
type Translator struct {
	locale   string
	messages map[string]string
	base     map[string]string
}

// Bundle holds all loaded locale catalogs.
type Bundle struct {
	locales map[string]map[string]string
	tags    []language.Tag
	names   []string
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locale catalogs from fsys, expecting locales/<tag>.yaml.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}

	b := &Bundle{locales: map[string]map[string]string{}}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: bad locale name: %w", path, err)
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		msgs := map[string]string{}
		if err := yaml.Unmarshal(data, &msgs); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		b.locales[name] = msgs
		b.tags = append(b.tags, tag)
		b.names = append(b.names, name)
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	return b, nil
}

// Translator negotiates the closest available locale for the requested one.
func (b *Bundle) Translator(locale string) *Translator {
	matcher := language.NewMatcher(b.tags)
	desired, err := language.Parse(locale)
	if err != nil {
		desired = language.Make(BaseLocale)
	}
	_, idx, _ := matcher.Match(desired)
	name := b.names[idx]
	return &Translator{
		locale:   name,
		messages: b.locales[name],
		base:     b.locales[BaseLocale],
	}
}

// Locale returns the negotiated locale name.
func (t *Translator) Locale() string { return t.locale }

// Lookup returns the message for key, falling back to the base locale and
// then to the key itself.
func (t *Translator) Lookup(key string) string {
	if msg, ok := t.messages[key]; ok && msg != "" {
		return msg
	}
	if msg, ok := t.base[key]; ok && msg != "" {
		return msg
	}
	return key
}
