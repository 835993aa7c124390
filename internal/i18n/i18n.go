// Package i18n resolves UI labels from embedded YAML catalogs.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Fallback is the locale consulted when a key is missing
const Fallback = "en"

//go:embed locales/*.yaml
var catalogs embed.FS

// Translator looks up labels for one locale
type Translator struct {
	locale   string
	messages map[string]string
	fallback map[string]string
}

// Locales lists the embedded catalogs
func Locales() []string {
	files, _ := catalogs.ReadDir("locales")
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, strings.TrimSuffix(f.Name(), ".yaml"))
	}
	sort.Strings(out)
	return out
}

// New loads the catalog for locale
func New(locale string) (*Translator, error) {
	messages, err := load(locale)
	if err != nil {
		return nil, err
	}
	fallback := messages
	if locale != Fallback {
		if fallback, err = load(Fallback); err != nil {
			return nil, err
		}
	}
	return &Translator{locale: locale, messages: messages, fallback: fallback}, nil
}

// Locale returns the active locale
func (t *Translator) Locale() string {
	return t.locale
}

// T returns the label for key with {{param}} placeholders filled in.
// Missing keys fall back to English, then to the key itself.
func (t *Translator) T(key string, params map[string]string) string {
	msg, ok := t.messages[key]
	if !ok {
		if msg, ok = t.fallback[key]; !ok {
			return key
		}
	}
	if len(params) == 0 {
		return msg
	}
	pairs := make([]string, 0, 2*len(params))
	for k, v := range params {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	// One pass over msg, so substituted values are never rescanned.
	return strings.NewReplacer(pairs...).Replace(msg)
}

func load(locale string) (map[string]string, error) {
	data, err := catalogs.ReadFile(path.Join("locales", locale+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q", locale)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parse locale %s: %w", locale, err)
	}

	out := map[string]string{}
	flatten("", tree, out)
	return out, nil
}

// flatten turns nested maps into dotted keys
func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
