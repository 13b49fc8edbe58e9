// Package i18n provides the message catalog used for edit-form labels.
package i18n

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Translator resolves dotted message keys against a flattened catalog.
// Lookups that miss return the caller-supplied fallback, so a sparse or
// absent catalog never fails a request.
type Translator struct {
	locale   string
	messages map[string]string
}

// New returns a translator over an already-flattened message map.
func New(locale string, messages map[string]string) *Translator {
	if messages == nil {
		messages = map[string]string{}
	}
	return &Translator{locale: locale, messages: messages}
}

// Load reads a YAML message catalog. Nested mappings flatten to dotted keys:
//
//	contenttypes:
//	  generic:
//	    group:
//	      meta: Metadata
//
// yields "contenttypes.generic.group.meta".
func Load(locale, path string) (*Translator, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message catalog: %w", err)
	}
	return Parse(locale, raw)
}

// Parse builds a translator from YAML catalog bytes.
func Parse(locale string, raw []byte) (*Translator, error) {
	var tree map[string]any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse message catalog: %w", err)
	}
	messages := map[string]string{}
	flatten("", tree, messages)
	return New(locale, messages), nil
}

// Locale returns the locale the catalog was loaded for.
func (t *Translator) Locale() string { return t.locale }

// Translate returns the message for key, or fallback when the catalog has
// no entry.
func (t *Translator) Translate(key, fallback string) string {
	if msg, ok := t.messages[key]; ok {
		return msg
	}
	return fallback
}

func flatten(prefix string, tree map[string]any, out map[string]string) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flatten(full, v, out)
		case string:
			out[full] = v
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
