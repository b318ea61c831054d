package dictionary

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// NewYAMLSource decodes a YAML mapping of keys to entries:
//
//	好: {consonant: h, vowel: ao, tone: "3"}
//
// Keys are served in document order. Unlike JSONSource the whole document is
// decoded up front.
func NewYAMLSource(r io.Reader) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("decode dictionary: %w", err)
	}
	src := &sliceSource{
		keys:   make([]string, 0, len(doc)),
		fields: make([]Fields, 0, len(doc)),
	}
	for _, item := range doc {
		key := fmt.Sprint(item.Key)
		fields, err := yamlFields(item.Value)
		if err != nil {
			return nil, fmt.Errorf("decode dictionary entry %q: %w", key, err)
		}
		src.keys = append(src.keys, key)
		src.fields = append(src.fields, fields)
	}
	return src, nil
}

func yamlFields(v any) (Fields, error) {
	raw := map[string]any{}
	switch m := v.(type) {
	case yaml.MapSlice:
		for _, item := range m {
			raw[fmt.Sprint(item.Key)] = item.Value
		}
	case map[string]any:
		raw = m
	case map[any]any:
		for k, val := range m {
			raw[fmt.Sprint(k)] = val
		}
	case nil:
	default:
		return nil, fmt.Errorf("entry must be a mapping, got %T", v)
	}
	return toFields(raw)
}
