package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// Format identifies a values document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ParseFormat normalises a format name ("yml" is accepted).
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(raw), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("values: unsupported format %q", raw)
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("values: cannot infer format of %s", path)
	}
	return ParseFormat(ext)
}

// Load reads and parses a values file, inferring the format from its
// extension.
func Load(path string) (map[string]any, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("values: read %s: %w", path, err)
	}
	raw, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("values: parse %s: %w", path, err)
	}
	return raw, nil
}

// Parse decodes a flat name/value document. Numbers keep the representation
// of their decoder; paramgen coercion narrows them per kind.
func Parse(data []byte, format Format) (map[string]any, error) {
	out := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&out); err != nil {
			return nil, fmt.Errorf("values: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("values: decode yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &out); err != nil {
			return nil, fmt.Errorf("values: decode toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("values: unsupported format %q", format)
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// Encode writes values in the requested format. YAML output follows the
// schema declaration order; JSON and TOML keys are sorted by their encoders.
// Names not declared in schema are dropped.
func Encode(schema paramgen.Schema, vals paramgen.Values, format Format) ([]byte, error) {
	ordered := make(map[string]any, len(vals))
	names := make([]string, 0, len(vals))
	for _, name := range schema.Names() {
		if value, ok := vals[name]; ok {
			ordered[name] = value
			names = append(names, name)
		}
	}

	switch format {
	case FormatJSON:
		payload, err := json.MarshalIndent(ordered, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("values: encode json: %w", err)
		}
		return append(payload, '\n'), nil
	case FormatYAML:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range names {
			var valueNode yaml.Node
			if err := valueNode.Encode(ordered[name]); err != nil {
				return nil, fmt.Errorf("values: encode yaml %s: %w", name, err)
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
				&valueNode,
			)
		}
		payload, err := yaml.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("values: encode yaml: %w", err)
		}
		return payload, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(ordered); err != nil {
			return nil, fmt.Errorf("values: encode toml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("values: unsupported format %q", format)
}
