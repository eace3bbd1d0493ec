package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how commands print their results.
type Format int

const (
	TEXT Format = iota
	YAML
)

func (f Format) String() string {
	switch f {
	case TEXT:
		return "text"
	case YAML:
		return "yaml"
	}
	return "unknown"
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return TEXT, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return TEXT, fmt.Errorf("unknown output format %q (want text or yaml)", s)
}

func (f *Format) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseFormat(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*f = parsed
	return nil
}

func (f Format) MarshalYAML() (any, error) {
	return f.String(), nil
}
