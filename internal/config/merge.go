package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// sectionDecoders replace one top-level section of a Config with the
// decoded overlay node. Keys without a decoder are ignored during merge.
//
//nolint:gochecknoglobals // read-only dispatch table
var sectionDecoders = map[string]func(*Config, *yaml.Node) error{
	"engine": func(c *Config, n *yaml.Node) error {
		return replaceSection(&c.Engine, n)
	},
	"batch": func(c *Config, n *yaml.Node) error {
		return replaceSection(&c.Batch, n)
	},
	"output": func(c *Config, n *yaml.Node) error {
		return replaceSection(&c.Output, n)
	},
	"logging": func(c *Config, n *yaml.Node) error {
		return replaceSection(&c.Logging, n)
	},
}

// replaceSection decodes n into a zero value of T and stores it in dst, so
// that fields the overlay omits do not inherit from the target.
func replaceSection[T any](dst *T, n *yaml.Node) error {
	var v T
	if err := n.Decode(&v); err != nil {
		return err
	}
	*dst = v
	return nil
}

// ShallowMergeYAML merges the top-level sections of the YAML file at
// overlayPath onto target. A section present in the overlay replaces the
// whole section of target; absent sections are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var sections map[string]yaml.Node
	if err = yaml.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	for key, node := range sections {
		decode, ok := sectionDecoders[key]
		if !ok {
			continue
		}
		if err = decode(target, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}
	return nil
}
