package schema

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML contract and overlays it on the built-in events
// definition for the file's dialect (or fallback when the file names none).
// Lists in the file replace the defaults rather than extending them.
func LoadFile(path string, fallback Dialect) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema contract %s: %w", path, err)
	}
	return Parse(data, fallback)
}

// Parse is LoadFile for an in-memory document.
//
// Defaults tied to the built-in events table do not survive an overlay that
// changes what they describe: a new temporal_format without temporal_sample
// drops the sample, and new columns lacking the category column without
// categories of their own drop the category mapping.
func Parse(data []byte, fallback Dialect) (*Contract, error) {
	var head struct {
		Dialect        Dialect    `yaml:"dialect"`
		Categories     []Category `yaml:"categories"`
		TemporalFormat string     `yaml:"temporal_format"`
		TemporalSample string     `yaml:"temporal_sample"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("failed to parse schema contract: %w", err)
	}

	dialect := fallback
	if head.Dialect != "" {
		dialect = head.Dialect
	}

	def := DefaultDefinition(dialect)
	defaultFormat := def.TemporalFormat
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse schema contract: %w", err)
	}

	if head.TemporalFormat != "" && head.TemporalFormat != defaultFormat && head.TemporalSample == "" {
		def.TemporalSample = ""
	}
	if head.Categories == nil && !hasColumn(def.Columns, def.CategoryColumn) {
		def.Categories = nil
	}

	return New(def)
}

func hasColumn(cols []Column, name string) bool {
	for _, col := range cols {
		if strings.EqualFold(col.Name, name) {
			return true
		}
	}
	return false
}
