package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTable reads a rule table from a YAML file.
//
// Expected format:
//
//	rules:
//	  - keyword: pothole
//	    category: Roads
//	  - keyword: fallen tree
//	    category: Obstructions
//
// Keywords are lowercased and stripped to [a-z0-9] and whitespace, the
// same normalization applied to input text before matching.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	return ParseTable(data)
}

// ParseTable parses the YAML document accepted by LoadTable.
func ParseTable(data []byte) (Table, error) {
	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}

	t := Table(doc.Rules).Normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
