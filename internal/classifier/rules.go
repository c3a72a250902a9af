package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Departments Rules `yaml:"departments"`
}

// LoadRules reads an ordered rule list from a YAML file of the form
//
//	departments:
//	  - department: IT
//	    keywords: [laptop, vpn]
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classifier rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes YAML rules and validates department names.
func ParseRules(data []byte) (Rules, error) {
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse classifier rules: %w", err)
	}
	if len(file.Departments) == 0 {
		return nil, fmt.Errorf("classifier rules: no departments defined")
	}
	for _, rule := range file.Departments {
		if !rule.Department.Valid() {
			return nil, fmt.Errorf("classifier rules: unknown department %q", rule.Department)
		}
	}
	return file.Departments, nil
}
