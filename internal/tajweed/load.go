package tajweed

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type rulesFile struct {
	Rules []RuleDef `yaml:"rules"`
}

// LoadTable reads a YAML rules file and compiles it into a table.
func LoadTable(filename string, timeout time.Duration) (*Table, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	t, err := ParseTable(data, timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return t, nil
}

// ParseTable compiles a table from YAML of the form:
//
//	rules:
//	  - key: ghunnah
//	    pattern: '[من]ّ'
func ParseTable(data []byte, timeout time.Duration) (*Table, error) {
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, errors.New("no rules defined")
	}
	return NewTable(rf.Rules, timeout)
}
