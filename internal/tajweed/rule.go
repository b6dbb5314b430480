package tajweed

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/zeebo/blake3"
)

// DefaultMatchTimeout bounds a single pattern evaluation.
const DefaultMatchTimeout = 250 * time.Millisecond

// RuleDef is the raw, uncompiled form of a rule as written in a rules file.
type RuleDef struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Style       string `yaml:"style" json:"style"`
	Pattern     string `yaml:"pattern" json:"pattern"`
	Sample      string `yaml:"sample" json:"sample"`
}

// Rule is a compiled annotation rule. Rules are shared between all callers
// and must not be modified after construction.
type Rule struct {
	Key         string
	DisplayName string
	Description string
	StyleTag    string
	Sample      string

	pattern string
	re      *regexp2.Regexp
}

// NewRule validates def and compiles its pattern.
func NewRule(def RuleDef, timeout time.Duration) (*Rule, error) {
	if strings.TrimSpace(def.Key) == "" {
		return nil, errors.New("rule key is required")
	}
	if def.Pattern == "" {
		return nil, fmt.Errorf("rule %q: pattern is required", def.Key)
	}

	re, err := regexp2.Compile(def.Pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("rule %q: compile pattern: %w", def.Key, err)
	}
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	re.MatchTimeout = timeout

	name := def.Name
	if name == "" {
		name = def.Key
	}

	return &Rule{
		Key:         def.Key,
		DisplayName: name,
		Description: def.Description,
		StyleTag:    def.Style,
		Sample:      def.Sample,
		pattern:     def.Pattern,
		re:          re,
	}, nil
}

// Pattern returns the source text of the rule's pattern.
func (r *Rule) Pattern() string {
	return r.pattern
}

// Table is an ordered, immutable catalogue of rules. Earlier rules win when
// matches would overlap.
type Table struct {
	rules       []*Rule
	fingerprint string
}

// NewTable compiles defs in order. Every invalid definition is reported.
func NewTable(defs []RuleDef, timeout time.Duration) (*Table, error) {
	var errs []error
	seen := make(map[string]struct{}, len(defs))
	rules := make([]*Rule, 0, len(defs))

	for i, def := range defs {
		rule, err := NewRule(def, timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule #%d: %w", i+1, err))
			continue
		}
		if _, dup := seen[rule.Key]; dup {
			errs = append(errs, fmt.Errorf("rule #%d: duplicate key %q", i+1, rule.Key))
			continue
		}
		seen[rule.Key] = struct{}{}
		rules = append(rules, rule)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Table{rules: rules, fingerprint: fingerprint(rules)}, nil
}

// Rules returns the rules in priority order. The returned slice is a copy.
func (t *Table) Rules() []*Rule {
	out := make([]*Rule, len(t.rules))
	copy(out, t.rules)
	return out
}

// Len returns the number of rules in the table.
func (t *Table) Len() int {
	return len(t.rules)
}

// Lookup finds the rule with the given key.
func (t *Table) Lookup(key string) (*Rule, bool) {
	for _, r := range t.rules {
		if r.Key == key {
			return r, true
		}
	}
	return nil, false
}

// Fingerprint identifies the table's keys, patterns and order. Two tables
// with the same fingerprint segment every text identically.
func (t *Table) Fingerprint() string {
	return t.fingerprint
}

// Segment partitions text using the table's rules.
func (t *Table) Segment(text string) []Span {
	return Segment(text, t.rules)
}

func fingerprint(rules []*Rule) string {
	h := blake3.New()
	for _, r := range rules {
		h.Write([]byte(r.Key))
		h.Write([]byte{0})
		h.Write([]byte(r.pattern))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}
