package tajweed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	wantOrder := []string{
		"izhar", "ikhfa", "iqlab", "idgham_ghunnah", "idgham_no_ghunnah",
		"ikhfa_shafawi", "idgham_shafawi", "izhar_shafawi",
		"lam_shamsiyyah", "lam_qamariyyah",
		"madd_muttasil", "madd_munfasil", "madd_lin",
		"qalqalah", "ghunnah",
	}
	if table.Len() != len(wantOrder) {
		t.Fatalf("Len() = %d, want %d", table.Len(), len(wantOrder))
	}
	for i, r := range table.Rules() {
		if r.Key != wantOrder[i] {
			t.Errorf("rule %d = %s, want %s", i, r.Key, wantOrder[i])
		}
		if r.DisplayName == "" || r.Description == "" || r.Sample == "" || r.StyleTag == "" {
			t.Errorf("rule %s has empty display fields", r.Key)
		}
	}
}

func TestTable_Lookup(t *testing.T) {
	table := DefaultTable()

	r, ok := table.Lookup("ghunnah")
	if !ok {
		t.Fatal("Lookup(ghunnah) not found")
	}
	if r.Key != "ghunnah" {
		t.Errorf("Lookup returned %s", r.Key)
	}

	if _, ok := table.Lookup("unknown"); ok {
		t.Error("Lookup(unknown) should not be found")
	}
}

func TestTable_RulesIsCopy(t *testing.T) {
	table := DefaultTable()
	rules := table.Rules()
	rules[0] = nil

	if table.Rules()[0] == nil {
		t.Error("modifying Rules() result changed the table")
	}
}

func TestNewTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		defs    []RuleDef
		wantErr []string
	}{
		{
			name:    "empty key",
			defs:    []RuleDef{{Key: " ", Pattern: "a"}},
			wantErr: []string{"rule #1", "key is required"},
		},
		{
			name:    "empty pattern",
			defs:    []RuleDef{{Key: "a"}},
			wantErr: []string{`rule "a": pattern is required`},
		},
		{
			name:    "bad pattern",
			defs:    []RuleDef{{Key: "a", Pattern: "[a"}},
			wantErr: []string{`rule "a": compile pattern`},
		},
		{
			name:    "duplicate key",
			defs:    []RuleDef{{Key: "a", Pattern: "a"}, {Key: "a", Pattern: "b"}},
			wantErr: []string{`rule #2: duplicate key "a"`},
		},
		{
			name:    "all errors reported",
			defs:    []RuleDef{{Key: "", Pattern: "a"}, {Key: "b", Pattern: "(b"}},
			wantErr: []string{"rule #1", "rule #2"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTable(tc.defs, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tc.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err, want)
				}
			}
		})
	}
}

func TestNewRule_Defaults(t *testing.T) {
	r, err := NewRule(RuleDef{Key: "k", Pattern: "a"}, 0)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	if r.DisplayName != "k" {
		t.Errorf("DisplayName = %q, want key", r.DisplayName)
	}
	if r.Pattern() != "a" {
		t.Errorf("Pattern() = %q", r.Pattern())
	}
	if r.re.MatchTimeout != DefaultMatchTimeout {
		t.Errorf("MatchTimeout = %v, want %v", r.re.MatchTimeout, DefaultMatchTimeout)
	}
}

func TestTable_Fingerprint(t *testing.T) {
	a, _ := NewTable([]RuleDef{{Key: "a", Pattern: "x"}, {Key: "b", Pattern: "y"}}, 0)
	b, _ := NewTable([]RuleDef{{Key: "b", Pattern: "y"}, {Key: "a", Pattern: "x"}}, 0)
	c, _ := NewTable([]RuleDef{{Key: "a", Pattern: "x", Name: "Other"}, {Key: "b", Pattern: "y"}}, 0)

	if a.Fingerprint() == b.Fingerprint() {
		t.Error("reordered tables share a fingerprint")
	}
	if a.Fingerprint() != c.Fingerprint() {
		t.Error("display-only change altered the fingerprint")
	}
	if len(a.Fingerprint()) != 32 {
		t.Errorf("fingerprint length %d, want 32", len(a.Fingerprint()))
	}
}

func TestParseTable(t *testing.T) {
	data := []byte(`
rules:
  - key: shadda
    name: Shaddah
    style: purple
    pattern: '\u0651'
    sample: "إ\u0650ن\u064E\u0651"
  - key: sukun
    pattern: '\u0652'
`)
	table, err := ParseTable(data, 0)
	if err != nil {
		t.Fatalf("ParseTable: %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}
	r, ok := table.Lookup("shadda")
	if !ok || r.DisplayName != "Shaddah" || r.StyleTag != "purple" {
		t.Errorf("unexpected rule %+v", r)
	}

	spans := table.Segment("X\u0651")
	if len(spans) != 1 || !spans[0].Annotated() {
		t.Errorf("loaded table did not annotate: %+v", spans)
	}
}

func TestParseTable_Errors(t *testing.T) {
	if _, err := ParseTable([]byte("rules: []"), 0); err == nil {
		t.Error("expected error for empty rules")
	}
	if _, err := ParseTable([]byte("rules: [:"), 0); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  - key: a\n    pattern: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path, 0)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}

	if _, err := LoadTable(filepath.Join(t.TempDir(), "missing.yaml"), 0); err == nil {
		t.Error("expected error for missing file")
	}
}
