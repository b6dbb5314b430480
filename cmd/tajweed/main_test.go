package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

func writeRules(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	body := "rules:\n  - key: bee\n    name: Bee\n    style: sky\n    pattern: b\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSegmentCmd_Table(t *testing.T) {
	cmd := &SegmentCmd{
		TableFlags: TableFlags{RulesFile: writeRules(t), Timeout: time.Second},
		Text:       []string{"ab", "cb"},
	}

	var out bytes.Buffer
	if err := cmd.run(strings.NewReader(""), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{"START", "annotated", "bee", "plain"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "bee                  2") {
		t.Errorf("summary missing count:\n%s", got)
	}
}

func TestSegmentCmd_JSONFromStdin(t *testing.T) {
	cmd := &SegmentCmd{
		TableFlags: TableFlags{RulesFile: writeRules(t), JSON: true},
	}

	var out bytes.Buffer
	if err := cmd.run(strings.NewReader("abc\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var spans []spanJSON
	if err := json.Unmarshal(out.Bytes(), &spans); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}

	want := []spanJSON{
		{Start: 0, End: 1, Text: "a", Kind: "plain"},
		{Start: 1, End: 2, Text: "b", Kind: "annotated", Rule: "bee"},
		{Start: 2, End: 3, Text: "c", Kind: "plain"},
	}
	if len(spans) != len(want) {
		t.Fatalf("got %d spans, want %d", len(spans), len(want))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestSegmentCmd_NoText(t *testing.T) {
	cmd := &SegmentCmd{}
	if err := cmd.run(strings.NewReader("\n"), &bytes.Buffer{}); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestSegmentCmd_NoMatches(t *testing.T) {
	cmd := &SegmentCmd{TableFlags: TableFlags{Timeout: 250 * time.Millisecond}, Text: []string{"hello"}}

	var out bytes.Buffer
	if err := cmd.run(nil, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "no rules matched") {
		t.Errorf("output = %q", out.String())
	}
}

func TestRulesCmd(t *testing.T) {
	var out bytes.Buffer
	if err := (&RulesCmd{}).run(&out); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "1   izhar") {
		t.Errorf("first rule missing:\n%s", got)
	}
	if !strings.Contains(got, "15  ghunnah") {
		t.Errorf("last rule missing:\n%s", got)
	}
	if !strings.Contains(got, "\ntable ") {
		t.Errorf("fingerprint missing:\n%s", got)
	}
}

func TestRulesCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := &RulesCmd{TableFlags: TableFlags{RulesFile: writeRules(t), JSON: true}}
	if err := cmd.run(&out); err != nil {
		t.Fatalf("run: %v", err)
	}

	var defs []struct {
		Key     string `json:"key"`
		Pattern string `json:"pattern"`
	}
	if err := json.Unmarshal(out.Bytes(), &defs); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(defs) != 1 || defs[0].Key != "bee" || defs[0].Pattern != "b" {
		t.Errorf("defs = %+v", defs)
	}
}

func TestCLI_Parse(t *testing.T) {
	var cli struct {
		Segment SegmentCmd `cmd:""`
		Rules   RulesCmd   `cmd:""`
	}

	var out bytes.Buffer
	parser, err := kong.New(&cli, kong.Writers(&out, &out), kong.Exit(func(int) {}))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	rules := writeRules(t)
	ctx, err := parser.Parse([]string{"segment", "--rules", rules, "--json", "abc"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cli.Segment.JSON || cli.Segment.RulesFile != rules || cli.Segment.Timeout != 250*time.Millisecond {
		t.Errorf("flags = %+v", cli.Segment.TableFlags)
	}
	if err := ctx.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), `"rule": "bee"`) {
		t.Errorf("output = %q", out.String())
	}
}
