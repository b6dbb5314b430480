package tajweed

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func mustRules(t *testing.T, defs ...RuleDef) []*Rule {
	t.Helper()
	table, err := NewTable(defs, 0)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return table.Rules()
}

type wantSpan struct {
	text string
	rule string // empty for plain
}

func checkSpans(t *testing.T, got []Span, want []wantSpan) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d spans, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		s := got[i]
		if s.Text != w.text {
			t.Errorf("span %d: text %q, want %q", i, s.Text, w.text)
		}
		switch {
		case w.rule == "" && s.Kind != SpanPlain:
			t.Errorf("span %d: kind %s, want plain", i, s.Kind)
		case w.rule != "" && !s.Annotated():
			t.Errorf("span %d: kind %s, want annotated by %s", i, s.Kind, w.rule)
		case w.rule != "" && s.Rule.Key != w.rule:
			t.Errorf("span %d: rule %s, want %s", i, s.Rule.Key, w.rule)
		}
	}
}

// checkPartition verifies the spans tile text exactly, in order.
func checkPartition(t *testing.T, text string, spans []Span) {
	t.Helper()
	var sb strings.Builder
	pos := 0
	for i, s := range spans {
		if s.Start != pos {
			t.Fatalf("span %d starts at %d, want %d", i, s.Start, pos)
		}
		if s.End <= s.Start {
			t.Fatalf("span %d is empty: [%d,%d)", i, s.Start, s.End)
		}
		if text[s.Start:s.End] != s.Text {
			t.Fatalf("span %d text %q does not match source %q", i, s.Text, text[s.Start:s.End])
		}
		if s.Kind == SpanAnnotated && s.Rule == nil {
			t.Fatalf("span %d annotated without rule", i)
		}
		if s.Kind == SpanPlain && s.Rule != nil {
			t.Fatalf("span %d plain with rule %s", i, s.Rule.Key)
		}
		sb.WriteString(s.Text)
		pos = s.End
	}
	if sb.String() != text {
		t.Fatalf("concatenation %q, want %q", sb.String(), text)
	}
}

func TestSegment_EmptyText(t *testing.T) {
	if spans := Segment("", DefaultTable().Rules()); len(spans) != 0 {
		t.Errorf("expected no spans, got %+v", spans)
	}
}

func TestSegment_EmptyRules(t *testing.T) {
	text := "ب\u0650س\u0652م\u0650"
	spans := Segment(text, nil)
	checkSpans(t, spans, []wantSpan{{text: text}})
	checkPartition(t, text, spans)
}

func TestSegment_NoMatch(t *testing.T) {
	spans := DefaultTable().Segment("hello")
	checkSpans(t, spans, []wantSpan{{text: "hello"}})
	if spans[0].Start != 0 || spans[0].End != 5 {
		t.Errorf("bounds [%d,%d), want [0,5)", spans[0].Start, spans[0].End)
	}
}

func TestSegment_Priority(t *testing.T) {
	rules := mustRules(t,
		RuleDef{Key: "first", Pattern: `ab`},
		RuleDef{Key: "second", Pattern: `ab`},
	)
	spans := Segment("xaby", rules)
	checkSpans(t, spans, []wantSpan{{text: "x"}, {text: "ab", rule: "first"}, {text: "y"}})
}

func TestSegment_PartialOverlapDropped(t *testing.T) {
	rules := mustRules(t,
		RuleDef{Key: "bc", Pattern: `bc`},
		RuleDef{Key: "ab", Pattern: `ab`},
		RuleDef{Key: "cd", Pattern: `cd`},
	)
	spans := Segment("abcd", rules)
	checkSpans(t, spans, []wantSpan{{text: "a"}, {text: "bc", rule: "bc"}, {text: "d"}})
}

func TestSegment_SortsAcrossRules(t *testing.T) {
	rules := mustRules(t,
		RuleDef{Key: "late", Pattern: `z`},
		RuleDef{Key: "early", Pattern: `a`},
	)
	spans := Segment("a-z-a", rules)
	checkSpans(t, spans, []wantSpan{
		{text: "a", rule: "early"},
		{text: "-"},
		{text: "z", rule: "late"},
		{text: "-"},
		{text: "a", rule: "early"},
	})
}

func TestSegment_GraphemeSafety(t *testing.T) {
	rules := mustRules(t, RuleDef{Key: "shadda", Pattern: `\u0651`})
	text := "X\u0651"
	spans := Segment(text, rules)
	checkSpans(t, spans, []wantSpan{{text: text, rule: "shadda"}})
	if spans[0].Start != 0 || spans[0].End != len(text) {
		t.Errorf("bounds [%d,%d), want [0,%d)", spans[0].Start, spans[0].End, len(text))
	}
}

func TestSegment_GraphemeSafetyAtStart(t *testing.T) {
	rules := mustRules(t, RuleDef{Key: "shadda", Pattern: `\u0651`})
	text := "\u0651a"
	checkSpans(t, Segment(text, rules), []wantSpan{{text: "\u0651", rule: "shadda"}, {text: "a"}})
}

func TestSegment_AdjustedMatchOverlapsOwnRule(t *testing.T) {
	rules := mustRules(t, RuleDef{Key: "sukun", Pattern: `\u0652`})
	text := "a\u0652\u0652"
	// The second sukun shifts left onto the first one and is dropped.
	checkSpans(t, Segment(text, rules), []wantSpan{{text: "a\u0652", rule: "sukun"}, {text: "\u0652"}})
}

func TestSegment_ZeroLengthMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		text    string
		want    []wantSpan
	}{
		{name: "star", pattern: `x*`, text: "abc", want: []wantSpan{{text: "abc"}}},
		{name: "star with hits", pattern: `x*`, text: "axxb", want: []wantSpan{{text: "a"}, {text: "xx", rule: "r"}, {text: "b"}}},
		{name: "lookahead only", pattern: `(?=b)`, text: "abab", want: []wantSpan{{text: "abab"}}},
		{name: "empty alternation", pattern: `|a`, text: "aa", want: []wantSpan{{text: "aa"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rules := mustRules(t, RuleDef{Key: "r", Pattern: tc.pattern})
			spans := Segment(tc.text, rules)
			checkSpans(t, spans, tc.want)
			checkPartition(t, tc.text, spans)
		})
	}
}

func TestSegment_ShaddaScenario(t *testing.T) {
	rules := mustRules(t, RuleDef{Key: "shadda", Pattern: `\u0651`})
	text := "ب\u0650س\u0652م\u0650 الل\u0651\u064Eه\u0650"
	spans := Segment(text, rules)
	checkSpans(t, spans, []wantSpan{
		{text: "ب\u0650س\u0652م\u0650 ال"},
		{text: "ل\u0651", rule: "shadda"},
		{text: "\u064Eه\u0650"},
	})
	checkPartition(t, text, spans)
}

func TestSegment_DefaultRules(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []wantSpan
	}{
		{
			name: "ikhfa across words",
			text: "م\u0650ن\u0652 ش\u064Eر\u0651\u0650",
			want: []wantSpan{
				{text: "م\u0650"},
				{text: "ن\u0652 ش", rule: "ikhfa"},
				{text: "\u064Eر\u0651\u0650"},
			},
		},
		{
			name: "ghunnah",
			text: "إ\u0650ن\u0651\u064E",
			want: []wantSpan{
				{text: "إ\u0650"},
				{text: "ن\u0651", rule: "ghunnah"},
				{text: "\u064E"},
			},
		},
		{
			name: "lam shamsiyyah and izhar shafawi",
			text: "الش\u064E\u0651م\u0652س\u064F",
			want: []wantSpan{
				{text: "ال", rule: "lam_shamsiyyah"},
				{text: "ش\u064E\u0651"},
				{text: "م\u0652", rule: "izhar_shafawi"},
				{text: "س\u064F"},
			},
		},
		{
			name: "madd muttasil",
			text: "س\u064Eو\u064Eاء\u064C",
			want: []wantSpan{
				{text: "س\u064Eو\u064E"},
				{text: "اء", rule: "madd_muttasil"},
				{text: "\u064C"},
			},
		},
		{
			name: "earlier rule wins",
			text: "ب\u0650س\u0652م\u0650 الل\u0651\u064Eه\u0650",
			want: []wantSpan{
				{text: "ب\u0650"},
				{text: "س\u0652م", rule: "idgham_ghunnah"},
				{text: "\u0650 "},
				{text: "ال", rule: "lam_shamsiyyah"},
				{text: "ل\u0651\u064Eه\u0650"},
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spans := DefaultTable().Segment(tc.text)
			checkSpans(t, spans, tc.want)
			checkPartition(t, tc.text, spans)
		})
	}
}

func TestSegment_Lossless(t *testing.T) {
	texts := []string{
		"hello world",
		"ب\u0650س\u0652م\u0650 الل\u0651\u064Eه\u0650 الر\u0651\u064Eح\u0652م\u064E\u0670ن\u0650",
		"\u0651\u0651\u0651",
		"mixed م\u0650ن\u0652 ه\u064Eاد\u064D text",
		"\xff\xfe\u0651",
		" ",
	}

	for _, text := range texts {
		checkPartition(t, text, DefaultTable().Segment(text))
	}
}

func TestSegment_InvalidUTF8(t *testing.T) {
	rules := mustRules(t, RuleDef{Key: "shadda", Pattern: `\u0651`})
	text := "\xff\u0651"
	spans := Segment(text, rules)
	checkSpans(t, spans, []wantSpan{{text: text, rule: "shadda"}})
}

func TestSegment_MatchTimeout(t *testing.T) {
	table, err := NewTable([]RuleDef{
		{Key: "slow", Pattern: "(a+)+b"},
		{Key: "ex", Pattern: "x"},
	}, time.Millisecond)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	text := "x" + strings.Repeat("a", 40) + "x"

	done := make(chan []Span, 1)
	go func() { done <- table.Segment(text) }()

	var spans []Span
	select {
	case spans = <-done:
	case <-time.After(30 * time.Second):
		t.Fatal("Segment did not return after the pattern timed out")
	}

	checkPartition(t, text, spans)
	checkSpans(t, spans, []wantSpan{
		{"x", "ex"},
		{strings.Repeat("a", 40), ""},
		{"x", "ex"},
	})
}

func TestSegment_Concurrent(t *testing.T) {
	text := "م\u0650ن\u0652 ش\u064Eر\u0651\u0650 الش\u064E\u0651م\u0652س\u064F"
	want := DefaultTable().Segment(text)

	var wg sync.WaitGroup
	errs := make(chan string, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := DefaultTable().Segment(text)
			if len(got) != len(want) {
				errs <- "span count differs"
				return
			}
			for j := range got {
				if got[j] != want[j] {
					errs <- "span differs"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for e := range errs {
		t.Error(e)
	}
}

func TestSummary(t *testing.T) {
	rules := mustRules(t,
		RuleDef{Key: "b", Pattern: `b`},
		RuleDef{Key: "a", Pattern: `a`},
	)
	summary := Summary(Segment("abab-a", rules))

	if len(summary) != 2 {
		t.Fatalf("got %d entries, want 2", len(summary))
	}
	if summary[0].Rule.Key != "a" || summary[0].Count != 3 {
		t.Errorf("entry 0 = %s:%d, want a:3", summary[0].Rule.Key, summary[0].Count)
	}
	if summary[1].Rule.Key != "b" || summary[1].Count != 2 {
		t.Errorf("entry 1 = %s:%d, want b:2", summary[1].Rule.Key, summary[1].Count)
	}
}
