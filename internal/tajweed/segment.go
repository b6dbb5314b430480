package tajweed

import (
	"cmp"
	"slices"
)

// SpanKind tells whether a span carries a rule.
type SpanKind string

const (
	SpanPlain     SpanKind = "plain"
	SpanAnnotated SpanKind = "annotated"
)

// Span is a contiguous slice of verse text. Start and End are byte offsets
// into the segmented string, End exclusive.
type Span struct {
	Start int
	End   int
	Text  string
	Kind  SpanKind
	Rule  *Rule
}

// Annotated reports whether the span is tagged with a rule.
func (s Span) Annotated() bool {
	return s.Kind == SpanAnnotated && s.Rule != nil
}

// RuleCount is the number of annotated spans attributed to a rule.
type RuleCount struct {
	Rule  *Rule
	Count int
}

// claim is an assigned range in rune positions.
type claim struct {
	start, end int
	rule       *Rule
}

// Segment splits text into an ordered, lossless sequence of plain and
// annotated spans. Rules are applied in order; a match that overlaps a range
// already claimed by an earlier match is dropped whole. Empty text yields no
// spans.
func Segment(text string, rules []*Rule) []Span {
	if text == "" {
		return nil
	}

	runes, offsets := decode(text)

	var claims []claim
	for _, rule := range rules {
		if rule == nil || rule.re == nil {
			continue
		}
		claims = scan(rule, runes, claims)
	}

	slices.SortFunc(claims, func(a, b claim) int {
		return cmp.Compare(a.start, b.start)
	})

	return build(text, offsets, claims)
}

// scan appends every non-overlapping occurrence of rule to claims.
func scan(rule *Rule, runes []rune, claims []claim) []claim {
	pos := 0
	for pos < len(runes) {
		m, err := rule.re.FindRunesMatchStartingAt(runes, pos)
		if err != nil || m == nil {
			// A timeout ends this rule's scan only.
			break
		}

		start, end := m.Index, m.Index+m.Length
		if m.Length == 0 {
			pos = start + 1
			continue
		}
		pos = end

		// Keep a diacritic with the letter it sits on.
		if start > 0 && isHaraka(runes[start]) {
			start--
		}

		if overlaps(claims, start, end) {
			continue
		}
		claims = append(claims, claim{start: start, end: end, rule: rule})
	}
	return claims
}

func overlaps(claims []claim, start, end int) bool {
	for _, c := range claims {
		if start < c.end && end > c.start {
			return true
		}
	}
	return false
}

// build turns sorted claims into spans, filling the gaps with plain text.
func build(text string, offsets []int, claims []claim) []Span {
	spans := make([]Span, 0, 2*len(claims)+1)
	plain := func(from, to int) {
		if from < to {
			b, e := offsets[from], offsets[to]
			spans = append(spans, Span{Start: b, End: e, Text: text[b:e], Kind: SpanPlain})
		}
	}

	cursor := 0
	for _, c := range claims {
		plain(cursor, c.start)
		b, e := offsets[c.start], offsets[c.end]
		spans = append(spans, Span{Start: b, End: e, Text: text[b:e], Kind: SpanAnnotated, Rule: c.rule})
		cursor = c.end
	}
	plain(cursor, len(offsets)-1)

	return spans
}

// decode returns the runes of text and the byte offset of each rune, plus a
// final entry equal to len(text).
func decode(text string) ([]rune, []int) {
	runes := make([]rune, 0, len(text))
	offsets := make([]int, 0, len(text)+1)
	for i, r := range text {
		runes = append(runes, r)
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(text))
	return runes, offsets
}

// isHaraka reports whether r is an Arabic tanween, short vowel, shaddah or
// sukun (U+064B through U+0652).
func isHaraka(r rune) bool {
	return r >= 0x064B && r <= 0x0652
}

// Summary counts annotated spans per rule, in order of first appearance.
func Summary(spans []Span) []RuleCount {
	var out []RuleCount
	index := make(map[*Rule]int)
	for _, s := range spans {
		if !s.Annotated() {
			continue
		}
		i, ok := index[s.Rule]
		if !ok {
			i = len(out)
			index[s.Rule] = i
			out = append(out, RuleCount{Rule: s.Rule})
		}
		out[i].Count++
	}
	return out
}
