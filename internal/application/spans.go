package application

import (
	"unicode/utf8"

	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	"github.com/escalopa/quran-tajweed-bot/internal/tajweed"
)

func toRecords(spans []tajweed.Span) []domain.SpanRecord {
	records := make([]domain.SpanRecord, len(spans))
	for i, span := range spans {
		records[i] = domain.SpanRecord{Start: span.Start, End: span.End}
		if span.Rule != nil {
			records[i].Rule = span.Rule.Key
		}
	}
	return records
}

// restoreSpans rebuilds spans from cached records. The records must tile
// text exactly on rune boundaries and name rules of the current table,
// otherwise ok is false.
func (s *BotService) restoreSpans(text string, records []domain.SpanRecord) ([]tajweed.Span, bool) {
	if len(records) == 0 {
		return nil, text == ""
	}

	spans := make([]tajweed.Span, 0, len(records))
	pos := 0
	for _, rec := range records {
		if rec.Start != pos || rec.End <= rec.Start || rec.End > len(text) {
			return nil, false
		}
		if !utf8.RuneStart(text[rec.Start]) || (rec.End < len(text) && !utf8.RuneStart(text[rec.End])) {
			return nil, false
		}

		span := tajweed.Span{
			Start: rec.Start,
			End:   rec.End,
			Text:  text[rec.Start:rec.End],
			Kind:  tajweed.SpanPlain,
		}
		if rec.Rule != "" {
			rule, ok := s.rules.Lookup(rec.Rule)
			if !ok {
				return nil, false
			}
			span.Kind = tajweed.SpanAnnotated
			span.Rule = rule
		}

		spans = append(spans, span)
		pos = rec.End
	}

	if pos != len(text) {
		return nil, false
	}

	return spans, true
}
