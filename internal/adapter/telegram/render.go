package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/escalopa/quran-tajweed-bot/internal/application"
	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	"github.com/escalopa/quran-tajweed-bot/internal/tajweed"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	callbackRule  = "rule:"
	callbackGoto  = "goto:"
	callbackAudio = "audio:"
)

// Telegram cannot colour text, so each rule style gets a marker shown in the
// legend and on the rule buttons.
var styleMarkers = map[string]string{
	"sky":         "🔵",
	"rose":        "🔴",
	"amber":       "🟠",
	"emerald":     "🟢",
	"green":       "🟩",
	"pink":        "🌸",
	"fuchsia":     "🟣",
	"cyan":        "💠",
	"orange":      "🟧",
	"teal":        "🟦",
	"indigo":      "🔷",
	"indigo-dark": "🔹",
	"violet":      "🟪",
	"blue":        "💙",
	"purple":      "💜",
}

const defaultMarker = "▪️"

func ruleMarker(rule *tajweed.Rule) string {
	if m, ok := styleMarkers[rule.StyleTag]; ok {
		return m
	}
	return defaultMarker
}

// ruleName returns the localized rule name, falling back to the name the
// rule table carries
func ruleName(i18n domain.I18nPort, lang domain.Language, rule *tajweed.Rule) string {
	if name, ok := i18n.Lookup(lang, "rule."+rule.Key+".name"); ok {
		return name
	}
	return rule.DisplayName
}

func ruleDescription(i18n domain.I18nPort, lang domain.Language, rule *tajweed.Rule) string {
	if desc, ok := i18n.Lookup(lang, "rule."+rule.Key+".description"); ok {
		return desc
	}
	return rule.Description
}

// renderSpans writes the verse text as Telegram HTML with annotated spans
// underlined
func renderSpans(spans []tajweed.Span) string {
	var sb strings.Builder
	for _, span := range spans {
		text := html.EscapeString(span.Text)
		if span.Annotated() {
			sb.WriteString("<u>")
			sb.WriteString(text)
			sb.WriteString("</u>")
			continue
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// renderVerse builds the HTML message for a verse
func renderVerse(i18n domain.I18nPort, lang domain.Language, view *application.VerseView) string {
	verse := view.Verse

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s %s</b>",
		html.EscapeString(i18n.GetSurahName(lang, verse.SurahNumber)), verse.Ayah)
	if verse.Sajda {
		fmt.Fprintf(&sb, " ۩ <i>%s</i>", html.EscapeString(i18n.Get(lang, "verse.sajda")))
	}

	sb.WriteString("\n\n")
	sb.WriteString(renderSpans(view.Spans))

	if verse.Translation != "" {
		sb.WriteString("\n\n<i>")
		sb.WriteString(html.EscapeString(verse.Translation))
		sb.WriteString("</i>")
	}

	summary := tajweed.Summary(view.Spans)
	if len(summary) == 0 {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(i18n.Get(lang, "verse.no_rules")))
	} else {
		fmt.Fprintf(&sb, "\n\n<b>%s</b>", html.EscapeString(i18n.Get(lang, "verse.legend")))
		for _, rc := range summary {
			fmt.Fprintf(&sb, "\n%s %s ×%d",
				ruleMarker(rc.Rule), html.EscapeString(ruleName(i18n, lang, rc.Rule)), rc.Count)
		}
	}

	if verse.Juz > 0 {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(i18n.Get(lang, "verse.juz", verse.Juz, verse.Page)))
	}

	return sb.String()
}

// verseKeyboard offers one button per highlighted rule followed by the
// navigation row
func verseKeyboard(i18n domain.I18nPort, lang domain.Language, view *application.VerseView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var row []tgbotapi.InlineKeyboardButton
	for _, rc := range tajweed.Summary(view.Spans) {
		row = append(row, ruleButton(i18n, lang, rc.Rule))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	ayah := view.Verse.Ayah
	var navRow []tgbotapi.InlineKeyboardButton
	if prev, ok := ayah.Prev(); ok {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(
			"⬅️ "+i18n.Get(lang, "nav.prev"), callbackGoto+prev.String()))
	}
	if view.Verse.Audio != "" {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(
			"🔊 "+i18n.Get(lang, "verse.audio"), callbackAudio+ayah.String()))
	}
	if next, ok := ayah.Next(); ok {
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(
			i18n.Get(lang, "nav.next")+" ➡️", callbackGoto+next.String()))
	}
	if len(navRow) > 0 {
		rows = append(rows, navRow)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func ruleButton(i18n domain.I18nPort, lang domain.Language, rule *tajweed.Rule) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(
		ruleMarker(rule)+" "+ruleName(i18n, lang, rule), callbackRule+rule.Key)
}

// renderRule builds the detail message shown when a rule button is pressed
func renderRule(i18n domain.I18nPort, lang domain.Language, rule *tajweed.Rule) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <b>%s</b>", ruleMarker(rule), html.EscapeString(ruleName(i18n, lang, rule)))

	if desc := ruleDescription(i18n, lang, rule); desc != "" {
		sb.WriteString("\n\n")
		sb.WriteString(html.EscapeString(desc))
	}

	if rule.Sample != "" {
		fmt.Fprintf(&sb, "\n\n%s: %s",
			html.EscapeString(i18n.Get(lang, "rule.sample")), html.EscapeString(rule.Sample))
	}

	return sb.String()
}

// renderRuleList lists every rule in priority order with a button for each
func renderRuleList(i18n domain.I18nPort, lang domain.Language, rules []*tajweed.Rule) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n", html.EscapeString(i18n.Get(lang, "rules.title")))
	for _, rule := range rules {
		fmt.Fprintf(&sb, "\n%s %s", ruleMarker(rule), html.EscapeString(ruleName(i18n, lang, rule)))
	}
	sb.WriteString("\n\n")
	sb.WriteString(html.EscapeString(i18n.Get(lang, "rules.hint")))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(rules); i += 2 {
		row := []tgbotapi.InlineKeyboardButton{ruleButton(i18n, lang, rules[i])}
		if i+1 < len(rules) {
			row = append(row, ruleButton(i18n, lang, rules[i+1]))
		}
		rows = append(rows, row)
	}

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}
