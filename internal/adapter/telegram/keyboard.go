package telegram

import (
	"fmt"

	locale "github.com/escalopa/quran-tajweed-bot/internal/adapter/i18n"
	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const surahsPerPage = 10

// surahKeyboard returns one page of the surah picker
func surahKeyboard(tr domain.I18nPort, lang domain.Language, page int) tgbotapi.InlineKeyboardMarkup {
	surahs := domain.GetAllSurahs()

	totalPages := (len(surahs) + surahsPerPage - 1) / surahsPerPage

	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * surahsPerPage
	end := min(start+surahsPerPage, len(surahs))

	var rows [][]tgbotapi.InlineKeyboardButton

	// Add surah buttons (2 per row)
	for i := start; i < end; i += 2 {
		row := []tgbotapi.InlineKeyboardButton{surahButton(tr, lang, surahs[i].Number)}
		if i+1 < end {
			row = append(row, surahButton(tr, lang, surahs[i+1].Number))
		}
		rows = append(rows, row)
	}

	// Add navigation buttons
	if totalPages > 1 {
		var navRow []tgbotapi.InlineKeyboardButton
		if page > 0 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData("⬅️ "+tr.Get(lang, "nav.prev"), fmt.Sprintf("spage:%d", page-1)))
		}
		navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d/%d", page+1, totalPages),
			"noop",
		))
		if page < totalPages-1 {
			navRow = append(navRow, tgbotapi.NewInlineKeyboardButtonData(tr.Get(lang, "nav.next")+" ➡️", fmt.Sprintf("spage:%d", page+1)))
		}
		rows = append(rows, navRow)
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func surahButton(tr domain.I18nPort, lang domain.Language, number int) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(
		locale.FormatSurahButton(lang, tr, number),
		fmt.Sprintf("surah:%d", number),
	)
}
