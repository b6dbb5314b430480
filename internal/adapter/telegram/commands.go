package telegram

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	locale "github.com/escalopa/quran-tajweed-bot/internal/adapter/i18n"
	"github.com/escalopa/quran-tajweed-bot/internal/application"
	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type CommandHandler func(ctx context.Context, msg *tgbotapi.Message)

// registerCommands registers all bot commands
func (b *Bot) registerCommands() {
	// Register command handlers
	b.commands = map[string]CommandHandler{
		"start":    b.commandStart,
		"read":     b.commandRead,
		"ayah":     b.commandAyah,
		"next":     b.commandNext,
		"prev":     b.commandPrev,
		"rules":    b.commandRules,
		"language": b.commandLanguage,
		"help":     b.commandHelp,
	}

	// Set bot commands for Telegram UI
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "read", Description: "Choose a surah and ayah"},
		{Command: "ayah", Description: "Open an ayah, e.g. /ayah 2:255"},
		{Command: "next", Description: "Next ayah"},
		{Command: "prev", Description: "Previous ayah"},
		{Command: "rules", Description: "List tajweed rules"},
		{Command: "language", Description: "Change language"},
		{Command: "help", Description: "Show help"},
	}

	cmdConfig := tgbotapi.NewSetMyCommands(commands...)
	if _, err := b.api.Request(cmdConfig); err != nil {
		log.Printf("Error setting bot commands: %v", err)
	}
}

func (b *Bot) commandStart(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)

	// First contact picks the language from the Telegram client
	lang, ok := b.service.StoredLanguage(ctx, userID)
	if !ok {
		lang = locale.DetectLanguage(msg.From.LanguageCode)
	}

	if err := b.service.HandleStart(ctx, userID, lang); err != nil {
		log.Printf("Error handling start: %v", err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	// Send welcome message
	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "welcome.message"))

	// Show surah selection
	b.sendSurahSelection(msg.Chat.ID, lang, 0)
}

func (b *Bot) commandRead(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	if err := b.service.HandleStart(ctx, userID, lang); err != nil {
		log.Printf("Error handling start: %v", err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.generic"))
		return
	}

	b.sendSurahSelection(msg.Chat.ID, lang, 0)
}

func (b *Bot) commandAyah(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		// Without arguments reopen the last ayah read, if any
		ayah, err := b.service.CurrentAyah(ctx, userID)
		if err != nil {
			b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "ayah.usage"))
			return
		}
		b.sendVerse(ctx, msg.Chat.ID, userID, lang, ayah)
		return
	}

	ayah, err := domain.ParseAyahRef(args)
	if err != nil {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "ayah.usage"))
		return
	}

	b.sendVerse(ctx, msg.Chat.ID, userID, lang, ayah)
}

func (b *Bot) commandNext(ctx context.Context, msg *tgbotapi.Message) {
	b.stepVerse(ctx, msg, b.service.NextVerse)
}

func (b *Bot) commandPrev(ctx context.Context, msg *tgbotapi.Message) {
	b.stepVerse(ctx, msg, b.service.PrevVerse)
}

func (b *Bot) stepVerse(ctx context.Context, msg *tgbotapi.Message, step func(context.Context, string) (*application.VerseView, error)) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	view, err := step(ctx, userID)
	if errors.Is(err, application.ErrNoMoreAyahs) {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.no_more_ayahs"))
		return
	}
	if err != nil {
		log.Printf("Error stepping verse: %v", err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "ayah.usage"))
		return
	}

	keyboard := verseKeyboard(b.i18n, lang, view)
	b.sendHTML(msg.Chat.ID, renderVerse(b.i18n, lang, view), &keyboard)
}

func (b *Bot) commandRules(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)

	text, keyboard := renderRuleList(b.i18n, lang, b.service.Rules())
	b.sendHTML(msg.Chat.ID, text, &keyboard)
}

func (b *Bot) commandHelp(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)
	b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "help.message"))
}

func (b *Bot) commandLanguage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	lang := b.service.GetUserLanguage(ctx, userID)
	b.sendLanguageSelection(msg.Chat.ID, lang)
}
