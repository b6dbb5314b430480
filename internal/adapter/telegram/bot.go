package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	locale "github.com/escalopa/quran-tajweed-bot/internal/adapter/i18n"
	"github.com/escalopa/quran-tajweed-bot/internal/application"
	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	service  *application.BotService
	i18n     domain.I18nPort
	commands map[string]CommandHandler
	cancel   context.CancelFunc
}

func NewBot(token string, service *application.BotService, i18n domain.I18nPort) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	bot := &Bot{
		api:      api,
		service:  service,
		i18n:     i18n,
		commands: make(map[string]CommandHandler),
	}

	// Register commands
	bot.registerCommands()

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel

	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.api.StopReceivingUpdates()
	return nil
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	userID := b.getUserID(update)
	if userID == "" {
		return
	}

	lang := b.service.GetUserLanguage(ctx, userID)

	// Handle commands
	if update.Message != nil && update.Message.IsCommand() {
		b.handleCommand(ctx, update.Message, lang)
		return
	}

	// Handle callback queries (button presses)
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery, lang)
		return
	}

	// Handle text messages (ayah number or reference input)
	if update.Message != nil && update.Message.Text != "" {
		b.handleText(ctx, update.Message, lang)
		return
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	cmd := msg.Command()

	handler, exists := b.commands[cmd]
	if !exists {
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.unknown_command"))
		return
	}

	handler(ctx, msg)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, lang domain.Language) {
	if callback.Message == nil {
		return
	}

	userID := strconv.FormatInt(callback.From.ID, 10)
	chatID := callback.Message.Chat.ID
	data := callback.Data

	// Invalid input is reported through the callback answer itself
	if data == "done" || strings.HasPrefix(data, "surah:") || strings.HasPrefix(data, callbackRule) {
		b.handleAnsweredCallback(ctx, callback, userID, lang)
		return
	}

	// Answer callback to remove loading state
	b.answerCallback(callback.ID, "")

	switch {
	case strings.HasPrefix(data, "lang:"):
		newLang, ok := locale.ParseLanguage(strings.TrimPrefix(data, "lang:"))
		if !ok {
			return
		}
		if err := b.service.HandleStart(ctx, userID, newLang); err != nil {
			log.Printf("Error setting language: %v", err)
			return
		}
		b.sendMessage(chatID, b.i18n.Get(newLang, "language.changed"))
		b.sendSurahSelection(chatID, newLang, 0)

	case strings.HasPrefix(data, "spage:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "spage:"))
		b.editSurahSelection(callback.Message, lang, page)

	case strings.HasPrefix(data, "digit:"):
		b.handleDigitInput(ctx, callback.Message, userID, lang, strings.TrimPrefix(data, "digit:"))

	case data == "clear":
		b.handleClearDigit(ctx, callback.Message, userID, lang)

	case strings.HasPrefix(data, callbackGoto):
		ayah, err := domain.ParseAyahRef(strings.TrimPrefix(data, callbackGoto))
		if err != nil {
			log.Printf("Error parsing callback %q: %v", data, err)
			return
		}
		b.editVerse(ctx, callback.Message, userID, lang, ayah)

	case strings.HasPrefix(data, callbackAudio):
		ayah, err := domain.ParseAyahRef(strings.TrimPrefix(data, callbackAudio))
		if err != nil {
			log.Printf("Error parsing callback %q: %v", data, err)
			return
		}
		b.sendAudio(ctx, chatID, lang, ayah)
	}
}

func (b *Bot) handleAnsweredCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, userID string, lang domain.Language) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch {
	case strings.HasPrefix(data, "surah:"):
		surahNum, err := strconv.Atoi(strings.TrimPrefix(data, "surah:"))
		if err != nil {
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_input"))
			return
		}

		if err := b.service.HandleSurahSelection(ctx, userID, surahNum); err != nil {
			log.Printf("Error selecting surah: %v", err)
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.generic"))
			return
		}
		b.answerCallback(callback.ID, "")

		// Clear any previous ayah input
		if err := b.service.ClearAyahInput(ctx, userID); err != nil {
			log.Printf("Error clearing ayah input: %v", err)
		}

		// Edit the message to show ayah selection
		b.editMessageWithKeyboard(callback.Message, b.ayahPrompt(lang, surahNum, "", ""), b.getAyahKeyboard(lang))

	case data == "done":
		b.handleAyahDone(ctx, callback, userID, lang)

	case strings.HasPrefix(data, callbackRule):
		rule, ok := b.service.RuleDetail(strings.TrimPrefix(data, callbackRule))
		if !ok {
			b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "rule.unknown"))
			return
		}
		b.answerCallback(callback.ID, "")
		b.sendHTML(chatID, renderRule(b.i18n, lang, rule), nil)
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message, lang domain.Language) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// A full reference such as 2:255 works in every state
	if ayah, err := domain.ParseAyahRef(text); err == nil {
		b.sendVerse(ctx, chatID, userID, lang, ayah)
		return
	}

	state, err := b.service.GetCurrentState(ctx, userID)
	if err != nil {
		log.Printf("Error getting state: %v", err)
		b.sendMessage(chatID, b.i18n.Get(lang, "error.generic"))
		return
	}

	// Handle ayah number input
	if state == domain.StateEnterAyah {
		ayah, err := b.service.HandleAyahInput(ctx, userID, text)
		if err != nil {
			b.sendMessage(chatID, b.i18n.Get(lang, "error.invalid_ayah"))
			return
		}

		b.sendVerse(ctx, chatID, userID, lang, ayah)
		return
	}

	// For other states, show help
	b.sendMessage(chatID, b.i18n.Get(lang, "help.message"))
}

// ayahPrompt renders the ayah number prompt with the digits entered so far
// and an optional warning
func (b *Bot) ayahPrompt(lang domain.Language, surahNum int, input, warning string) string {
	surah, _ := domain.GetSurah(surahNum)
	text := b.i18n.Get(lang, "ayah.select", b.i18n.GetSurahName(lang, surahNum), surah.Ayahs)
	if input != "" {
		text += fmt.Sprintf("\n\n📝 %s", input)
	}
	if warning != "" {
		text += "\n\n⚠️ " + warning
	}
	return text
}

func (b *Bot) handleDigitInput(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, digit string) {
	// Get current input
	currentInput := b.service.GetAyahInput(ctx, userID)

	// Append digit (limit to 3 digits for ayah number)
	if len(currentInput) < 3 {
		currentInput += digit
		if err := b.service.SetAyahInput(ctx, userID, currentInput); err != nil {
			log.Printf("Error setting ayah input: %v", err)
			return
		}
	}

	b.refreshAyahPrompt(ctx, msg, userID, lang, currentInput, "")
}

func (b *Bot) handleClearDigit(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language) {
	// Get current input
	currentInput := b.service.GetAyahInput(ctx, userID)

	// Remove last digit
	if len(currentInput) > 0 {
		currentInput = currentInput[:len(currentInput)-1]
		if err := b.service.SetAyahInput(ctx, userID, currentInput); err != nil {
			log.Printf("Error setting ayah input: %v", err)
			return
		}
	}

	b.refreshAyahPrompt(ctx, msg, userID, lang, currentInput, "")
}

func (b *Bot) refreshAyahPrompt(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, input, warning string) {
	surahNum, err := b.service.GetSelectedSurah(ctx, userID)
	if err != nil {
		log.Printf("Error getting selected surah: %v", err)
		return
	}
	if _, ok := domain.GetSurah(surahNum); !ok {
		return
	}

	b.editMessageWithKeyboard(msg, b.ayahPrompt(lang, surahNum, input, warning), b.getAyahKeyboard(lang))
}

func (b *Bot) handleAyahDone(ctx context.Context, callback *tgbotapi.CallbackQuery, userID string, lang domain.Language) {
	msg := callback.Message

	// Get accumulated input
	ayahInput := b.service.GetAyahInput(ctx, userID)

	ayah, err := b.service.HandleAyahInput(ctx, userID, ayahInput)
	if err != nil {
		b.answerCallbackAlert(callback.ID, b.i18n.Get(lang, "error.invalid_ayah"))
		b.refreshAyahPrompt(ctx, msg, userID, lang, ayahInput, b.i18n.Get(lang, "error.invalid_ayah"))
		return
	}
	b.answerCallback(callback.ID, "")

	// Clear input after successful submission
	if err := b.service.ClearAyahInput(ctx, userID); err != nil {
		log.Printf("Error clearing ayah input: %v", err)
	}

	// Replace the keypad with the verse
	b.editVerse(ctx, msg, userID, lang, ayah)
}

// sendVerse posts a verse as a new message
func (b *Bot) sendVerse(ctx context.Context, chatID int64, userID string, lang domain.Language, ayah domain.Ayah) {
	view, err := b.service.ReadVerse(ctx, userID, ayah)
	if err != nil {
		log.Printf("Error reading verse %s: %v", ayah, err)
		b.sendMessage(chatID, b.i18n.Get(lang, "error.fetch_verse"))
		return
	}

	keyboard := verseKeyboard(b.i18n, lang, view)
	b.sendHTML(chatID, renderVerse(b.i18n, lang, view), &keyboard)
}

// editVerse replaces msg with a verse, used for in-place navigation
func (b *Bot) editVerse(ctx context.Context, msg *tgbotapi.Message, userID string, lang domain.Language, ayah domain.Ayah) {
	view, err := b.service.ReadVerse(ctx, userID, ayah)
	if err != nil {
		log.Printf("Error reading verse %s: %v", ayah, err)
		b.sendMessage(msg.Chat.ID, b.i18n.Get(lang, "error.fetch_verse"))
		return
	}

	keyboard := verseKeyboard(b.i18n, lang, view)
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, renderVerse(b.i18n, lang, view))
	edit.ParseMode = tgbotapi.ModeHTML
	edit.ReplyMarkup = &keyboard
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing message: %v", err)
	}
}

func (b *Bot) sendAudio(ctx context.Context, chatID int64, lang domain.Language, ayah domain.Ayah) {
	verse, err := b.service.FetchVerse(ctx, ayah)
	if err != nil {
		log.Printf("Error fetching verse %s: %v", ayah, err)
		b.sendMessage(chatID, b.i18n.Get(lang, "error.fetch_verse"))
		return
	}
	if verse.Audio == "" {
		b.sendMessage(chatID, b.i18n.Get(lang, "error.no_audio"))
		return
	}

	audio := tgbotapi.NewAudio(chatID, tgbotapi.FileURL(verse.Audio))
	audio.Caption = fmt.Sprintf("%s %s", b.i18n.GetSurahName(lang, ayah.SurahNumber), ayah)
	if _, err := b.api.Send(audio); err != nil {
		log.Printf("Error sending audio: %v", err)
		b.sendMessage(chatID, b.i18n.Get(lang, "error.no_audio"))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) sendHTML(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) sendLanguageSelection(chatID int64, currentLang domain.Language) {
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🇬🇧 English", "lang:en"),
			tgbotapi.NewInlineKeyboardButtonData("🇸🇦 العربية", "lang:ar"),
			tgbotapi.NewInlineKeyboardButtonData("🇷🇺 Русский", "lang:ru"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, b.i18n.Get(currentLang, "language.select"))
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) sendSurahSelection(chatID int64, lang domain.Language, page int) {
	msg := tgbotapi.NewMessage(chatID, b.i18n.Get(lang, "surah.select"))
	msg.ReplyMarkup = surahKeyboard(b.i18n, lang, page)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) editSurahSelection(msg *tgbotapi.Message, lang domain.Language, page int) {
	b.editMessageWithKeyboard(msg, b.i18n.Get(lang, "surah.select"), surahKeyboard(b.i18n, lang, page))
}

func (b *Bot) getAyahKeyboard(lang domain.Language) tgbotapi.InlineKeyboardMarkup {
	// Telephone-style number keyboard (3x3 + bottom row)
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("1", "digit:1"),
			tgbotapi.NewInlineKeyboardButtonData("2", "digit:2"),
			tgbotapi.NewInlineKeyboardButtonData("3", "digit:3"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("4", "digit:4"),
			tgbotapi.NewInlineKeyboardButtonData("5", "digit:5"),
			tgbotapi.NewInlineKeyboardButtonData("6", "digit:6"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("7", "digit:7"),
			tgbotapi.NewInlineKeyboardButtonData("8", "digit:8"),
			tgbotapi.NewInlineKeyboardButtonData("9", "digit:9"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ "+b.i18n.Get(lang, "nav.back"), "clear"),
			tgbotapi.NewInlineKeyboardButtonData("0", "digit:0"),
			tgbotapi.NewInlineKeyboardButtonData("✅ "+b.i18n.Get(lang, "nav.done"), "done"),
		),
	)
}

func (b *Bot) editMessageWithKeyboard(msg *tgbotapi.Message, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	edit.ReplyMarkup = &keyboard
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Error editing message: %v", err)
	}
}

func (b *Bot) answerCallback(callbackID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

func (b *Bot) answerCallbackAlert(callbackID, text string) {
	callback := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

func (b *Bot) getUserID(update tgbotapi.Update) string {
	if update.Message != nil && update.Message.From != nil {
		return strconv.FormatInt(update.Message.From.ID, 10)
	}
	if update.CallbackQuery != nil && update.CallbackQuery.From != nil {
		return strconv.FormatInt(update.CallbackQuery.From.ID, 10)
	}
	return ""
}
