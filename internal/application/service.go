package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	"github.com/escalopa/quran-tajweed-bot/internal/tajweed"
)

// VerseView is a fetched verse together with its tajweed segmentation
type VerseView struct {
	Verse *domain.Verse
	Spans []tajweed.Span
}

// BotService handles the business logic for the bot
type BotService struct {
	quranAPI domain.QuranAPIPort
	fsm      domain.FSMPort
	cache    domain.SpanCachePort
	rules    *tajweed.Table

	defaultLang domain.Language
}

// NewBotService wires the ports together. cache may be nil, in which case
// every verse is segmented on demand.
func NewBotService(quranAPI domain.QuranAPIPort, fsm domain.FSMPort, cache domain.SpanCachePort, rules *tajweed.Table) *BotService {
	if rules == nil {
		rules = tajweed.DefaultTable()
	}
	return &BotService{
		quranAPI: quranAPI,
		fsm:      fsm,
		cache:    cache,
		rules:    rules,

		defaultLang: domain.LangEnglish,
	}
}

// SetDefaultLanguage sets the language used for users who have not chosen one
func (s *BotService) SetDefaultLanguage(lang domain.Language) {
	s.defaultLang = lang
}

// HandleStart handles the /start command
func (s *BotService) HandleStart(ctx context.Context, userID string, lang domain.Language) error {
	// Set initial state
	if err := s.fsm.SetState(ctx, userID, domain.StateSelectSurah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	// Store user language
	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyLanguage, string(lang)); err != nil {
		return fmt.Errorf("set language: %w", err)
	}

	return nil
}

// GetCurrentState returns the current state for a user
func (s *BotService) GetCurrentState(ctx context.Context, userID string) (domain.State, error) {
	return s.fsm.GetState(ctx, userID)
}

// HandleSurahSelection handles when a user selects a Surah
func (s *BotService) HandleSurahSelection(ctx context.Context, userID string, surahNumber int) error {
	// Validate surah number
	if _, ok := domain.GetSurah(surahNumber); !ok {
		return fmt.Errorf("invalid surah number: %d", surahNumber)
	}

	// Store selected surah
	if err := s.fsm.SetData(ctx, userID, domain.SessionKeySurah, strconv.Itoa(surahNumber)); err != nil {
		return fmt.Errorf("set surah: %w", err)
	}

	// Move to next state
	if err := s.fsm.SetState(ctx, userID, domain.StateEnterAyah); err != nil {
		return fmt.Errorf("set state: %w", err)
	}

	return nil
}

// HandleAyahInput resolves an ayah number typed for the selected surah
func (s *BotService) HandleAyahInput(ctx context.Context, userID, input string) (domain.Ayah, error) {
	// Parse ayah number
	ayahNumber, err := strconv.Atoi(input)
	if err != nil {
		return domain.Ayah{}, fmt.Errorf("invalid ayah number: %s", input)
	}

	surahNumber, err := s.GetSelectedSurah(ctx, userID)
	if err != nil {
		return domain.Ayah{}, err
	}

	surah, ok := domain.GetSurah(surahNumber)
	if !ok {
		return domain.Ayah{}, fmt.Errorf("invalid surah: %d", surahNumber)
	}

	if ayahNumber < 1 || ayahNumber > surah.Ayahs {
		return domain.Ayah{}, fmt.Errorf("invalid ayah number: %d (surah %d has %d ayahs)", ayahNumber, surahNumber, surah.Ayahs)
	}

	return domain.Ayah{SurahNumber: surahNumber, AyahNumber: ayahNumber}, nil
}

// ReadVerse fetches an ayah, segments it and remembers it as the user's
// reading position
func (s *BotService) ReadVerse(ctx context.Context, userID string, ayah domain.Ayah) (*VerseView, error) {
	verse, err := s.FetchVerse(ctx, ayah)
	if err != nil {
		return nil, err
	}

	view := &VerseView{
		Verse: verse,
		Spans: s.Annotate(ctx, verse.Text),
	}

	if err := s.savePosition(ctx, userID, ayah); err != nil {
		log.Printf("Error saving reading position: %v", err)
	}

	return view, nil
}

// FetchVerse fetches an ayah without touching the user's reading position
func (s *BotService) FetchVerse(ctx context.Context, ayah domain.Ayah) (*domain.Verse, error) {
	if !domain.ValidAyah(ayah) {
		return nil, fmt.Errorf("invalid ayah: %s", ayah)
	}

	verse, err := s.quranAPI.GetVerse(ctx, ayah)
	if err != nil {
		return nil, fmt.Errorf("get verse: %w", err)
	}
	return verse, nil
}

func (s *BotService) savePosition(ctx context.Context, userID string, ayah domain.Ayah) error {
	if err := s.fsm.SetData(ctx, userID, domain.SessionKeySurah, strconv.Itoa(ayah.SurahNumber)); err != nil {
		return fmt.Errorf("set surah: %w", err)
	}
	if err := s.fsm.SetData(ctx, userID, domain.SessionKeyAyah, strconv.Itoa(ayah.AyahNumber)); err != nil {
		return fmt.Errorf("set ayah: %w", err)
	}
	if err := s.fsm.SetState(ctx, userID, domain.StateReading); err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

// CurrentAyah returns the last ayah the user read
func (s *BotService) CurrentAyah(ctx context.Context, userID string) (domain.Ayah, error) {
	surahNumber, err := s.GetSelectedSurah(ctx, userID)
	if err != nil {
		return domain.Ayah{}, err
	}

	ayahStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeyAyah)
	if err != nil {
		return domain.Ayah{}, fmt.Errorf("get ayah: %w", err)
	}

	ayahNumber, err := strconv.Atoi(ayahStr)
	if err != nil {
		return domain.Ayah{}, fmt.Errorf("parse ayah: %w", err)
	}

	return domain.Ayah{SurahNumber: surahNumber, AyahNumber: ayahNumber}, nil
}

// ErrNoMoreAyahs is returned when stepping past either end of the Quran
var ErrNoMoreAyahs = errors.New("no more ayahs")

// NextVerse reads the ayah after the user's current position
func (s *BotService) NextVerse(ctx context.Context, userID string) (*VerseView, error) {
	return s.stepVerse(ctx, userID, domain.Ayah.Next)
}

// PrevVerse reads the ayah before the user's current position
func (s *BotService) PrevVerse(ctx context.Context, userID string) (*VerseView, error) {
	return s.stepVerse(ctx, userID, domain.Ayah.Prev)
}

func (s *BotService) stepVerse(ctx context.Context, userID string, step func(domain.Ayah) (domain.Ayah, bool)) (*VerseView, error) {
	current, err := s.CurrentAyah(ctx, userID)
	if err != nil {
		return nil, err
	}

	target, ok := step(current)
	if !ok {
		return nil, ErrNoMoreAyahs
	}

	return s.ReadVerse(ctx, userID, target)
}

// Annotate segments text with the rule table, consulting the span cache
// first. Cache failures never prevent segmentation.
func (s *BotService) Annotate(ctx context.Context, text string) []tajweed.Span {
	tableID := s.rules.Fingerprint()

	if s.cache != nil {
		records, ok, err := s.cache.GetSpans(ctx, tableID, text)
		if err != nil {
			log.Printf("Error reading span cache: %v", err)
		} else if ok {
			if spans, ok := s.restoreSpans(text, records); ok {
				return spans
			}
			log.Printf("Discarding stale span cache entry for table %s", tableID)
		}
	}

	spans := s.rules.Segment(text)

	if s.cache != nil {
		if err := s.cache.SetSpans(ctx, tableID, text, toRecords(spans)); err != nil {
			log.Printf("Error writing span cache: %v", err)
		}
	}

	return spans
}

// RuleDetail looks up a rule for the selection popup
func (s *BotService) RuleDetail(key string) (*tajweed.Rule, bool) {
	return s.rules.Lookup(key)
}

// Rules returns the rule table in priority order
func (s *BotService) Rules() []*tajweed.Rule {
	return s.rules.Rules()
}

// GetUserLanguage retrieves the user's preferred language
func (s *BotService) GetUserLanguage(ctx context.Context, userID string) domain.Language {
	lang, _ := s.StoredLanguage(ctx, userID)
	if lang == "" {
		return s.defaultLang
	}
	return lang
}

// StoredLanguage returns the language saved for the user, ok is false when
// none has been chosen yet
func (s *BotService) StoredLanguage(ctx context.Context, userID string) (domain.Language, bool) {
	langStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeyLanguage)
	if err != nil || langStr == "" {
		return "", false
	}
	return domain.Language(langStr), true
}

// GetSelectedSurah returns the currently selected surah for a user
func (s *BotService) GetSelectedSurah(ctx context.Context, userID string) (int, error) {
	surahStr, err := s.fsm.GetData(ctx, userID, domain.SessionKeySurah)
	if err != nil {
		return 0, fmt.Errorf("get surah: %w", err)
	}

	return strconv.Atoi(surahStr)
}

// GetAllSurahs returns all surahs
func (s *BotService) GetAllSurahs() []domain.Surah {
	return domain.GetAllSurahs()
}

// GetAyahInput gets the accumulated ayah input for a user
func (s *BotService) GetAyahInput(ctx context.Context, userID string) string {
	input, err := s.fsm.GetData(ctx, userID, domain.SessionKeyAyahInput)
	if err != nil {
		return ""
	}
	return input
}

// SetAyahInput sets the accumulated ayah input for a user
func (s *BotService) SetAyahInput(ctx context.Context, userID, input string) error {
	return s.fsm.SetData(ctx, userID, domain.SessionKeyAyahInput, input)
}

// ClearAyahInput clears the accumulated ayah input for a user
func (s *BotService) ClearAyahInput(ctx context.Context, userID string) error {
	return s.fsm.DeleteData(ctx, userID, domain.SessionKeyAyahInput)
}
