package domain

import "context"

// QuranAPIPort defines the interface for fetching verse text
type QuranAPIPort interface {
	// GetVerse retrieves a single ayah with its translation and audio link
	GetVerse(ctx context.Context, ayah Ayah) (*Verse, error)
}

// FSMPort defines the interface for finite state machine storage
type FSMPort interface {
	// SetState sets the current state for a user
	SetState(ctx context.Context, userID string, state State) error

	// GetState gets the current state for a user
	GetState(ctx context.Context, userID string) (State, error)

	// DeleteState deletes the state for a user
	DeleteState(ctx context.Context, userID string) error

	// SetData sets temporary data for a user's current session
	SetData(ctx context.Context, userID, key, value string) error

	// GetData gets temporary data for a user's current session
	GetData(ctx context.Context, userID, key string) (string, error)

	// DeleteData deletes temporary data for a user
	DeleteData(ctx context.Context, userID, key string) error
}

// SpanRecord is the cached form of a segmented span
type SpanRecord struct {
	Start int    `json:"s"`
	End   int    `json:"e"`
	Rule  string `json:"r,omitempty"`
}

// SpanCachePort memoizes segmentation results by verse text
type SpanCachePort interface {
	// GetSpans returns the cached spans for text, ok is false on a miss
	GetSpans(ctx context.Context, tableID, text string) (records []SpanRecord, ok bool, err error)

	// SetSpans stores the spans for text
	SetSpans(ctx context.Context, tableID, text string, records []SpanRecord) error
}

// I18nPort defines the interface for internationalization
type I18nPort interface {
	// Get retrieves a translated message
	Get(lang Language, key string, args ...interface{}) string

	// Lookup retrieves a message without formatting, ok is false when no
	// locale defines it
	Lookup(lang Language, key string) (string, bool)

	// GetSurahName retrieves the localized name of a Surah
	GetSurahName(lang Language, surahNumber int) string
}

// BotPort defines the interface for the bot adapter
type BotPort interface {
	// Start starts the bot
	Start(ctx context.Context) error

	// Stop stops the bot
	Stop() error
}

// State represents the FSM states
type State string

const (
	StateStart       State = "start"
	StateSelectSurah State = "select_surah"
	StateEnterAyah   State = "enter_ayah"
	StateReading     State = "reading"
)

// SessionData keys
const (
	SessionKeySurah     = "surah"
	SessionKeyAyah      = "ayah"
	SessionKeyAyahInput = "ayah_input" // Accumulated digit input for ayah number
	SessionKeyLanguage  = "language"
)
