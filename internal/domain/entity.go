package domain

import "fmt"

// Surah represents a chapter in the Quran
type Surah struct {
	Number int
	Ayahs  int
}

// Ayah represents a verse position in the Quran
type Ayah struct {
	SurahNumber int
	AyahNumber  int
}

// AyahID returns the formatted ayah ID (XXXYYY format)
func (a Ayah) AyahID() string {
	return FormatAyahID(a.SurahNumber, a.AyahNumber)
}

// String returns the "surah:ayah" reference used by the Quran API
func (a Ayah) String() string {
	return fmt.Sprintf("%d:%d", a.SurahNumber, a.AyahNumber)
}

// FormatAyahID formats a surah and ayah pair as a zero padded XXXYYY ID
func FormatAyahID(surahNumber, ayahNumber int) string {
	return fmt.Sprintf("%03d%03d", surahNumber, ayahNumber)
}

// Verse is the text of an ayah together with its edition metadata
type Verse struct {
	Ayah
	Number      int // global ayah number (1..6236)
	Text        string
	SurahName   string
	Juz         int
	Page        int
	Sajda       bool
	Audio       string
	Translation string
}

// Language represents supported languages
type Language string

const (
	LangEnglish Language = "en"
	LangArabic  Language = "ar"
	LangRussian Language = "ru"
)

// SupportedLanguages lists languages with a locale file, default first
var SupportedLanguages = []Language{LangEnglish, LangArabic, LangRussian}
