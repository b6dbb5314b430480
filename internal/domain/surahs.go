package domain

import (
	"fmt"
	"strconv"
	"strings"
)

var ayahCounts = [...]int{
	7, 286, 200, 176, 120, 165, 206, 75, 129, 109,
	123, 111, 43, 52, 99, 128, 111, 110, 98, 135,
	112, 78, 118, 64, 77, 227, 93, 88, 69, 60,
	34, 30, 73, 54, 45, 83, 182, 88, 75, 85,
	54, 53, 89, 59, 37, 35, 38, 29, 18, 45,
	60, 49, 62, 55, 78, 96, 29, 22, 24, 13,
	14, 11, 11, 18, 12, 12, 30, 52, 52, 44,
	28, 28, 20, 56, 40, 31, 50, 40, 46, 42,
	29, 19, 36, 25, 22, 17, 19, 26, 30, 20,
	15, 21, 11, 8, 8, 19, 5, 8, 8, 11,
	11, 8, 3, 9, 5, 4, 7, 3, 6, 3,
	5, 4, 5, 6,
}

var allSurahs = func() []Surah {
	surahs := make([]Surah, len(ayahCounts))
	for i, n := range ayahCounts {
		surahs[i] = Surah{Number: i + 1, Ayahs: n}
	}
	return surahs
}()

// GetAllSurahs returns the 114 surahs with their ayah counts. Names are
// resolved through I18nPort.
func GetAllSurahs() []Surah {
	out := make([]Surah, len(allSurahs))
	copy(out, allSurahs)
	return out
}

// GetSurah returns the surah with the given number
func GetSurah(number int) (Surah, bool) {
	if number < 1 || number > len(allSurahs) {
		return Surah{}, false
	}
	return allSurahs[number-1], true
}

// ValidAyah reports whether a points at an existing ayah
func ValidAyah(a Ayah) bool {
	s, ok := GetSurah(a.SurahNumber)
	return ok && a.AyahNumber >= 1 && a.AyahNumber <= s.Ayahs
}

// Next returns the ayah after a, crossing into the following surah
func (a Ayah) Next() (Ayah, bool) {
	s, ok := GetSurah(a.SurahNumber)
	if !ok {
		return Ayah{}, false
	}
	if a.AyahNumber < s.Ayahs {
		return Ayah{SurahNumber: a.SurahNumber, AyahNumber: a.AyahNumber + 1}, true
	}
	if a.SurahNumber < len(allSurahs) {
		return Ayah{SurahNumber: a.SurahNumber + 1, AyahNumber: 1}, true
	}
	return Ayah{}, false
}

// Prev returns the ayah before a, crossing into the preceding surah
func (a Ayah) Prev() (Ayah, bool) {
	if a.AyahNumber > 1 {
		return Ayah{SurahNumber: a.SurahNumber, AyahNumber: a.AyahNumber - 1}, ValidAyah(a)
	}
	prev, ok := GetSurah(a.SurahNumber - 1)
	if !ok {
		return Ayah{}, false
	}
	return Ayah{SurahNumber: prev.Number, AyahNumber: prev.Ayahs}, true
}

// ParseAyahRef parses "surah:ayah" (e.g. "2:255") and validates the position
func ParseAyahRef(ref string) (Ayah, error) {
	surahStr, ayahStr, found := strings.Cut(strings.TrimSpace(ref), ":")
	if !found {
		return Ayah{}, fmt.Errorf("invalid ayah reference %q", ref)
	}

	surahNumber, err := strconv.Atoi(strings.TrimSpace(surahStr))
	if err != nil {
		return Ayah{}, fmt.Errorf("invalid surah number %q", surahStr)
	}
	ayahNumber, err := strconv.Atoi(strings.TrimSpace(ayahStr))
	if err != nil {
		return Ayah{}, fmt.Errorf("invalid ayah number %q", ayahStr)
	}

	a := Ayah{SurahNumber: surahNumber, AyahNumber: ayahNumber}
	if !ValidAyah(a) {
		return Ayah{}, fmt.Errorf("ayah %s does not exist", a)
	}
	return a, nil
}
