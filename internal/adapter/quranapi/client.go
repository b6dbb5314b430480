package quranapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/escalopa/quran-tajweed-bot/internal/domain"
)

type Client struct {
	baseURL            string
	apiKey             string
	edition            string
	translationEdition string
	httpClient         *http.Client
}

// NewClient creates an alquran.cloud compatible client. edition must carry
// diacritics for tajweed to apply; an audio edition such as ar.alafasy also
// supplies the recitation link. translationEdition may be empty.
func NewClient(baseURL, apiKey, edition, translationEdition string) *Client {
	return &Client{
		baseURL:            strings.TrimRight(baseURL, "/"),
		apiKey:             apiKey,
		edition:            edition,
		translationEdition: translationEdition,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GetVerse retrieves an ayah in the configured editions
func (c *Client) GetVerse(ctx context.Context, ayah domain.Ayah) (*domain.Verse, error) {
	editions := []string{c.edition}
	if c.translationEdition != "" {
		editions = append(editions, c.translationEdition)
	}

	endpoint := fmt.Sprintf("%s/ayah/%s/editions/%s",
		c.baseURL, ayah, strings.Join(editions, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Code   int            `json:"code"`
		Status string         `json:"status"`
		Data   []ayahResponse `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("ayah %s not found", ayah)
	}

	verse := mapVerse(&result.Data[0])
	for _, a := range result.Data[1:] {
		if a.Edition.Identifier == c.translationEdition {
			verse.Translation = a.Text
		}
	}

	return verse, nil
}

type ayahResponse struct {
	Number         int             `json:"number"`
	Text           string          `json:"text"`
	NumberInSurah  int             `json:"numberInSurah"`
	Juz            int             `json:"juz"`
	Page           int             `json:"page"`
	Sajda          json.RawMessage `json:"sajda"`
	Audio          string          `json:"audio"`
	AudioSecondary []string        `json:"audioSecondary"`
	Surah          surahResponse   `json:"surah"`
	Edition        editionResponse `json:"edition"`
}

type surahResponse struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	EnglishName string `json:"englishName"`
}

type editionResponse struct {
	Identifier string `json:"identifier"`
	Format     string `json:"format"`
	Type       string `json:"type"`
}

func mapVerse(a *ayahResponse) *domain.Verse {
	verse := &domain.Verse{
		Ayah: domain.Ayah{
			SurahNumber: a.Surah.Number,
			AyahNumber:  a.NumberInSurah,
		},
		Number:    a.Number,
		Text:      a.Text,
		SurahName: a.Surah.EnglishName,
		Juz:       a.Juz,
		Page:      a.Page,
		Sajda:     parseSajda(a.Sajda),
		Audio:     a.Audio,
	}

	if verse.Audio == "" && len(a.AudioSecondary) > 0 {
		verse.Audio = a.AudioSecondary[0]
	}

	return verse
}

// parseSajda accepts both `false` and the object form the API uses for
// prostration ayahs.
func parseSajda(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	return raw[0] == '{'
}
