package api

import (
	"net/http"

	"github.com/benkyoapp/nihongo-api/internal/api/shared"
	"github.com/benkyoapp/nihongo-api/internal/content"
)

// ContentHandler serves the built-in study datasets. The datasets are
// compiled into the binary, so these endpoints never fail.
type ContentHandler struct{}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler() *ContentHandler {
	return &ContentHandler{}
}

// GetHiragana handles GET /api/content/hiragana requests.
func (h *ContentHandler) GetHiragana(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, content.Hiragana)
}

// GetKatakana handles GET /api/content/katakana requests.
func (h *ContentHandler) GetKatakana(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, content.Katakana)
}

// GetKanji handles GET /api/content/kanji requests.
func (h *ContentHandler) GetKanji(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, content.StarterKanji)
}
