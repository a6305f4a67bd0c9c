package domain

import (
	"errors"
	"fmt"
)

// Category identifies one of the five independent mastery ledgers a
// learner maintains. It is a closed enum: code dispatches on the typed
// constant rather than on raw strings.
type Category string

// The five study categories.
const (
	CategoryHiragana Category = "hiragana"
	CategoryKatakana Category = "katakana"
	CategoryKanji    Category = "kanji"
	CategoryWord     Category = "word"
	CategorySentence Category = "sentence"
)

// ErrInvalidCategory indicates a category value outside the known set.
var ErrInvalidCategory = errors.New("invalid mastery category")

// Categories returns all valid categories in a stable order.
func Categories() []Category {
	return []Category{
		CategoryHiragana,
		CategoryKatakana,
		CategoryKanji,
		CategoryWord,
		CategorySentence,
	}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryHiragana, CategoryKatakana, CategoryKanji, CategoryWord, CategorySentence:
		return true
	default:
		return false
	}
}

// ParseCategory converts a string into a Category.
// Returns ErrInvalidCategory for unknown values.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}
