package driven

import "context"

// EnglishCode is the pivot language used by the pipeline.
const EnglishCode = "en"

// Translator converts text to and from English.
// Both directions return the input unchanged on any failure.
type Translator interface {
	// ToEnglish translates text written in the source language.
	ToEnglish(ctx context.Context, text, sourceLang string) string

	// FromEnglish translates English text into the target language.
	FromEnglish(ctx context.Context, text, targetLang string) string

	// Supports reports whether the language code is handled.
	Supports(lang string) bool
}
