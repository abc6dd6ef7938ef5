// Package translation provides an LLM-backed Translator. English is the
// pivot language: questions are translated in and answers out.
package translation

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/fusionqa/internal/core/ports/driven"
	"github.com/custodia-labs/fusionqa/internal/logger"
)

// Ensure Translator implements the interface.
var _ driven.Translator = (*Translator)(nil)

// DefaultTimeout bounds a single translation call.
const DefaultTimeout = 30 * time.Second

// languageNames maps supported codes to the names used in prompts.
var languageNames = map[string]string{
	"hi": "Hindi",
	"bn": "Bengali",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
}

// Languages returns the supported language codes and their names,
// excluding English.
func Languages() map[string]string {
	out := make(map[string]string, len(languageNames))
	for k, v := range languageNames {
		out[k] = v
	}
	return out
}

// Translator translates through an LLM.
type Translator struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	timeout time.Duration
}

// New creates a translator. prompts may be nil to use the built-in templates.
func New(llm driven.LLMService, prompts driven.PromptStore) *Translator {
	return &Translator{llm: llm, prompts: prompts, timeout: DefaultTimeout}
}

// Supports reports whether lang is English or a supported language.
func (t *Translator) Supports(lang string) bool {
	lang = normalise(lang)
	if lang == driven.EnglishCode {
		return true
	}
	_, ok := languageNames[lang]
	return ok
}

// ToEnglish translates text from sourceLang into English.
func (t *Translator) ToEnglish(ctx context.Context, text, sourceLang string) string {
	return t.translate(ctx, driven.PromptTranslateToEnglish, text, sourceLang)
}

// FromEnglish translates English text into targetLang.
func (t *Translator) FromEnglish(ctx context.Context, text, targetLang string) string {
	return t.translate(ctx, driven.PromptTranslateFromEnglish, text, targetLang)
}

func (t *Translator) translate(ctx context.Context, promptName, text, lang string) string {
	lang = normalise(lang)
	name, ok := languageNames[lang]
	if !ok || strings.TrimSpace(text) == "" || t.llm == nil {
		return text
	}

	prompt := strings.NewReplacer(
		"{language}", name,
		"{text}", text,
	).Replace(t.template(promptName))

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	out, err := t.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: 0,
		MaxTokens:   2048,
	})
	if err != nil {
		logger.Warn("Translation (%s) failed, keeping original text: %v", lang, err)
		return text
	}
	out = strings.TrimSpace(out)
	if out == "" {
		logger.Warn("Translation (%s) returned nothing, keeping original text", lang)
		return text
	}
	return out
}

func (t *Translator) template(name string) string {
	if t.prompts != nil {
		tpl, err := t.prompts.Load(name)
		if err == nil && strings.TrimSpace(tpl) != "" {
			return tpl
		}
	}
	return driven.DefaultPrompts()[name]
}

func normalise(lang string) string {
	return strings.ToLower(strings.TrimSpace(lang))
}
