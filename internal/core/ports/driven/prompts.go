package driven

// PromptStore provides access to LLM prompt templates.
// Templates are user-editable; a missing template falls back to a built-in default.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptSynthesis is the answer template. It expects {context} and
	// {question} placeholders.
	PromptSynthesis = "synthesis"

	// PromptTranslateToEnglish expects {language} and {text} placeholders.
	PromptTranslateToEnglish = "translate_to_english"

	// PromptTranslateFromEnglish expects {language} and {text} placeholders.
	PromptTranslateFromEnglish = "translate_from_english"
)
