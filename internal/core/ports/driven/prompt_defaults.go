package driven

// DefaultPrompts returns the built-in prompt templates keyed by prompt name.
// Stores fall back to these when a user file is missing.
func DefaultPrompts() map[string]string {
	return map[string]string{
		PromptSynthesis:            defaultSynthesisPrompt,
		PromptTranslateToEnglish:   defaultTranslateToEnglishPrompt,
		PromptTranslateFromEnglish: defaultTranslateFromEnglishPrompt,
	}
}

//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const defaultSynthesisPrompt = `You are a specialized Women's Health AI Assistant with expertise in maternal and reproductive health, gender-specific conditions, preventive care and evidence-based medical information.

INSTRUCTIONS:
1. Use the provided context to answer the question.
2. Focus on evidence-based, medically accurate information.
3. Reference sources in your answer using the source numbers and names shown, e.g. "As mentioned in [Source 1]...".
4. Be specific about which information comes from which source.
5. If the context does not contain sufficient information, say so clearly.
6. Recommend consulting a healthcare professional for medical decisions.

CONTEXT WITH SOURCES:
{context}

QUESTION: {question}

Answer in clear, accessible language and cite your sources within the answer text.

Answer:`

const defaultTranslateToEnglishPrompt = `Translate the following text from {language} to English.
Only provide the translation, no additional text or explanations.

Text to translate: {text}`

const defaultTranslateFromEnglishPrompt = `Translate the following English text to {language}.
Only provide the translation, no additional text or explanations.

Text to translate: {text}`
