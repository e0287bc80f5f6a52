package provider

import "fmt"

// DefaultTranslationSystemPrompt is used when the configuration does not
// override prompts.translation_system.
const DefaultTranslationSystemPrompt = "You are a professional translator. " +
	"Only respond with the translation, nothing else. No explanations, no quotes, just the translation."

// BuildTranslationPrompt constructs the user prompt for one seed sentence.
// Language names are display names ("Finnish"), not ISO codes, to match how
// the evaluation rubric refers to them.
func BuildTranslationPrompt(sourceLang, targetLang, text string) string {
	if sourceLang == "" {
		sourceLang = "English"
	}
	return fmt.Sprintf("Translate the following sentence from %s to %s:\n\n%s", sourceLang, targetLang, text)
}
