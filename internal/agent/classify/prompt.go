package classify

import (
	_ "embed"
	"strings"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

// RenderSystemPrompt fills the classifier system prompt template. Known tokens
// are replaced directly so the JSON braces in the template stay untouched.
func RenderSystemPrompt() string {
	return strings.NewReplacer(
		"{allowed_intents}", strings.Join(SupportedIntents, ", "),
	).Replace(classifierSystemPrompt)
}
