package driven

// PromptStore provides access to generation prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or both.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return the
	// embedded default or an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptGenerateWithContext builds the generation prompt when passages
	// were retrieved. It has {context} and {question} placeholders.
	PromptGenerateWithContext = "generate_with_context"

	// PromptGenerateWithoutContext builds the generation prompt when no
	// context is available. It has a {question} placeholder.
	PromptGenerateWithoutContext = "generate_without_context"
)
