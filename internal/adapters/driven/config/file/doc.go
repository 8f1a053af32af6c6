// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the kbqa config directory.
//
// Adapters:
//   - ConfigStore: TOML or YAML configuration storage
//   - PromptStore: user-editable generation prompts
package file
