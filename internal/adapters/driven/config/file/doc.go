// Package file persists settings and prompt templates under ~/.fusionqa.
//
// Adapters:
//   - ConfigStore: TOML settings with dotted keys mapped to tables
//   - PromptStore: user-editable prompt templates with built-in fallbacks
package file
