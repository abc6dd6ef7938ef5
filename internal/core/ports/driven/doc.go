// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - LLMService: Generates the answer text. Synthesis fails without it.
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Optional Interfaces
//
// These can be nil - the pipeline degrades gracefully:
//
//   - EmbeddingService + LocalIndex: Local semantic retrieval. Without either,
//     the local contribution is empty.
//   - WebSearchProvider: Live web results. Without it, answers use local context only.
//   - ContextLookup: Secondary lookup used when too few records were found.
//   - Translator: Multilingual questions. Without it, text passes through unchanged.
//   - Metrics: Provider outcome and latency reporting.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
