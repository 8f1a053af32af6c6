// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the pipeline to function:
//
//   - EmbeddingService: Embeds passages and questions
//   - IndexBuilder: Builds a domain.VectorIndex from passage embeddings
//   - PostProcessor: Splits documents into passages (chunker)
//   - DocumentSource: Loads documents from local locators
//   - Normaliser / NormaliserRegistry: Turns raw bytes into document text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil. A missing service surfaces as an error only when a
// request actually needs it:
//
//   - ExtractiveQAService: Span extraction for QA mode
//   - GenerativeService: Text generation for generative mode and fallbacks
//   - ChatLogStore: Chat history persistence
//   - PromptStore: User-editable prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
