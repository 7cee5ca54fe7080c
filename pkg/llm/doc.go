// Package llm provides the completion service used to plan pipelines.
//
// A Completer turns a conversation into the next assistant reply. OllamaClient
// implements it against the Ollama /api/chat endpoint; llmtest provides a
// scripted implementation for tests.
package llm
