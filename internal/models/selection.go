package models

// Provider identifies one of the supported LLM backends.
type Provider string

const (
	// ProviderOllama is the local self-hosted backend.
	ProviderOllama Provider = "ollama"
	// ProviderOpenAI is the cloud structured-output backend.
	ProviderOpenAI Provider = "openai"
)

// LLMSelection is the persisted backend preference: which provider to use
// and which model identifier to request from it.
type LLMSelection struct {
	Provider Provider `json:"provider"`
	Model    string   `json:"model"`
}
