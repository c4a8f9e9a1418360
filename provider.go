package llmlab

// API identifies the wire API a provider profile speaks.
type API string

// String returns the API identifier.
func (a API) String() string { return string(a) }

// Supported APIs. Profiles without an explicit api use APIOpenAI.
const (
	APIOpenAI    API = "openai"
	APIAnthropic API = "anthropic"
	APIGoogle    API = "google"
)

// Valid reports whether a is one of the supported APIs.
func (a API) Valid() bool {
	switch a {
	case APIOpenAI, APIAnthropic, APIGoogle:
		return true
	}
	return false
}
