// Package client builds provider backends from profiles.
//
// A profile's api field selects the wire protocol:
//
//	| api       | Backend                                 |
//	|-----------|-----------------------------------------|
//	| openai    | OpenAI-compatible chat completions      |
//	| anthropic | Anthropic Messages API                  |
//	| google    | Gemini API                              |
//
// Every backend speaks the OpenAI response shape to the rest of the module,
// so the chat pipeline never branches on the provider.
//
// # Basic Usage
//
//	backend, err := client.New(profile)
//	if err != nil {
//	    return err
//	}
//	svc := chat.NewService(chat.WithBackend(backend))
//
// Or let the chat service build backends on demand, cached per profile:
//
//	svc := chat.NewService(chat.WithBackendFactory(client.Factory(
//	    client.WithLogger(logger),
//	)))
//
// # Retries
//
// Profiles with max_retries > 0 retry transient failures (rate limits,
// timeouts, 5xx) of blocking calls with exponential backoff. Streams are not
// retried once opened. Override the policy with WithRetryConfig:
//
//	backend, err := client.New(profile, client.WithRetryConfig(client.RetryConfig{
//	    MaxAttempts:  5,
//	    InitialDelay: 500 * time.Millisecond,
//	    MaxDelay:     30 * time.Second,
//	    Multiplier:   2,
//	}))
package client
