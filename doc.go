// Package llmlab provides a unified chat pipeline over OpenAI-compatible
// chat completion APIs.
//
// The root package holds the shared data model: requests and responses,
// provider profiles, tri-state modality capabilities, and the [Backend]
// boundary that provider clients implement. The orchestration lives in
// sub-packages:
//
//   - [github.com/BrenchCC/LLM-Lab/chat]: request normalization and the Send/Stream entry points
//   - [github.com/BrenchCC/LLM-Lab/capability]: explicit config, cache, metadata and probe resolution
//   - [github.com/BrenchCC/LLM-Lab/thinking]: deep-thinking negotiation with one fallback retry
//   - [github.com/BrenchCC/LLM-Lab/reasoning]: answer/reasoning separation
//   - [github.com/BrenchCC/LLM-Lab/client]: builds a Backend from a profile
//   - [github.com/BrenchCC/LLM-Lab/config]: profile registry loading
//
// # Basic Usage
//
// Load a profile, build a backend and send one turn:
//
//	reg, err := config.LoadProfiles("config/profiles.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	profile, err := reg.Profile("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	svc := chat.NewService(chat.Config{}, chat.WithBackendFactory(client.Factory()))
//	resp := svc.Send(ctx, profile, profile.DefaultModel, llmlab.NewChatRequest("hello"))
//	if resp.Failed() {
//	    log.Fatal(resp.ErrorMessage)
//	}
//	fmt.Println(resp.AssistantText)
//
// # Streaming Responses
//
//	stream, err := svc.Stream(ctx, profile, model, req)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer stream.Close()
//
//	for stream.Next() {
//	    fmt.Print(stream.Current())
//	}
//	if err := stream.Err(); err != nil {
//	    log.Fatal(err)
//	}
//	final := stream.Response()
//
// # Capabilities
//
// [ModelCapabilities] holds four tri-state flags. Unknown is distinct from
// unsupported and is the only state that triggers detection:
//
//	caps := profile.Capabilities.Merge(cached).WithDefaults()
package llmlab
