// Package chat turns a unified [llmlab.ChatRequest] into provider calls and
// provider output back into a normalized [llmlab.ChatResponse].
//
// A turn runs through the same pipeline for both entry points:
//
//  1. resolve the request model through the profile's aliases
//  2. resolve capabilities for it and reject unsupported media
//  3. merge direct images with frames sampled from videos
//  4. build the system, history and user messages
//  5. call the provider with deep-thinking negotiation
//  6. split the output into answer, reasoning and usage
//
// [Service.Send] never returns an error: every failure, validation included,
// becomes [llmlab.ChatResponse.ErrorMessage]. [Service.Stream] returns setup
// errors directly and reports mid-stream failures through [Stream.Err].
package chat
