// Package reasoning splits model output into the visible answer and the
// model's internal reasoning.
//
// Providers expose reasoning in two ways. Some return it in structured
// fields (reasoning_content, thinking, typed content blocks); others inline
// it in the answer text wrapped in <think> tags. [Separate] handles the tag
// form and merges it with reasoning already pulled out of structured fields
// by [ExtractFromMessage]:
//
//	explicit := reasoning.ExtractFromMessage(message)
//	answer, thoughts := reasoning.Separate(text, explicit)
package reasoning
