package chat

import (
	"context"
	"strings"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/media"
)

// DefaultSystemPrompt is used when neither the request nor the service
// configuration supplies one.
const DefaultSystemPrompt = `你叫做 Brench's Bot，是 Brench 的专属 AI 助手。
你的核心目标是：准确、简洁、可执行地帮助 Brench 完成任务。

行为要求：
1. 默认使用中文回答，除非 Brench 明确要求英文。
2. 优先给出可直接执行的方案、命令或代码，不空泛。
3. 对不确定的信息要明确说明不确定，并给出验证建议。
4. 在编码场景下，尽量保持改动最小、结构清晰、风格一致。
5. 不编造事实，不虚构执行结果。

输出风格：
- 先给结论，再给关键细节。
- 保持专业、直接、礼貌。
- 避免冗长和无关内容。`

// Modality error messages, shown to end users.
const (
	ImageUnsupportedMessage = "Current model does not support image input."
	VideoUnsupportedMessage = "Current model does not support video/image input for frame-based video mode."
)

// ValidateModalities rejects media the capabilities do not allow. Video is
// sent as sampled frames, so it depends on image support.
func ValidateModalities(req lab.ChatRequest, caps lab.ModelCapabilities) error {
	if len(req.ImagePaths) > 0 && !caps.Image.Supported() {
		return &lab.ModalityError{Modality: "image", Msg: ImageUnsupportedMessage}
	}
	if len(req.VideoPaths) > 0 && !caps.Image.Supported() {
		return &lab.ModalityError{Modality: "video", Msg: VideoUnsupportedMessage}
	}
	return nil
}

// MergeImageInputs returns the direct images followed by the frames of each
// video, in order.
func MergeImageInputs(
	ctx context.Context,
	extractor media.FrameExtractor,
	imagePaths, videoPaths []string,
	opts media.FrameOptions,
) ([]string, error) {
	merged := append([]string(nil), imagePaths...)
	for _, video := range videoPaths {
		frames, err := extractor.ExtractFrames(ctx, video, opts)
		if err != nil {
			return nil, err
		}
		merged = append(merged, frames...)
	}
	return merged, nil
}

// BuildUserContent builds the current user turn. Without images the content
// is plain text; with images it is an optional text block followed by one
// data-URL image block per image.
func BuildUserContent(text string, imagePaths []string, encode media.ImageEncoder) (lab.Message, error) {
	msg := lab.Message{Role: lab.RoleUser}
	if len(imagePaths) == 0 {
		msg.Content = text
		return msg, nil
	}

	parts := make([]lab.ContentPart, 0, len(imagePaths)+1)
	if text != "" {
		parts = append(parts, lab.NewTextPart(text))
	}
	for _, path := range imagePaths {
		url, err := encode(path)
		if err != nil {
			return lab.Message{}, err
		}
		parts = append(parts, lab.NewImageURLPart(url))
	}
	msg.Parts = parts
	return msg, nil
}

// BuildMessages builds the full message list: the system prompt, the prior
// user and assistant turns with string content, then the current turn.
// History entries with other roles or non-string content are dropped.
func BuildMessages(req lab.ChatRequest, defaultPrompt string, imagePaths []string, encode media.ImageEncoder) ([]lab.Message, error) {
	prompt := strings.TrimSpace(req.SystemPrompt)
	if prompt == "" {
		prompt = defaultPrompt
	}
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	messages := make([]lab.Message, 0, len(req.History)+2)
	messages = append(messages, lab.Message{Role: lab.RoleSystem, Content: prompt})

	for _, entry := range req.History {
		role := lab.Role(entry.Role)
		if role != lab.RoleUser && role != lab.RoleAssistant {
			continue
		}
		content, ok := entry.Content.(string)
		if !ok {
			continue
		}
		messages = append(messages, lab.Message{Role: role, Content: content})
	}

	user, err := BuildUserContent(req.UserText, imagePaths, encode)
	if err != nil {
		return nil, err
	}
	return append(messages, user), nil
}

// BuildCompletionParams builds the provider call arguments. model must
// already be the provider request model.
func BuildCompletionParams(req lab.ChatRequest, model string, messages []lab.Message, stream bool) lab.CompletionParams {
	params := lab.CompletionParams{
		Model:       model,
		Messages:    messages,
		Stream:      stream,
		Temperature: lab.Float(req.Temperature),
		TopP:        lab.Float(req.TopP),
	}
	if req.MaxTokens != nil {
		params.MaxTokens = lab.Int(*req.MaxTokens)
	}
	return params
}
