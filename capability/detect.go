package capability

import (
	"context"
	"strings"

	lab "github.com/BrenchCC/LLM-Lab"
	"github.com/BrenchCC/LLM-Lab/internal/payload"
)

var (
	imageKeywords = []string{"vision", "vl", "image", "multimodal", "omni", "gpt-4o"}
	videoKeywords = []string{"video", "videogen"}
	audioKeywords = []string{"audio", "speech", "voice"}
)

// probeImageURL is a 1x1 PNG.
const probeImageURL = "data:image/png;base64," +
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR4nGNgYAAAAAMA" +
	"ASsJTYQAAAAASUVORK5CYII="

// Key builds the cache key of a (profile, model) pair.
func Key(profileID, model string) string {
	return profileID + "::" + model
}

// Heuristic infers support from keywords in the model name and metadata
// text, case-insensitively. Text is always supported and every other flag
// comes back known.
func Heuristic(model, metadataText string) lab.ModelCapabilities {
	text := strings.ToLower(model + " " + metadataText)
	return lab.ModelCapabilities{
		Text:  lab.CapabilitySupported,
		Image: lab.FromBool(containsAny(text, imageKeywords)),
		Video: lab.FromBool(containsAny(text, videoKeywords)),
		Audio: lab.FromBool(containsAny(text, audioKeywords)),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// MetadataText flattens provider metadata into searchable text: JSON for
// structured bodies, the value itself for strings.
func MetadataText(meta *lab.ModelMetadata) string {
	if meta == nil {
		return ""
	}
	v := payload.Of(meta.Body)
	if v.IsString() {
		return v.Str()
	}
	return v.Raw()
}

// DetectFromMetadata fetches model metadata and applies Heuristic to it.
func DetectFromMetadata(ctx context.Context, backend lab.Backend, model string) (lab.ModelCapabilities, error) {
	meta, err := backend.RetrieveModel(ctx, model)
	if err != nil {
		return lab.ModelCapabilities{}, err
	}
	return Heuristic(model, MetadataText(meta)), nil
}

// ProbeParams are the arguments of the image probe: one text block and one
// tiny image, capped at a single output token.
func ProbeParams(model string) lab.CompletionParams {
	return lab.CompletionParams{
		Model: model,
		Messages: []lab.Message{{
			Role: lab.RoleUser,
			Parts: []lab.ContentPart{
				lab.NewTextPart("ping"),
				lab.NewImageURLPart(probeImageURL),
			},
		}},
		MaxTokens: lab.Int(1),
	}
}

// ProbeImageSupport issues the probe call. Any error means unsupported.
func ProbeImageSupport(ctx context.Context, backend lab.Backend, model string) bool {
	_, err := backend.CreateCompletion(ctx, ProbeParams(model))
	return err == nil
}
