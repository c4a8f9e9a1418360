package llmlab

import (
	"bytes"
	"fmt"
)

// Capability is a tri-state modality support flag. The zero value is
// CapabilityUnknown, which is a valid persisted state distinct from
// CapabilityUnsupported.
type Capability int8

const (
	CapabilityUnknown     Capability = 0
	CapabilitySupported   Capability = 1
	CapabilityUnsupported Capability = -1
)

// CapabilityOf converts an optional boolean into a Capability.
func CapabilityOf(v *bool) Capability {
	if v == nil {
		return CapabilityUnknown
	}
	return FromBool(*v)
}

// FromBool converts a known boolean into a Capability.
func FromBool(v bool) Capability {
	if v {
		return CapabilitySupported
	}
	return CapabilityUnsupported
}

// Known reports whether c is not CapabilityUnknown.
func (c Capability) Known() bool { return c != CapabilityUnknown }

// Supported reports whether c is CapabilitySupported.
func (c Capability) Supported() bool { return c == CapabilitySupported }

// Bool returns the capability as an optional boolean; nil means unknown.
func (c Capability) Bool() *bool {
	switch c {
	case CapabilitySupported:
		v := true
		return &v
	case CapabilityUnsupported:
		v := false
		return &v
	}
	return nil
}

// Or returns c when known, otherwise other.
func (c Capability) Or(other Capability) Capability {
	if c.Known() {
		return c
	}
	return other
}

func (c Capability) String() string {
	switch c {
	case CapabilitySupported:
		return "true"
	case CapabilityUnsupported:
		return "false"
	}
	return "unknown"
}

// MarshalJSON encodes unknown as null and known values as booleans.
func (c Capability) MarshalJSON() ([]byte, error) {
	switch c {
	case CapabilitySupported:
		return []byte("true"), nil
	case CapabilityUnsupported:
		return []byte("false"), nil
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts true, false, or null.
func (c *Capability) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true":
		*c = CapabilitySupported
	case "false":
		*c = CapabilityUnsupported
	case "null":
		*c = CapabilityUnknown
	default:
		return fmt.Errorf("invalid capability value %s", data)
	}
	return nil
}

// ModelCapabilities holds the modality support flags of one (profile, model) pair.
type ModelCapabilities struct {
	Text  Capability `json:"supports_text"`
	Image Capability `json:"supports_image"`
	Video Capability `json:"supports_video"`
	Audio Capability `json:"supports_audio"`
}

// Capability dictionary keys, shared by the cache file and profile files.
const (
	KeySupportsText  = "supports_text"
	KeySupportsImage = "supports_image"
	KeySupportsVideo = "supports_video"
	KeySupportsAudio = "supports_audio"
)

// FallbackCapabilities is the final safe default: text only.
var FallbackCapabilities = ModelCapabilities{
	Text:  CapabilitySupported,
	Image: CapabilityUnsupported,
	Video: CapabilityUnsupported,
	Audio: CapabilityUnsupported,
}

// Merge combines c with other value by value, preferring c's known values.
func (c ModelCapabilities) Merge(other ModelCapabilities) ModelCapabilities {
	return ModelCapabilities{
		Text:  c.Text.Or(other.Text),
		Image: c.Image.Or(other.Image),
		Video: c.Video.Or(other.Video),
		Audio: c.Audio.Or(other.Audio),
	}
}

// WithDefaults resolves remaining unknowns: text to supported, the rest to unsupported.
func (c ModelCapabilities) WithDefaults() ModelCapabilities {
	return c.Merge(FallbackCapabilities)
}

// Complete reports whether all four flags are known.
func (c ModelCapabilities) Complete() bool {
	return c.Text.Known() && c.Image.Known() && c.Video.Known() && c.Audio.Known()
}

// IsZero reports whether every flag is unknown.
func (c ModelCapabilities) IsZero() bool {
	return c == ModelCapabilities{}
}

// AsMap returns the dictionary form: each key maps to true, false, or nil.
func (c ModelCapabilities) AsMap() map[string]any {
	return map[string]any{
		KeySupportsText:  boolOrNil(c.Text),
		KeySupportsImage: boolOrNil(c.Image),
		KeySupportsVideo: boolOrNil(c.Video),
		KeySupportsAudio: boolOrNil(c.Audio),
	}
}

// CapabilitiesFromMap is the inverse of AsMap. Missing keys and values that
// are neither booleans nor nil are unknown.
func CapabilitiesFromMap(m map[string]any) ModelCapabilities {
	return ModelCapabilities{
		Text:  capabilityFromAny(m[KeySupportsText]),
		Image: capabilityFromAny(m[KeySupportsImage]),
		Video: capabilityFromAny(m[KeySupportsVideo]),
		Audio: capabilityFromAny(m[KeySupportsAudio]),
	}
}

func boolOrNil(c Capability) any {
	switch c {
	case CapabilitySupported:
		return true
	case CapabilityUnsupported:
		return false
	}
	return nil
}

func capabilityFromAny(v any) Capability {
	switch b := v.(type) {
	case bool:
		return FromBool(b)
	case *bool:
		return CapabilityOf(b)
	}
	return CapabilityUnknown
}
