package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	lab "github.com/BrenchCC/LLM-Lab"
)

// Environment variables consulted by the resolvers.
const (
	EnvProfilesPath = "LLM_LAB_PROFILES_PATH"
	EnvProfile      = "LLM_LAB_PROFILE"
	EnvModel        = "LLM_LAB_MODEL"
)

// Profile file locations tried when no path is given.
const (
	DefaultProfilesPath = "config/profiles.yaml"
	ExampleProfilesPath = "config/profiles.example.yaml"
)

var requiredKeys = []string{"base_url", "api_key_env", "default_model"}

// Registry holds the configured profiles in file order.
type Registry struct {
	// DefaultProfile is used when no profile is selected.
	DefaultProfile string

	profiles map[string]lab.ProviderProfile
	order    []string
}

// Profile returns the profile with the given id. An empty id selects the
// default profile.
func (r *Registry) Profile(id string) (lab.ProviderProfile, error) {
	if id == "" {
		id = r.DefaultProfile
	}
	p, ok := r.profiles[id]
	if !ok {
		return lab.ProviderProfile{}, fmt.Errorf("%w: %q (available: %s)", lab.ErrProfileNotFound, id, strings.Join(r.SortedIDs(), ", "))
	}
	return p, nil
}

// IDs returns the profile ids in file order.
func (r *Registry) IDs() []string {
	return slices.Clone(r.order)
}

// SortedIDs returns the profile ids sorted.
func (r *Registry) SortedIDs() []string {
	return slices.Sorted(slices.Values(r.order))
}

type fileConfig struct {
	DefaultProfile string    `yaml:"default_profile"`
	Profiles       yaml.Node `yaml:"profiles"`
}

type profileConfig struct {
	BaseURL            string            `yaml:"base_url"`
	APIKeyEnv          string            `yaml:"api_key_env"`
	DefaultModel       string            `yaml:"default_model"`
	ModelAliases       map[string]string `yaml:"model_aliases"`
	TimeoutSeconds     *float64          `yaml:"timeout_seconds"`
	Capabilities       map[string]any    `yaml:"capabilities"`
	EnableDeepThinking bool              `yaml:"enable_deep_thinking"`
	API                string            `yaml:"api"`
	MaxRetries         int               `yaml:"max_retries"`
}

// LoadProfiles reads and validates a profiles YAML file.
func LoadProfiles(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("profiles file not found: %s", path)
		}
		return nil, fmt.Errorf("read profiles %s: %w", path, err)
	}
	reg, err := ParseProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// ParseProfiles parses profiles YAML. The profiles section must be a
// non-empty mapping and each profile needs base_url, api_key_env and
// default_model. Without default_profile the first profile is the default.
func ParseProfiles(data []byte) (*Registry, error) {
	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	if raw.Profiles.Kind != yaml.MappingNode || len(raw.Profiles.Content) == 0 {
		return nil, errors.New("`profiles` section is missing or empty")
	}

	reg := &Registry{profiles: make(map[string]lab.ProviderProfile)}
	for i := 0; i+1 < len(raw.Profiles.Content); i += 2 {
		id := raw.Profiles.Content[i].Value
		node := raw.Profiles.Content[i+1]

		if missing := missingKeys(node); len(missing) > 0 {
			return nil, fmt.Errorf("profile `%s` missing required fields: %s", id, strings.Join(missing, ", "))
		}
		var pc profileConfig
		if err := node.Decode(&pc); err != nil {
			return nil, fmt.Errorf("profile `%s`: %w", id, err)
		}
		profile, err := pc.toProfile(id)
		if err != nil {
			return nil, err
		}
		if _, dup := reg.profiles[id]; !dup {
			reg.order = append(reg.order, id)
		}
		reg.profiles[id] = profile
	}

	reg.DefaultProfile = raw.DefaultProfile
	if reg.DefaultProfile == "" {
		reg.DefaultProfile = reg.order[0]
	}
	if _, ok := reg.profiles[reg.DefaultProfile]; !ok {
		return nil, fmt.Errorf("default_profile `%s` is not found in profiles", reg.DefaultProfile)
	}
	return reg, nil
}

func missingKeys(node *yaml.Node) []string {
	present := make(map[string]bool)
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			present[node.Content[i].Value] = true
		}
	}
	var missing []string
	for _, key := range requiredKeys {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	return missing
}

func (pc profileConfig) toProfile(id string) (lab.ProviderProfile, error) {
	api := lab.API(strings.ToLower(strings.TrimSpace(pc.API)))
	if api == "" {
		api = lab.APIOpenAI
	}
	if !api.Valid() {
		return lab.ProviderProfile{}, fmt.Errorf("profile `%s`: unknown api %q", id, pc.API)
	}

	timeout := lab.DefaultTimeout
	if pc.TimeoutSeconds != nil {
		timeout = time.Duration(*pc.TimeoutSeconds * float64(time.Second))
	}

	return lab.ProviderProfile{
		ID:                 id,
		API:                api,
		BaseURL:            pc.BaseURL,
		APIKeyEnv:          pc.APIKeyEnv,
		DefaultModel:       pc.DefaultModel,
		ModelAliases:       pc.ModelAliases,
		Timeout:            timeout,
		Capabilities:       lab.CapabilitiesFromMap(pc.Capabilities),
		EnableDeepThinking: pc.EnableDeepThinking,
		MaxRetries:         max(pc.MaxRetries, 0),
	}, nil
}
