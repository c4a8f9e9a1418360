package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	lab "github.com/BrenchCC/LLM-Lab"
)

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ResolveProfilesPath picks the profiles file: the explicit path, then
// LLM_LAB_PROFILES_PATH, then config/profiles.yaml if it exists, else the
// bundled example.
func ResolveProfilesPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvProfilesPath); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultProfilesPath); err == nil {
		return DefaultProfilesPath
	}
	return ExampleProfilesPath
}

// ResolveProfile selects the explicit profile id, then LLM_LAB_PROFILE, then
// the registry default.
func ResolveProfile(reg *Registry, explicit string) (lab.ProviderProfile, error) {
	id := explicit
	if id == "" {
		id = os.Getenv(EnvProfile)
	}
	return reg.Profile(id)
}

// ResolveModel selects the display model. An explicit name wins. Otherwise
// LLM_LAB_MODEL is preferred over the profile default, unless
// preferProfileDefault is set (typically because the profile itself was
// chosen explicitly).
func ResolveModel(profile lab.ProviderProfile, explicit string, preferProfileDefault bool) (string, error) {
	model := explicit
	if model == "" {
		env := os.Getenv(EnvModel)
		if preferProfileDefault {
			model = firstNonEmpty(profile.DefaultModel, env)
		} else {
			model = firstNonEmpty(env, profile.DefaultModel)
		}
	}
	if model == "" {
		return "", fmt.Errorf("no model resolved for profile `%s`", profile.ID)
	}
	return model, nil
}

// ResolveAPIKey returns override when set, else the value of the profile's
// API key variable.
func ResolveAPIKey(profile lab.ProviderProfile, override string) (string, error) {
	key := firstNonEmpty(override, os.Getenv(profile.APIKeyEnv))
	if key == "" {
		return "", &lab.ErrMissingAPIKey{Profile: profile.ID, EnvVar: profile.APIKeyEnv}
	}
	return key, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
