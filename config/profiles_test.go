package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lab "github.com/BrenchCC/LLM-Lab"
)

const sampleProfiles = `
default_profile: ark
profiles:
  ark:
    base_url: https://ark.example.com/api/v3
    api_key_env: ARK_API_KEY
    default_model: doubao-seed
    model_aliases:
      doubao-seed: ep-001
    timeout_seconds: 30
    enable_deep_thinking: true
    max_retries: 2
    capabilities:
      supports_image: true
      supports_video: false
  claude:
    api: anthropic
    base_url: https://api.anthropic.com
    api_key_env: ANTHROPIC_API_KEY
    default_model: claude-sonnet
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProfiles(t *testing.T) {
	reg, err := LoadProfiles(writeProfiles(t, sampleProfiles))
	require.NoError(t, err)

	assert.Equal(t, "ark", reg.DefaultProfile)
	assert.Equal(t, []string{"ark", "claude"}, reg.IDs())

	ark, err := reg.Profile("")
	require.NoError(t, err)
	assert.Equal(t, "ark", ark.ID)
	assert.Equal(t, lab.APIOpenAI, ark.API)
	assert.Equal(t, 30*time.Second, ark.Timeout)
	assert.Equal(t, "ep-001", ark.ResolveRequestModel("doubao-seed"))
	assert.True(t, ark.EnableDeepThinking)
	assert.Equal(t, 2, ark.MaxRetries)
	assert.True(t, ark.Capabilities.Image.Supported())
	assert.True(t, ark.Capabilities.Video.Known())
	assert.False(t, ark.Capabilities.Video.Supported())

	claude, err := reg.Profile("claude")
	require.NoError(t, err)
	assert.Equal(t, lab.APIAnthropic, claude.API)
	assert.Equal(t, lab.DefaultTimeout, claude.Timeout)
	assert.False(t, claude.Capabilities.Image.Known())
}

func TestLoadProfilesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing profiles section",
			content: "default_profile: ark\n",
			errMsg:  "`profiles` section is missing or empty",
		},
		{
			name:    "empty profiles section",
			content: "profiles: {}\n",
			errMsg:  "`profiles` section is missing or empty",
		},
		{
			name:    "missing required fields",
			content: "profiles:\n  bad:\n    base_url: https://x\n",
			errMsg:  "profile `bad` missing required fields: api_key_env, default_model",
		},
		{
			name:    "unknown default profile",
			content: "default_profile: nope\nprofiles:\n  a:\n    base_url: https://x\n    api_key_env: K\n    default_model: m\n",
			errMsg:  "default_profile `nope` is not found in profiles",
		},
		{
			name:    "unknown api",
			content: "profiles:\n  a:\n    api: cohere\n    base_url: https://x\n    api_key_env: K\n    default_model: m\n",
			errMsg:  "unknown api",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProfiles(writeProfiles(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "profiles file not found")
	})
}

func TestParseProfilesDefaultsToFirst(t *testing.T) {
	reg, err := ParseProfiles([]byte("profiles:\n  zeta:\n    base_url: https://z\n    api_key_env: Z\n    default_model: z1\n  alpha:\n    base_url: https://a\n    api_key_env: A\n    default_model: a1\n"))
	require.NoError(t, err)
	assert.Equal(t, "zeta", reg.DefaultProfile)
	assert.Equal(t, []string{"zeta", "alpha"}, reg.IDs())
	assert.Equal(t, []string{"alpha", "zeta"}, reg.SortedIDs())
}

func TestResolveProfile(t *testing.T) {
	reg, err := ParseProfiles([]byte(sampleProfiles))
	require.NoError(t, err)

	t.Run("explicit wins over env", func(t *testing.T) {
		t.Setenv(EnvProfile, "ark")
		p, err := ResolveProfile(reg, "claude")
		require.NoError(t, err)
		assert.Equal(t, "claude", p.ID)
	})

	t.Run("env wins over default", func(t *testing.T) {
		t.Setenv(EnvProfile, "claude")
		p, err := ResolveProfile(reg, "")
		require.NoError(t, err)
		assert.Equal(t, "claude", p.ID)
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv(EnvProfile, "")
		p, err := ResolveProfile(reg, "")
		require.NoError(t, err)
		assert.Equal(t, "ark", p.ID)
	})

	t.Run("unknown lists available", func(t *testing.T) {
		_, err := ResolveProfile(reg, "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, lab.ErrProfileNotFound))
		assert.Contains(t, err.Error(), "ark, claude")
	})
}

func TestResolveModel(t *testing.T) {
	profile := lab.ProviderProfile{ID: "ark", DefaultModel: "doubao-seed"}

	tests := []struct {
		name        string
		explicit    string
		env         string
		preferDef   bool
		expected    string
		expectError bool
	}{
		{name: "explicit", explicit: "cli-model", env: "env-model", expected: "cli-model"},
		{name: "env over default", env: "env-model", expected: "env-model"},
		{name: "profile default when profile explicit", env: "env-model", preferDef: true, expected: "doubao-seed"},
		{name: "profile default", expected: "doubao-seed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvModel, tt.env)
			model, err := ResolveModel(profile, tt.explicit, tt.preferDef)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, model)
		})
	}

	t.Run("nothing resolves", func(t *testing.T) {
		t.Setenv(EnvModel, "")
		_, err := ResolveModel(lab.ProviderProfile{ID: "empty"}, "", false)
		assert.Error(t, err)
	})
}

func TestResolveAPIKey(t *testing.T) {
	profile := lab.ProviderProfile{ID: "ark", APIKeyEnv: "LLM_LAB_TEST_KEY"}

	t.Run("override", func(t *testing.T) {
		t.Setenv("LLM_LAB_TEST_KEY", "from-env")
		key, err := ResolveAPIKey(profile, "from-flag")
		require.NoError(t, err)
		assert.Equal(t, "from-flag", key)
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("LLM_LAB_TEST_KEY", "from-env")
		key, err := ResolveAPIKey(profile, "")
		require.NoError(t, err)
		assert.Equal(t, "from-env", key)
	})

	t.Run("missing", func(t *testing.T) {
		t.Setenv("LLM_LAB_TEST_KEY", "")
		_, err := ResolveAPIKey(profile, "")
		var missing *lab.ErrMissingAPIKey
		require.True(t, errors.As(err, &missing))
		assert.Equal(t, "LLM_LAB_TEST_KEY", missing.EnvVar)
	})
}

func TestResolveProfilesPath(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		t.Setenv(EnvProfilesPath, "/env/profiles.yaml")
		assert.Equal(t, "/cli/profiles.yaml", ResolveProfilesPath("/cli/profiles.yaml"))
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv(EnvProfilesPath, "/env/profiles.yaml")
		assert.Equal(t, "/env/profiles.yaml", ResolveProfilesPath(""))
	})

	t.Run("falls back to example", func(t *testing.T) {
		t.Setenv(EnvProfilesPath, "")
		t.Chdir(t.TempDir())
		assert.Equal(t, ExampleProfilesPath, ResolveProfilesPath(""))
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LLM_LAB_ENV_A=from-file\nLLM_LAB_ENV_B=from-file\n"), 0o644))

	t.Setenv("LLM_LAB_ENV_A", "preset")
	t.Setenv("LLM_LAB_ENV_B", "")
	os.Unsetenv("LLM_LAB_ENV_B")

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "preset", os.Getenv("LLM_LAB_ENV_A"))
	assert.Equal(t, "from-file", os.Getenv("LLM_LAB_ENV_B"))

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestExampleProfilesParse(t *testing.T) {
	reg, err := LoadProfiles("profiles.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, "openai", reg.DefaultProfile)

	claude, err := reg.Profile("claude")
	require.NoError(t, err)
	assert.Equal(t, lab.APIAnthropic, claude.API)

	openai, err := reg.Profile("openai")
	require.NoError(t, err)
	assert.True(t, openai.Capabilities.Complete())
}
