package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "file" {
		t.Errorf("Storage.Backend = %q, want file", cfg.Storage.Backend)
	}
	if cfg.Generation.MaxAttempts != 3 || cfg.Generation.Concurrency != 4 {
		t.Errorf("Generation = %+v", cfg.Generation)
	}
	if cfg.AI.Google.Model != "gemini-2.5-flash" {
		t.Errorf("Google.Model = %q", cfg.AI.Google.Model)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EXAMGEN_SERVER_PORT", "9000")
	t.Setenv("EXAMGEN_STORAGE_BACKEND", "postgres")
	t.Setenv("EXAMGEN_AI_OLLAMA_ENABLED", "true")
	t.Setenv("EXAMGEN_GENERATION_MAX_QUESTIONS", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "postgres" {
		t.Errorf("Storage.Backend = %q, want postgres", cfg.Storage.Backend)
	}
	if !cfg.AI.Ollama.Enabled {
		t.Error("Ollama.Enabled = false, want true")
	}
	if cfg.Generation.MaxQuestions != 25 {
		t.Errorf("MaxQuestions = %d, want 25", cfg.Generation.MaxQuestions)
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("EXAMGEN_SERVER_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default on bad value", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid with google key",
			mutate: func(c *Config) { c.AI.Google.APIKey = "key" },
		},
		{
			name:   "valid with ollama",
			mutate: func(c *Config) { c.AI.Ollama.Enabled = true },
		},
		{
			name:    "no provider",
			mutate:  func(c *Config) {},
			wantErr: true,
		},
		{
			name: "bad backend",
			mutate: func(c *Config) {
				c.AI.Google.APIKey = "key"
				c.Storage.Backend = "tape"
			},
			wantErr: true,
		},
		{
			name: "file backend without dir",
			mutate: func(c *Config) {
				c.AI.Google.APIKey = "key"
				c.Storage.Dir = ""
			},
			wantErr: true,
		},
		{
			name: "zero question cap",
			mutate: func(c *Config) {
				c.AI.Google.APIKey = "key"
				c.Generation.MaxQuestions = 0
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasAIProvider(t *testing.T) {
	cfg := &Config{}
	if cfg.HasAIProvider() {
		t.Error("HasAIProvider() = true for empty config")
	}
	cfg.AI.Google.APIKey = "key"
	if !cfg.HasAIProvider() {
		t.Error("HasAIProvider() = false with google key")
	}
}
