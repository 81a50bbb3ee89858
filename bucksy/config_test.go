package bucksy

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "defaults fill missing sections",
			body: `
[bot]
token = "file-token"
`,
			check: func(t *testing.T, cfg *Config) {
				if cfg.Bot.Token != "file-token" {
					t.Errorf("Bot.Token = %q, want file-token", cfg.Bot.Token)
				}
				if !reflect.DeepEqual(cfg.Bot.Prefixes, []string{"!"}) {
					t.Errorf("Bot.Prefixes = %v, want [!]", cfg.Bot.Prefixes)
				}
				if cfg.QOTD.Timezone != "America/New_York" {
					t.Errorf("QOTD.Timezone = %q", cfg.QOTD.Timezone)
				}
				if cfg.WTP.RevealAfter != 300 {
					t.Errorf("WTP.RevealAfter = %d, want 300", cfg.WTP.RevealAfter)
				}
			},
		},
		{
			name: "environment overrides file",
			body: `
[bot]
token = "file-token"
prefixes = ["!", "?"]

[db]
uri = "mongodb://file:27017"
`,
			env: map[string]string{
				"BUCKSY_TOKEN":     "env-token",
				"BUCKSY_MONGO_URI": "mongodb://env:27017",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Bot.Token != "env-token" {
					t.Errorf("Bot.Token = %q, want env-token", cfg.Bot.Token)
				}
				if cfg.DB.URI != "mongodb://env:27017" {
					t.Errorf("DB.URI = %q, want env override", cfg.DB.URI)
				}
				if !reflect.DeepEqual(cfg.Bot.Prefixes, []string{"!", "?"}) {
					t.Errorf("Bot.Prefixes = %v", cfg.Bot.Prefixes)
				}
			},
		},
		{
			name:    "missing token",
			body:    `[log]`,
			wantErr: true,
		},
		{
			name: "bad timezone",
			body: `
[bot]
token = "t"

[qotd]
timezone = "Mars/Olympus"
`,
			wantErr: true,
		},
		{
			name:    "malformed toml",
			body:    `[bot`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig(writeConfig(t, tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("LoadConfig() error = nil, want error for missing file")
	}
}
