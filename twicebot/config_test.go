package twicebot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "token"
admin_ids = [123]

[mongo]
uri = "mongodb://localhost:27017"

[wordle]
channel_id = 456
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultTimezone, cfg.Wordle.Timezone)
	assert.Equal(t, DefaultRolloverCron, cfg.Wordle.RolloverCron)
	assert.Equal(t, []string{"Wordle", "Minactle"}, cfg.Wordle.GameNames)
	assert.Equal(t, "twicebot", cfg.Mongo.Database)
	assert.Equal(t, snowflake.ID(456), cfg.Wordle.ChannelID)
	assert.True(t, cfg.Bot.IsAdmin(123))
	assert.False(t, cfg.Bot.IsAdmin(1))
	assert.False(t, cfg.DB.Enabled())
	assert.False(t, cfg.Spaces.Enabled())

	policy := cfg.Wordle.Policy()
	assert.Equal(t, 1, policy.HardModeBonus)
	assert.Equal(t, 7, policy.WindowSize)
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "token"

[mongo]
uri = "mongodb://localhost:27017"

[wordle]
channel_id = 1
hard_mode_bonus = 0
window_size = 5
timezone = "UTC"
query_timeout = "3s"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Wordle.Policy().HardModeBonus)
	assert.Equal(t, 5, cfg.Wordle.Policy().WindowSize)
	assert.Equal(t, 3*time.Second, cfg.Wordle.QueryTimeout.Duration)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing token", mutate: func(c *Config) { c.Bot.Token = "" }, wantErr: true},
		{name: "missing channel", mutate: func(c *Config) { c.Wordle.ChannelID = 0 }, wantErr: true},
		{name: "bad timezone", mutate: func(c *Config) { c.Wordle.Timezone = "Mars/Olympus" }, wantErr: true},
		{name: "bad cron", mutate: func(c *Config) { c.Wordle.DailyCron = "every day" }, wantErr: true},
		{name: "bad points", mutate: func(c *Config) { c.Wordle.Points = []int{1, 2, 3, 4, 5, 6, 7} }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Bot.Token = "token"
			cfg.Mongo.URI = "mongodb://localhost"
			cfg.Wordle.ChannelID = 1
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
