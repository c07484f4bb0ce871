package twicebot

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
	"github.com/twicebot/twicebot/internal/domain/wordle"
	"github.com/twicebot/twicebot/internal/gateways/database"
	"github.com/twicebot/twicebot/twicebot/api"
)

const (
	DefaultTimezone     = "Pacific/Kiritimati"
	DefaultDailyCron    = "0 0 0 * * *"
	DefaultReminderCron = "0 0 12 * * 1"
	// Runs after the daily tick so the new period start never passes the current round.
	DefaultRolloverCron = "30 0 0 * * 2"
	DefaultPresenceCron = "0 * * * * *"
	DefaultLinkTemplate = "https://minactle.herokuapp.com/?%d"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log      LogConfig            `toml:"log"`
	Bot      BotConfig            `toml:"bot"`
	Mongo    database.MongoConfig `toml:"mongo"`
	DB       database.DBConfig    `toml:"db"`
	Spaces   SpacesConfig         `toml:"spaces"`
	Wordle   WordleConfig         `toml:"wordle"`
	Tenor    TenorConfig          `toml:"tenor"`
	Presence PresenceConfig       `toml:"presence"`
	API      api.Config           `toml:"api"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	AdminIDs  []snowflake.ID `toml:"admin_ids"`
	Token     string         `toml:"token"`
}

func (c BotConfig) IsAdmin(id snowflake.ID) bool {
	for _, admin := range c.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

type LogConfig struct {
	Level   slog.Level `toml:"level"`
	NoColor bool       `toml:"no_color"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Root   string `toml:"root"`
}

func (c SpacesConfig) Enabled() bool {
	return c.Key != "" && c.Secret != "" && c.Bucket != ""
}

type WordleConfig struct {
	ChannelID        snowflake.ID `toml:"channel_id"`
	GameNames        []string     `toml:"game_names"`
	Points           []int        `toml:"points"`
	HardModeBonus    *int         `toml:"hard_mode_bonus"`
	WindowSize       int          `toml:"window_size"`
	Timezone         string       `toml:"timezone"`
	DailyCron        string       `toml:"daily_cron"`
	ReminderCron     string       `toml:"reminder_cron"`
	RolloverCron     string       `toml:"rollover_cron"`
	ReactionEmojis   []string     `toml:"reaction_emojis"`
	LinkTemplate     string       `toml:"link_template"`
	WriteConcurrency int          `toml:"write_concurrency"`
	RenderImages     bool         `toml:"render_images"`
	QueryTimeout     Duration     `toml:"query_timeout"`
}

// Policy builds the scoring policy, falling back to the defaults per field.
func (c WordleConfig) Policy() wordle.ScoringPolicy {
	policy := wordle.DefaultScoringPolicy()
	if len(c.Points) > 0 {
		policy.Points = c.Points
	}
	if c.HardModeBonus != nil {
		policy.HardModeBonus = *c.HardModeBonus
	}
	if c.WindowSize > 0 {
		policy.WindowSize = c.WindowSize
	}
	return policy
}

func (c WordleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

type TenorConfig struct {
	APIKey    string   `toml:"api_key"`
	ClientKey string   `toml:"client_key"`
	Limit     int      `toml:"limit"`
	CacheSize int      `toml:"cache_size"`
	Terms     []string `toml:"terms"`
}

type PresenceConfig struct {
	Songs []string `toml:"songs"`
	Cron  string   `toml:"cron"`
}

// Duration decodes TOML strings such as "15s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (c *Config) applyDefaults() {
	w := &c.Wordle
	if len(w.GameNames) == 0 {
		w.GameNames = wordle.DefaultGameNames
	}
	if w.Timezone == "" {
		w.Timezone = DefaultTimezone
	}
	if w.DailyCron == "" {
		w.DailyCron = DefaultDailyCron
	}
	if w.ReminderCron == "" {
		w.ReminderCron = DefaultReminderCron
	}
	if w.RolloverCron == "" {
		w.RolloverCron = DefaultRolloverCron
	}
	if w.LinkTemplate == "" {
		w.LinkTemplate = DefaultLinkTemplate
	}
	if len(w.ReactionEmojis) == 0 {
		w.ReactionEmojis = []string{"🎉", "🔥", "👏", "💯", "🍭", "🍩", "🐧"}
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "twicebot"
	}
	if c.Tenor.Limit <= 0 {
		c.Tenor.Limit = 20
	}
	if c.Tenor.CacheSize <= 0 {
		c.Tenor.CacheSize = 128
	}
	if c.Presence.Cron == "" {
		c.Presence.Cron = DefaultPresenceCron
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("bot.token is required"))
	}
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri is required"))
	}
	if c.Wordle.ChannelID == 0 {
		errs = append(errs, errors.New("wordle.channel_id is required"))
	}
	if err := c.Wordle.Policy().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Wordle.Location(); err != nil {
		errs = append(errs, fmt.Errorf("wordle.timezone: %w", err))
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, spec := range map[string]string{
		"wordle.daily_cron":    c.Wordle.DailyCron,
		"wordle.reminder_cron": c.Wordle.ReminderCron,
		"wordle.rollover_cron": c.Wordle.RolloverCron,
		"presence.cron":        c.Presence.Cron,
	} {
		if _, err := parser.Parse(spec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
