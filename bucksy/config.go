package bucksy

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// LoadConfig reads the TOML file at path, then lets .env and BUCKSY_*
// environment variables override secrets and connection settings.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	cfg := DefaultConfig()
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err = godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err = env.ParseWithOptions(&cfg, env.Options{Prefix: "BUCKSY_"}); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig is the baseline every loaded file is decoded over.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Level: slog.LevelInfo},
		Bot: BotConfig{
			Name:            "Bucksy",
			Prefixes:        []string{"!"},
			DefaultCooldown: 3,
		},
		DB: DBConfig{
			URI:      "mongodb://localhost:27017",
			Database: "bucksy",
			PoolSize: 10,
		},
		Economy: EconomyConfig{
			StartingPoints: 10,
			Currency:       "PokeCoins",
			SpinCooldown:   5,
		},
		QOTD: QOTDConfig{
			Schedule: "0 0 8 * * *",
			Timezone: "America/New_York",
			Source:   "reddit",
			URL:      "https://www.reddit.com/r/AskReddit/top.json?limit=25&t=day",
		},
		WTP: WTPConfig{
			Schedule:      "0 0 12 * * *",
			RevealAfter:   300,
			Reward:        100,
			MaxPokemonID:  898,
			Message:       "Who's that Pokémon?",
			PokeAPIURL:    "https://pokeapi.co/api/v2",
			CacheSize:     128,
			SilhouetteDir: "wtp",
		},
		API: APIConfig{
			Address:       ":3000",
			SessionTTL:    24,
			RatePerMinute: 60,
		},
	}
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	Bot      BotConfig      `toml:"bot"`
	DB       DBConfig       `toml:"db"`
	Channels ChannelsConfig `toml:"channels"`
	Roles    RolesConfig    `toml:"roles"`
	Economy  EconomyConfig  `toml:"economy"`
	QOTD     QOTDConfig     `toml:"qotd"`
	WTP      WTPConfig      `toml:"wtp"`
	Spaces   SpacesConfig   `toml:"spaces"`
	API      APIConfig      `toml:"api"`
}

type LogConfig struct {
	Level slog.Level `toml:"level" env:"LOG_LEVEL"`
}

type BotConfig struct {
	Name            string         `toml:"name"`
	Token           string         `toml:"token" env:"TOKEN"`
	GuildID         snowflake.ID   `toml:"guild_id" env:"GUILD_ID"`
	DevGuilds       []snowflake.ID `toml:"dev_guilds"`
	Prefixes        []string       `toml:"prefixes"`
	DefaultCooldown int            `toml:"default_cooldown"`
	Emoji           string         `toml:"currency_emoji"`
}

type DBConfig struct {
	URI      string `toml:"uri" env:"MONGO_URI"`
	Database string `toml:"database" env:"MONGO_DATABASE"`
	PoolSize int    `toml:"pool_size"`
}

// Channel pairs a channel ID with the name shown in rejection messages.
type Channel struct {
	ID   snowflake.ID `toml:"id"`
	Name string       `toml:"name"`
}

type ChannelsConfig struct {
	Admin   Channel `toml:"admin"`
	QOTD    Channel `toml:"qotd"`
	Slots   Channel `toml:"slots"`
	Guess   Channel `toml:"guess"`
	Welcome Channel `toml:"welcome"`
	// Rares is where the spawn bot posts; rare spawns get an alert there.
	Rares Channel `toml:"rares"`
	// PvP is left to battle bots; chat commands are ignored there.
	PvP Channel `toml:"pvp"`
}

type RolesConfig struct {
	Mod   []string `toml:"mod"`
	Teams []string `toml:"teams"`
}

type EconomyConfig struct {
	StartingPoints int64  `toml:"starting_points"`
	Currency       string `toml:"currency"`
	SpinCooldown   int    `toml:"spin_cooldown"`
}

type QOTDConfig struct {
	Schedule string `toml:"schedule"`
	Timezone string `toml:"timezone"`
	// Source is "reddit" for the JSON listing or "scrape" for a headless browser.
	Source string `toml:"source"`
	URL    string `toml:"url"`
}

type WTPConfig struct {
	Schedule      string `toml:"schedule"`
	RevealAfter   int    `toml:"reveal_after"`
	Reward        int64  `toml:"reward"`
	MaxPokemonID  int    `toml:"max_pokemon_id"`
	Message       string `toml:"message"`
	PokeAPIURL    string `toml:"pokeapi_url"`
	CacheSize     int    `toml:"cache_size"`
	SilhouetteDir string `toml:"silhouette_dir"`
}

type SpacesConfig struct {
	Key    string `toml:"key" env:"SPACES_KEY"`
	Secret string `toml:"secret" env:"SPACES_SECRET"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
}

// Enabled reports whether silhouettes should be uploaded instead of attached.
func (s SpacesConfig) Enabled() bool {
	return s.Key != "" && s.Secret != "" && s.Bucket != "" && s.Region != ""
}

type APIConfig struct {
	Address       string   `toml:"address" env:"API_ADDRESS"`
	SessionSecret string   `toml:"session_secret" env:"SESSION_SECRET"`
	SessionTTL    int      `toml:"session_ttl_hours"`
	RatePerMinute int      `toml:"rate_per_minute"`
	AllowOrigins  []string `toml:"allow_origins"`
	SecureCookies bool     `toml:"secure_cookies"`
	// TrustedProxies lists proxy addresses allowed to set X-Forwarded-For.
	TrustedProxies []string `toml:"trusted_proxies"`
}

func (c Config) Validate() error {
	var problems []string
	if c.Bot.Token == "" {
		problems = append(problems, "bot.token is required")
	}
	if len(c.Bot.Prefixes) == 0 {
		problems = append(problems, "bot.prefixes must not be empty")
	}
	if c.DB.URI == "" || c.DB.Database == "" {
		problems = append(problems, "db.uri and db.database are required")
	}
	if _, err := time.LoadLocation(c.QOTD.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("qotd.timezone %q is invalid", c.QOTD.Timezone))
	}
	if c.QOTD.Source != "reddit" && c.QOTD.Source != "scrape" {
		problems = append(problems, fmt.Sprintf("qotd.source %q must be reddit or scrape", c.QOTD.Source))
	}
	if c.WTP.MaxPokemonID < 1 {
		problems = append(problems, "wtp.max_pokemon_id must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location is the timezone the schedules run in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.QOTD.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
