package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/jask/mmmmm/internal/app"
	"github.com/jask/mmmmm/internal/ssb"
)

// Config holds application configuration.
type Config struct {
	Identity IdentityConfig `mapstructure:"identity"`
	Database DatabaseConfig `mapstructure:"database"`
	Network  NetworkConfig  `mapstructure:"network"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
}

// IdentityConfig names the local feed. FeedID wins over Name; Name seeds a
// derived id when no FeedID is set.
type IdentityConfig struct {
	Name   string `mapstructure:"name"`
	FeedID string `mapstructure:"feed_id"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// NetworkConfig tunes the local network driver.
type NetworkConfig struct {
	Replay int `mapstructure:"replay"`
	Buffer int `mapstructure:"buffer"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Banner     string `mapstructure:"banner"`
	ShowBanner bool   `mapstructure:"show_banner"`
}

// LogConfig holds logging settings. An empty Path disables logging, since
// stdout belongs to the terminal UI.
type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

// Self returns the local feed id.
func (c Config) Self() ssb.FeedID {
	if c.Identity.FeedID != "" {
		return ssb.FeedID(c.Identity.FeedID)
	}
	return ssb.DeriveFeedID(c.Identity.Name)
}

// Banner returns the overlay text, empty when the banner is off.
func (c Config) Banner() string {
	if !c.UI.ShowBanner {
		return ""
	}
	return c.UI.Banner
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if id := c.Identity.FeedID; id != "" && !strings.HasPrefix(id, "@") {
		return fmt.Errorf("identity.feed_id %q: must start with @", id)
	}
	if c.Identity.FeedID == "" && c.Identity.Name == "" {
		return errors.New("identity: set name or feed_id")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is empty")
	}
	if c.Network.Replay < 0 {
		return fmt.Errorf("network.replay %d: must not be negative", c.Network.Replay)
	}
	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("log.level: %w", err)
		}
	}
	return nil
}

// DefaultPath is where Load looks for a config file when none is given.
func DefaultPath() string {
	if p := os.Getenv("MMMMM_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "mmmmm", "config.toml")
}

func defaults(v *viper.Viper) {
	user := os.Getenv("USER")
	if user == "" {
		user = "mmmmm"
	}
	v.SetDefault("identity.name", user)
	v.SetDefault("identity.feed_id", "")
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "mmmmm", "mmmmm.db"))
	v.SetDefault("network.replay", 200)
	v.SetDefault("network.buffer", 64)
	v.SetDefault("ui.banner", app.DefaultBanner)
	v.SetDefault("ui.show_banner", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.path", "")
}

// Default returns the configuration used when no file or environment
// override is present.
func Default() (Config, error) {
	v := viper.New()
	defaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Load reads configuration from path, or from DefaultPath when path is
// empty, then applies env overrides with prefix MMMMM_. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	v := viper.New()
	defaults(v)

	v.SetConfigType("toml")
	explicit := path != "" || os.Getenv("MMMMM_CONFIG") != ""
	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("MMMMM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !(errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg to path, or to DefaultPath when path is empty, creating
// the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("identity.name", cfg.Identity.Name)
	v.Set("identity.feed_id", cfg.Identity.FeedID)
	v.Set("database.path", cfg.Database.Path)
	v.Set("network.replay", cfg.Network.Replay)
	v.Set("network.buffer", cfg.Network.Buffer)
	v.Set("ui.banner", cfg.UI.Banner)
	v.Set("ui.show_banner", cfg.UI.ShowBanner)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.path", cfg.Log.Path)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
