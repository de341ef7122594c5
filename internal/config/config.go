package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/model"
)

type Config struct {
	DBPath              string `json:"db_path"`
	WebEnabled          bool   `json:"web_enabled"`
	WebPort             int    `json:"web_port"`
	FocusMinutes        int    `json:"focus_minutes"`
	BreakMinutes        int    `json:"break_minutes"`
	AutoStartBreaks     bool   `json:"auto_start_breaks"`
	ReminderPollSeconds int    `json:"reminder_poll_seconds"`
	RulesPath           string `json:"rules_path"`
	LogPath             string `json:"log_path"`
}

// Rules is the site-blocking rules file.
type Rules struct {
	DistractingSites []string `yaml:"distracting_sites"`
}

func Default() Config {
	return Config{
		WebPort:             8080,
		FocusMinutes:        25,
		BreakMinutes:        5,
		ReminderPollSeconds: 30,
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "focuspal", "config.json"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Settings seeds the stored user settings from the config file.
func (c Config) Settings() model.Settings {
	settings := model.DefaultSettings()
	if c.FocusMinutes > 0 {
		settings.FocusMinutes = c.FocusMinutes
	}
	if c.BreakMinutes > 0 {
		settings.BreakMinutes = c.BreakMinutes
	}
	settings.AutoStartBreaks = c.AutoStartBreaks
	return settings
}

func (c Config) ReminderPoll() time.Duration {
	if c.ReminderPollSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.ReminderPollSeconds) * time.Second
}

// LoadRules reads the rules file. An empty path or a missing file yields the
// built-in site list.
func LoadRules(path string) (Rules, error) {
	defaults := Rules{DistractingSites: append([]string(nil), focus.DefaultSites...)}
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return Rules{}, err
	}

	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules: %w", err)
	}
	if rules.DistractingSites == nil {
		rules.DistractingSites = defaults.DistractingSites
	}
	return rules, nil
}

func SaveRules(path string, rules Rules) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(rules)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
