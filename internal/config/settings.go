package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. JARVIS_REMINDER_TIME.
const EnvPrefix = "JARVIS"

// ErrSettingsExist is returned by WriteDefault when config.yaml is already present.
var ErrSettingsExist = errors.New("config file already exists")

// Settings is the content of config.yaml.
type Settings struct {
	Reminder   ReminderSettings   `mapstructure:"reminder" yaml:"reminder"`
	Tasks      TasksSettings      `mapstructure:"tasks" yaml:"tasks"`
	OpenAI     OpenAISettings     `mapstructure:"openai" yaml:"openai"`
	Calendar   CalendarSettings   `mapstructure:"calendar" yaml:"calendar"`
	Transcript TranscriptSettings `mapstructure:"transcript" yaml:"transcript"`
}

// ReminderSettings configures the daily reminder.
type ReminderSettings struct {
	// Time is the local wall-clock fire time, "HH:MM".
	Time string `mapstructure:"time" yaml:"time"`
}

// TasksSettings configures the task store.
type TasksSettings struct {
	File string `mapstructure:"file" yaml:"file"`
}

// OpenAISettings configures the fallback query handler.
type OpenAISettings struct {
	APIKey       string  `mapstructure:"api_key" yaml:"api_key"`
	BaseURL      string  `mapstructure:"base_url" yaml:"base_url"`
	Model        string  `mapstructure:"model" yaml:"model"`
	MaxTokens    int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`
	SystemPrompt string  `mapstructure:"system_prompt" yaml:"system_prompt"`
}

// CalendarSettings configures the calendar lookup handler.
type CalendarSettings struct {
	ServiceAccountFile string `mapstructure:"service_account_file" yaml:"service_account_file"`
	CalendarID         string `mapstructure:"calendar_id" yaml:"calendar_id"`
	MaxResults         int    `mapstructure:"max_results" yaml:"max_results"`
}

// TranscriptSettings configures the transcript database.
type TranscriptSettings struct {
	File string `mapstructure:"file" yaml:"file"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Reminder: ReminderSettings{Time: "09:00"},
		OpenAI: OpenAISettings{
			BaseURL:      "https://api.openai.com/v1",
			Model:        "gpt-3.5-turbo",
			MaxTokens:    150,
			Temperature:  0.7,
			SystemPrompt: "You are Jarvis, a personal assistant.",
		},
		Calendar: CalendarSettings{
			CalendarID: "primary",
			MaxResults: 10,
		},
	}
}

// Load reads config.yaml (if present) and environment overrides into c.Settings.
func (c *Config) Load() error {
	v := viper.New()
	setDefaults(v, DefaultSettings())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Conventional variable names used by the upstream SDKs.
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("calendar.service_account_file", EnvPrefix+"_CALENDAR_SERVICE_ACCOUNT_FILE", "GOOGLE_SERVICE_ACCOUNT_FILE")

	path := c.SettingsPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return fmt.Errorf("decode settings: %w", err)
	}
	c.Settings = s
	return nil
}

// WriteDefault writes the default settings to config.yaml.
// An existing file is only replaced when force is set.
func (c *Config) WriteDefault(force bool) error {
	path := c.SettingsPath()
	if !force {
		if _, err := os.Stat(path); err == nil {
			return ErrSettingsExist
		}
	}
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(DefaultSettings())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	content := "# Jarvis configuration\n" + string(data)
	return os.WriteFile(path, []byte(content), 0600)
}

func setDefaults(v *viper.Viper, s Settings) {
	v.SetDefault("reminder.time", s.Reminder.Time)
	v.SetDefault("tasks.file", s.Tasks.File)
	v.SetDefault("openai.api_key", s.OpenAI.APIKey)
	v.SetDefault("openai.base_url", s.OpenAI.BaseURL)
	v.SetDefault("openai.model", s.OpenAI.Model)
	v.SetDefault("openai.max_tokens", s.OpenAI.MaxTokens)
	v.SetDefault("openai.temperature", s.OpenAI.Temperature)
	v.SetDefault("openai.system_prompt", s.OpenAI.SystemPrompt)
	v.SetDefault("calendar.service_account_file", s.Calendar.ServiceAccountFile)
	v.SetDefault("calendar.calendar_id", s.Calendar.CalendarID)
	v.SetDefault("calendar.max_results", s.Calendar.MaxResults)
	v.SetDefault("transcript.file", s.Transcript.File)
}
