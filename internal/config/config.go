package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Env            string        `mapstructure:"ENV"`
	Port           string        `mapstructure:"PORT"`
	AccessToken    string        `mapstructure:"KOMMO_ACCESS_TOKEN"`
	BaseURL        string        `mapstructure:"KOMMO_BASE_URL" validate:"omitempty,url"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	AdminKey       string        `mapstructure:"ADMIN_KEY"`
	CORSAllowed    string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	WindowDays     int           `mapstructure:"REPORT_WINDOW_DAYS" validate:"min=1"`
	PageLimit      int           `mapstructure:"PAGE_LIMIT" validate:"min=1,max=250"`
	MaxLeads       int           `mapstructure:"MAX_LEADS" validate:"min=1"`
	MaxTalks       int           `mapstructure:"MAX_TALKS" validate:"min=1"`
	MaxMessages    int           `mapstructure:"MAX_MESSAGES" validate:"min=1"`
	OutputDir      string        `mapstructure:"OUTPUT_DIR"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8080")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("REPORT_WINDOW_DAYS", 7)
	v.SetDefault("PAGE_LIMIT", 250)
	v.SetDefault("MAX_LEADS", 10000)
	v.SetDefault("MAX_TALKS", 2000)
	v.SetDefault("MAX_MESSAGES", 10000)
	v.SetDefault("OUTPUT_DIR", ".")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
