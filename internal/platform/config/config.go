package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // absence.timezone must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "config/config.yaml"

	ModeDev     = "dev"
	ModeRelease = "release"

	DefaultAddr         = ":8443"
	DefaultDevOrigin    = "http://localhost:3000"
	DefaultFireTime     = "20:01"
	DefaultTimezone     = "Africa/Casablanca"
	DefaultRunTimeout   = 5 * time.Minute
	DefaultLookbackDays = 1
	DefaultLanguage     = "fr"
)

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type Certs struct {
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// AbsenceConfig: 欠勤自動検出バッチの設定
type AbsenceConfig struct {
	Enabled      bool          `yaml:"enabled"`
	FireTime     string        `yaml:"fire_time"` // "HH:MM"
	Timezone     string        `yaml:"timezone"`
	RunTimeout   time.Duration `yaml:"run_timeout"`
	LookbackDays int           `yaml:"lookback_days"`
}

type I18nConfig struct {
	Language string `yaml:"language"`
}

type Config struct {
	Version     string         `yaml:"version"`
	Mode        string         `yaml:"mode"`
	Server      ServerConfig   `yaml:"server"`
	DB          DatabaseConfig `yaml:"database"`
	Certificate Certs          `yaml:"certificate"`
	Auth        AuthConfig     `yaml:"auth"`
	Absence     AbsenceConfig  `yaml:"absence"`
	I18n        I18nConfig     `yaml:"i18n"`
}

// Load reads the YAML file at path, applies .env / environment overrides and
// defaults, then validates the result.
func Load(path string) (*Config, error) {
	// .env は任意（無ければ無視）
	_ = godotenv.Load()

	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込み失敗: %w", err)
	}
	return Parse(buf)
}

func Parse(buf []byte) (*Config, error) {
	cfg := Config{
		Absence: AbsenceConfig{Enabled: true},
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルのパース失敗: %w", err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("APP_MODE"); v != "" {
		c.Mode = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.DB.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("ABSENCE_TIMEZONE"); v != "" {
		c.Absence.Timezone = v
	}
	if v := os.Getenv("ABSENCE_FIRE_TIME"); v != "" {
		c.Absence.FireTime = v
	}
	if v := os.Getenv("ABSENCE_LOOKBACK_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Absence.LookbackDays = n
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{DefaultDevOrigin}
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
	if c.Absence.FireTime == "" {
		c.Absence.FireTime = DefaultFireTime
	}
	if c.Absence.Timezone == "" {
		c.Absence.Timezone = DefaultTimezone
	}
	if c.Absence.RunTimeout <= 0 {
		c.Absence.RunTimeout = DefaultRunTimeout
	}
	if c.Absence.LookbackDays == 0 {
		c.Absence.LookbackDays = DefaultLookbackDays
	}
	if c.I18n.Language == "" {
		c.I18n.Language = DefaultLanguage
	}
}

func (c *Config) Validate() error {
	var problems []string
	if c.Mode != ModeDev && c.Mode != ModeRelease {
		problems = append(problems, fmt.Sprintf("mode must be %q or %q", ModeDev, ModeRelease))
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "auth.jwt_secret (or JWT_SECRET) is required")
	}
	if _, _, err := c.Absence.FireHourMinute(); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := time.LoadLocation(c.Absence.Timezone); err != nil {
		problems = append(problems, fmt.Sprintf("absence.timezone: %v", err))
	}
	if c.Absence.LookbackDays < 1 {
		problems = append(problems, "absence.lookback_days must be >= 1")
	}
	if len(problems) > 0 {
		return errors.New("invalid config: " + strings.Join(problems, "; "))
	}
	return nil
}

// FireHourMinute splits FireTime ("HH:MM") into its hour and minute.
func (a AbsenceConfig) FireHourMinute() (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(a.FireTime))
	if err != nil {
		return 0, 0, fmt.Errorf("absence.fire_time must be HH:MM, got %q", a.FireTime)
	}
	return t.Hour(), t.Minute(), nil
}

// Location returns the timezone the daily trigger is evaluated in.
func (a AbsenceConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}
