package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingSecret - не заданы секреты хранилища, запуск невозможен
var ErrMissingSecret = errors.New("missing store secret")

// Виды хранилищ
const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	SupabaseURL   string `yaml:"supabase_url"`
	SupabaseKey   string `yaml:"supabase_key"`
	TelegramToken string `yaml:"telegram_token"`

	Store       string `yaml:"store"`
	DatabaseDSN string `yaml:"database_dsn"`

	ProductsTable   string `yaml:"products_table"`
	CategoriesTable string `yaml:"categories_table"`

	// Категории для хранилища в памяти
	SeedCategories []string `yaml:"seed_categories"`

	RedisAddr string        `yaml:"redis_addr"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	HTTPAddr             string `yaml:"http_addr"`
	MissingCategoryLabel string `yaml:"missing_category_label"`
	Debug                bool   `yaml:"debug"`
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		Store:                StoreSupabase,
		ProductsTable:        "products",
		CategoriesTable:      "categories",
		CacheTTL:             30 * time.Second,
		HTTPAddr:             ":8080",
		MissingCategoryLabel: "None",
	}
}

// LoadConfig читает .env, необязательный YAML-файл из WAREHOUSE_CONFIG
// и переменные окружения
func LoadConfig() (*Config, error) {
	return Load(os.Getenv("WAREHOUSE_CONFIG"))
}

// Load читает конфигурацию из path (может быть пустым) с учетом .env и окружения
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}

	setString("SUPABASE_URL", &c.SupabaseURL)
	setString("SUPABASE_KEY", &c.SupabaseKey)
	setString("TELEGRAM_TOKEN", &c.TelegramToken)
	setString("WAREHOUSE_STORE", &c.Store)
	setString("DATABASE_DSN", &c.DatabaseDSN)
	setString("PRODUCTS_TABLE", &c.ProductsTable)
	setString("CATEGORIES_TABLE", &c.CategoriesTable)
	setString("REDIS_ADDR", &c.RedisAddr)
	setString("HTTP_ADDR", &c.HTTPAddr)
	setString("MISSING_CATEGORY_LABEL", &c.MissingCategoryLabel)

	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = ttl
	}

	if v := os.Getenv("WAREHOUSE_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WAREHOUSE_DEBUG %q: %w", v, err)
		}
		c.Debug = debug
	}

	return nil
}

// Validate проверяет, что для выбранного хранилища заданы все секреты
func (c *Config) Validate() error {
	switch c.Store {
	case StoreSupabase:
		var missing []string
		if c.SupabaseURL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.SupabaseKey == "" {
			missing = append(missing, "SUPABASE_KEY")
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
		}
	case StorePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN", ErrMissingSecret)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}

	if c.CacheTTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}

// ValidateBot дополнительно требует токен Telegram
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.TelegramToken == "" {
		return fmt.Errorf("%w: TELEGRAM_TOKEN", ErrMissingSecret)
	}
	return nil
}
