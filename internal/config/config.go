// internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Generator GeneratorConfig
	Bench     BenchConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Drive     DriveConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

// StorageConfig holds the object store connection. The variable names match
// the LocalStack/boto conventions the datasets were originally pushed with.
type StorageConfig struct {
	Driver             string
	Endpoint           string
	AccessKey          string
	SecretKey          string
	Region             string
	Bucket             string
	UsePathStyle       bool
	InsecureSkipVerify bool
}

type GeneratorConfig struct {
	OutputDir           string
	Format              string
	Customers           int
	Transactions        int
	TransactionItems    int
	Seed                uint64
	MaxDocumentAttempts int
}

type BenchConfig struct {
	Workers  int
	Variants []string
}

type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConcurrency int
}

type CacheConfig struct {
	Enabled              bool
	RedisURL             string
	RedisHost            string
	RedisPort            string
	RedisPassword        string
	RedisDB              int
	RunHistoryTTLSeconds int
	RunHistoryLimit      int
}

type DriveConfig struct {
	CredentialsJSON string
	FolderID        string
}

type LogConfig struct {
	Level string
	JSON  bool
}

// Load reads an optional .env file and the process environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: splitList(v.GetString("SERVER_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Driver:             strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Endpoint:           v.GetString("ENDPOINT_URL"),
			AccessKey:          v.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:          v.GetString("AWS_SECRET_ACCESS_KEY"),
			Region:             v.GetString("REGION_NAME"),
			Bucket:             v.GetString("BUCKET_NAME"),
			UsePathStyle:       v.GetBool("STORAGE_PATH_STYLE"),
			InsecureSkipVerify: v.GetBool("STORAGE_INSECURE_SKIP_VERIFY"),
		},
		Generator: GeneratorConfig{
			OutputDir:           v.GetString("OUTPUT_DIR"),
			Format:              v.GetString("OUTPUT_FORMAT"),
			Customers:           v.GetInt("NUM_CUSTOMERS"),
			Transactions:        v.GetInt("NUM_TRANSACTIONS"),
			TransactionItems:    v.GetInt("NUM_TRANSACTION_ITEMS"),
			Seed:                v.GetUint64("GENERATOR_SEED"),
			MaxDocumentAttempts: v.GetInt("MAX_DOCUMENT_ATTEMPTS"),
		},
		Bench: BenchConfig{
			Workers:  v.GetInt("BENCH_WORKERS"),
			Variants: splitList(v.GetString("BENCH_VARIANTS")),
		},
		Database: DatabaseConfig{
			Host:           v.GetString("DB_HOST"),
			Port:           v.GetString("DB_PORT"),
			User:           v.GetString("DB_USER"),
			Password:       v.GetString("DB_PASSWORD"),
			DBName:         v.GetString("DB_NAME"),
			SSLMode:        v.GetString("DB_SSLMODE"),
			MaxConcurrency: v.GetInt("DB_MAX_CONCURRENCY"),
		},
		Cache: CacheConfig{
			Enabled:              v.GetBool("CACHE_ENABLED"),
			RedisURL:             v.GetString("REDIS_URL"),
			RedisHost:            v.GetString("REDIS_HOST"),
			RedisPort:            v.GetString("REDIS_PORT"),
			RedisPassword:        v.GetString("REDIS_PASSWORD"),
			RedisDB:              v.GetInt("REDIS_DB"),
			RunHistoryTTLSeconds: v.GetInt("RUN_HISTORY_TTL_SECONDS"),
			RunHistoryLimit:      v.GetInt("RUN_HISTORY_LIMIT"),
		},
		Drive: DriveConfig{
			CredentialsJSON: v.GetString("GOOGLE_DRIVE_CREDENTIALS_JSON"),
			FolderID:        v.GetString("DRIVE_FOLDER_ID"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			JSON:  v.GetBool("LOG_JSON"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 300)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", "*")

	v.SetDefault("STORAGE_DRIVER", "s3")
	v.SetDefault("ENDPOINT_URL", "")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("REGION_NAME", "us-east-1")
	v.SetDefault("BUCKET_NAME", "alanceloth")
	v.SetDefault("STORAGE_PATH_STYLE", true)
	v.SetDefault("STORAGE_INSECURE_SKIP_VERIFY", false)

	v.SetDefault("OUTPUT_DIR", "./data")
	v.SetDefault("OUTPUT_FORMAT", "csv")
	v.SetDefault("NUM_CUSTOMERS", 1000)
	v.SetDefault("NUM_TRANSACTIONS", 3000)
	v.SetDefault("NUM_TRANSACTION_ITEMS", 5000)
	v.SetDefault("GENERATOR_SEED", 0)
	v.SetDefault("MAX_DOCUMENT_ATTEMPTS", 1000)

	v.SetDefault("BENCH_WORKERS", 2)
	v.SetDefault("BENCH_VARIANTS", "csv,xlsx")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "datagen")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONCURRENCY", 4)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RUN_HISTORY_TTL_SECONDS", 7*24*60*60)
	v.SetDefault("RUN_HISTORY_LIMIT", 50)

	v.SetDefault("GOOGLE_DRIVE_CREDENTIALS_JSON", "")
	v.SetDefault("DRIVE_FOLDER_ID", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
}

func (c *Config) validate() error {
	if c.Generator.Customers < 0 || c.Generator.Transactions < 0 || c.Generator.TransactionItems < 0 {
		return fmt.Errorf("record counts must not be negative")
	}
	if c.Generator.MaxDocumentAttempts < 1 {
		return fmt.Errorf("MAX_DOCUMENT_ATTEMPTS must be at least 1")
	}
	if c.Bench.Workers < 1 {
		return fmt.Errorf("BENCH_WORKERS must be at least 1")
	}
	return nil
}

// splitList accepts comma separated values; viper hands env lists over as a
// single string.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
