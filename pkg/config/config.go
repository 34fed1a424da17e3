package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"task-tracker/pkg/utils"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	Log      LogConfig
	CORS     CORSConfig
}

type AppConfig struct {
	Name            string `validate:"required"`
	Port            string `validate:"required,numeric"`
	Env             string `validate:"oneof=development staging production test"`
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver     string `validate:"oneof=postgres sqlite"`
	Host       string
	Port       string
	User       string
	Password   string
	DBName     string
	SSLMode    string
	SQLitePath string // ใช้เมื่อ Driver = sqlite
}

// RedisConfig สำหรับ cache รายการ task ของแต่ละ owner (URL ว่าง = ปิด cache)
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
	TaskTTL  time.Duration
}

// NATSConfig สำหรับ publish task events (URL ว่าง = ไม่ publish)
type NATSConfig struct {
	URL string // nats://localhost:4222
}

type JWTConfig struct {
	Secret string `validate:"required"`
	Issuer string
}

type LogConfig struct {
	Level      string `validate:"oneof=debug info warn error"`
	Format     string `validate:"oneof=json text"`
	Output     string `validate:"oneof=stdout file both"`
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int    // จำนวน backup files
	MaxAge     int    // วัน
	Compress   bool   // บีบอัด backup
}

type CORSConfig struct {
	AllowOrigins string
}

func LoadConfig() (*Config, error) {
	// ไม่ error ถ้าไม่มี .env file (ใช้ environment variables แทน)
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	config := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "Task Tracker"),
			Port:            getEnv("APP_PORT", "8080"),
			Env:             getEnv("APP_ENV", "development"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			DBName:     getEnv("DB_NAME", "task_tracker"),
			SSLMode:    getEnv("DB_SSL_MODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "task_tracker.db"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TaskTTL:  getDuration("TASK_CACHE_TTL", time.Minute),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
			Issuer: getEnv("JWT_ISSUER", "task-tracker"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the `validate` tags of every section.
func (c *Config) Validate() error {
	sections := []any{&c.App, &c.Database, &c.JWT, &c.Log}
	for _, section := range sections {
		if err := utils.ValidateStruct(section); err != nil {
			return fmt.Errorf("invalid config: %v", utils.GetValidationErrors(err))
		}
	}
	if c.IsProduction() && c.JWT.Secret == "your-secret-key" {
		return fmt.Errorf("invalid config: JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration อ่านค่าแบบ "30s", "2m"; ถ้า parse ไม่ได้ใช้ default
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
