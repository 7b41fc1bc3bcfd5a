package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Grades    GradesConfig
	XP        XPConfig
	Email     EmailConfig
	RateLimit RateLimitConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: альтернативный адрес для режима 'single', если Addrs пустой
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: имя мастер-сервера (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret        string `mapstructure:"secret"`
	ExpirationHrs int    `mapstructure:"expirationHrs"`
}

// GradesConfig содержит веса компонент итоговой оценки.
// Веса перенормируются на отсутствующие компоненты при расчёте.
type GradesConfig struct {
	QuizWeight          float64 `mapstructure:"quiz_weight"`
	AssignmentWeight    float64 `mapstructure:"assignment_weight"`
	ParticipationWeight float64 `mapstructure:"participation_weight"`
}

// XPConfig содержит начисления опыта по видам активности
type XPConfig struct {
	QuizBase         int `mapstructure:"quiz_base"`
	AssignmentSubmit int `mapstructure:"assignment_submit"`
	DiscussionPost   int `mapstructure:"discussion_post"`
}

// EmailConfig содержит настройки отправки почтовых уведомлений
type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ResendAPIKey string `mapstructure:"resend_api_key"`
	From         string `mapstructure:"from"`
}

// RateLimitConfig содержит настройки ограничения частоты старта сессий
type RateLimitConfig struct {
	SessionStartPerMinute int `mapstructure:"session_start_per_minute"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Новый экземпляр Viper, чтобы избежать глобального состояния

	// Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readTimeout", 15)
	vip.SetDefault("server.writeTimeout", 15)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("jwt.expirationHrs", 24)
	vip.SetDefault("grades.quiz_weight", 0.5)
	vip.SetDefault("grades.assignment_weight", 0.4)
	vip.SetDefault("grades.participation_weight", 0.1)
	vip.SetDefault("xp.quiz_base", 100)
	vip.SetDefault("xp.assignment_submit", 50)
	vip.SetDefault("xp.discussion_post", 10)
	vip.SetDefault("ratelimit.session_start_per_minute", 10)

	// Привязываем переменные окружения явно
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expirationHrs", "JWT_EXPIRATIONHRS")

	vip.BindEnv("grades.quiz_weight", "GRADES_QUIZ_WEIGHT")
	vip.BindEnv("grades.assignment_weight", "GRADES_ASSIGNMENT_WEIGHT")
	vip.BindEnv("grades.participation_weight", "GRADES_PARTICIPATION_WEIGHT")

	vip.BindEnv("xp.quiz_base", "XP_QUIZ_BASE")
	vip.BindEnv("xp.assignment_submit", "XP_ASSIGNMENT_SUBMIT")
	vip.BindEnv("xp.discussion_post", "XP_DISCUSSION_POST")

	vip.BindEnv("email.enabled", "EMAIL_ENABLED")
	vip.BindEnv("email.resend_api_key", "RESEND_API_KEY")
	vip.BindEnv("email.from", "EMAIL_FROM")

	vip.BindEnv("ratelimit.session_start_per_minute", "RATELIMIT_SESSION_START_PER_MINUTE")

	vip.BindEnv("server.port", "SERVER_PORT")

	if configPath != "" {
		vip.SetConfigFile(configPath)
		// Файл не обязателен: BindEnv покрывает запуск без него
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("JWT Expiration Hours: %d", cfg.JWT.ExpirationHrs)
		log.Printf("Grade Weights: quiz=%.2f assignment=%.2f participation=%.2f",
			cfg.Grades.QuizWeight, cfg.Grades.AssignmentWeight, cfg.Grades.ParticipationWeight)
		log.Printf("Email Enabled: %t", cfg.Email.Enabled)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Email.Enabled && (cfg.Email.ResendAPIKey == "" || cfg.Email.From == "") {
		return nil, fmt.Errorf("email is enabled but RESEND_API_KEY or EMAIL_FROM is missing")
	}

	return &cfg, nil
}
