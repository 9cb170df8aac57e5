package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Режимы доступа к вопросам
const (
	BackendModeREST     = "rest"
	BackendModePostgres = "postgres"
)

// Config хранит все настройки приложения
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Forms     FormsConfig
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

// ServerConfig содержит настройки HTTP сервера консоли
type ServerConfig struct {
	Port         string
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// AllowOrigins - источники, которым разрешён CORS (адрес браузерного UI)
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// BackendConfig содержит настройки REST бэкенда системы экзаменов
type BackendConfig struct {
	// Mode: "rest" (по умолчанию) или "postgres" - прямой доступ к схеме бэкенда для вопросов
	Mode    string
	BaseURL string `mapstructure:"base_url"`
	// Timeout - таймаут одного запроса в секундах
	Timeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL (только для режима postgres)
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
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	MaxRetries      int `mapstructure:"max_retries"`
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// SessionConfig содержит настройки сессий консоли
type SessionConfig struct {
	// TTLHours - время жизни сессии, если токен бэкенда не содержит exp
	TTLHours   int    `mapstructure:"ttl_hours"`
	KeyPrefix  string `mapstructure:"key_prefix"`
	CookieName string `mapstructure:"cookie_name"`
	Secure     bool
}

// FormsConfig содержит настройки открытых форм вопросов
type FormsConfig struct {
	// IdleTTLMinutes - форма без обращений дольше этого времени удаляется
	IdleTTLMinutes int `mapstructure:"idle_ttl_minutes"`
	// SweepInterval - период очистки устаревших форм
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig содержит настройки ограничения попыток входа
type RateLimitConfig struct {
	LoginMaxRequests int `mapstructure:"login_max_requests"`
	LoginWindowSec   int `mapstructure:"login_window_sec"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RequestTimeout возвращает таймаут запроса к бэкенду
func (b BackendConfig) RequestTimeout() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}

// SessionTTL возвращает время жизни сессии по умолчанию
func (s SessionConfig) SessionTTL() time.Duration {
	return time.Duration(s.TTLHours) * time.Hour
}

// IdleTTL возвращает время жизни неактивной формы
func (f FormsConfig) IdleTTL() time.Duration {
	return time.Duration(f.IdleTTLMinutes) * time.Minute
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8090")
	vip.SetDefault("server.read_timeout", 15)
	vip.SetDefault("server.write_timeout", 15)
	vip.SetDefault("server.allow_origins", []string{"http://localhost:4200"})
	vip.SetDefault("backend.mode", BackendModeREST)
	vip.SetDefault("backend.base_url", "http://localhost:8080")
	vip.SetDefault("backend.timeout", 10)
	vip.SetDefault("database.port", "5432")
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("redis.mode", "single")
	vip.SetDefault("session.ttl_hours", 24)
	vip.SetDefault("session.key_prefix", "admin:session")
	vip.SetDefault("session.cookie_name", "admin_session")
	vip.SetDefault("forms.idle_ttl_minutes", 120)
	vip.SetDefault("forms.sweep_interval", 5*time.Minute)
	vip.SetDefault("ratelimit.login_max_requests", 5)
	vip.SetDefault("ratelimit.login_window_sec", 60)

	// 2. Привязываем переменные окружения ЯВНО
	vip.BindEnv("server.port", "SERVER_PORT")
	vip.BindEnv("server.allow_origins", "SERVER_ALLOW_ORIGINS")

	vip.BindEnv("backend.mode", "BACKEND_MODE")
	vip.BindEnv("backend.base_url", "BACKEND_BASE_URL")
	vip.BindEnv("backend.timeout", "BACKEND_TIMEOUT")

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

	vip.BindEnv("session.ttl_hours", "SESSION_TTL_HOURS")
	vip.BindEnv("session.secure", "SESSION_SECURE")

	// 3. Читаем файл конфигурации (не страшно, если его нет, т.к. есть BindEnv и умолчания)
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || os.IsNotExist(err) {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 4. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Списки из окружения приходят одной строкой через запятую
	cfg.Redis.Addrs = splitList(strings.Join(cfg.Redis.Addrs, ","))
	cfg.Server.AllowOrigins = splitList(strings.Join(cfg.Server.AllowOrigins, ","))
	cfg.Backend.Mode = strings.ToLower(strings.TrimSpace(cfg.Backend.Mode))
	cfg.Backend.BaseURL = strings.TrimRight(cfg.Backend.BaseURL, "/")

	// 5. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Backend Mode: %s", cfg.Backend.Mode)
		log.Printf("Backend URL: %s", cfg.Backend.BaseURL)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Redis Addr: %s %v", cfg.Redis.Addr, cfg.Redis.Addrs)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("Session TTL Hours: %d", cfg.Session.TTLHours)
		log.Printf("-----------------------------------------")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case BackendModeREST, BackendModePostgres:
	default:
		return fmt.Errorf("unsupported backend mode %q (expected %q or %q)", c.Backend.Mode, BackendModeREST, BackendModePostgres)
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required (check BACKEND_BASE_URL env var)")
	}
	if c.Backend.Mode == BackendModePostgres {
		if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
			return fmt.Errorf("database configuration (host, dbname, user) is incomplete for postgres mode (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
		}
	}
	if len(c.Redis.Addrs) == 0 && c.Redis.Addr == "" {
		return fmt.Errorf("redis address is required for session storage (check REDIS_ADDR or REDIS_ADDRS env vars)")
	}
	if c.Session.TTLHours <= 0 {
		return fmt.Errorf("session ttl must be positive, got %d", c.Session.TTLHours)
	}
	if c.Forms.IdleTTLMinutes <= 0 {
		return fmt.Errorf("form idle ttl must be positive, got %d", c.Forms.IdleTTLMinutes)
	}
	if c.Forms.SweepInterval <= 0 {
		return fmt.Errorf("form sweep interval must be positive, got %v", c.Forms.SweepInterval)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
