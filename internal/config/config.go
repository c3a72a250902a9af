package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Storage      StorageConfig
	TicketAPI    TicketAPIConfig
	Pipeline     PipelineConfig
	Notification NotificationConfig
	Schedule     ScheduleConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
	// ApplicationName tags server-side sessions in pg_stat_activity.
	ApplicationName string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	ClientName string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// StorageConfig points at the S3 compatible object store holding audio and transcripts.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
}

// TicketAPIConfig names the secret holding the external ticket API settings
// and the environment fallback used when the secret cannot be read.
type TicketAPIConfig struct {
	SecretID         string
	FallbackURL      string
	FallbackAuthType string
	FallbackAPIKey   string
}

// PipelineConfig tunes the transcription and ingestion steps.
type PipelineConfig struct {
	TranscriptsBucket   string
	PresignExpirySec    int
	LanguageCode        string
	AuditEnabled        bool
	ClassifierRulesFile string
}

// NotificationConfig maps departments to their topics.
type NotificationConfig struct {
	ITTopic      string
	HRTopic      string
	AdminTopic   string
	SummaryTopic string
	SlackToken   string
	SlackChannel string
}

// ScheduleConfig holds cron expressions for the periodic sweeps.
type ScheduleConfig struct {
	CompletedJobs   string
	InactiveTickets string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	adminTopic := os.Getenv("ADMIN_TOPIC")
	appName := getEnv("APP_NAME", "voice2ticket")

	cfg := &Config{
		App: AppConfig{
			Name:                  appName,
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 60),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxConns:        maxConns,
			MinConns:        minConns,
			RunMigrations:   runMigrations,
			ConnMaxIdleSec:  connMaxIdle,
			ConnMaxLifeSec:  connMaxLife,
			ApplicationName: appName,
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         redisDB,
			ClientName: appName,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "127.0.0.1:9000"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
			Region:    os.Getenv("MINIO_REGION"),
		},
		TicketAPI: TicketAPIConfig{
			SecretID:         os.Getenv("TICKET_API_SECRET_ID"),
			FallbackURL:      os.Getenv("TICKET_API_URL"),
			FallbackAuthType: getEnv("TICKET_API_AUTH_TYPE", "bearer"),
			FallbackAPIKey:   os.Getenv("TICKET_API_KEY"),
		},
		Pipeline: PipelineConfig{
			TranscriptsBucket:   os.Getenv("TRANSCRIPTS_BUCKET"),
			PresignExpirySec:    getEnvAsInt("PRESIGN_EXPIRY", 3600),
			LanguageCode:        getEnv("TRANSCRIBE_LANGUAGE", "en-US"),
			AuditEnabled:        getEnvAsBool("AUDIT_ENABLED", true),
			ClassifierRulesFile: os.Getenv("CLASSIFIER_RULES_FILE"),
		},
		Notification: NotificationConfig{
			ITTopic:      os.Getenv("IT_TOPIC"),
			HRTopic:      os.Getenv("HR_TOPIC"),
			AdminTopic:   adminTopic,
			SummaryTopic: getEnv("SUMMARY_TOPIC", adminTopic),
			SlackToken:   os.Getenv("SLACK_BOT_TOKEN"),
			SlackChannel: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Schedule: ScheduleConfig{
			CompletedJobs:   getEnv("COMPLETED_JOBS_SCHEDULE", "*/5 * * * *"),
			InactiveTickets: getEnv("INACTIVE_TICKETS_SCHEDULE", "0 * * * *"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PresignExpiry returns the lifetime of presigned audio links.
func (p PipelineConfig) PresignExpiry() time.Duration {
	if p.PresignExpirySec <= 0 {
		return time.Hour
	}
	return time.Duration(p.PresignExpirySec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
