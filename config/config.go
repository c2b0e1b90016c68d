package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	ScopeGlobal = "global"
	ScopeIP     = "ip"
)

// Config is the typed view of the environment used by the server and the CLI.
type Config struct {
	Port        string
	Environment string
	LogLevel    string

	DatabaseURL        string
	DatabaseReplicaURL string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetime    time.Duration
	AutoMigrate        bool

	AdminKey   string
	JWTSecret  string
	BcryptCost int

	AcceptedOrigins []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration

	ContactRateLimitScope string
	TrustProxy            bool

	ResendAPIKey       string
	ResendFromEmail    string
	ContactNotifyEmail string

	TwilioAccountSID   string
	TwilioAuthToken    string
	TwilioFromNumber   string
	ContactNotifyPhone string

	SSMParameterPath string
	AWSRegion        string
}

func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func GetString(config map[string]string, key string, defaultValue string) string {
	if config == nil {
		return defaultValue
	}

	if val, ok := config[key]; ok && val != "" {
		return val
	}
	return defaultValue
}

func GetInt(config map[string]string, key string, defaultValue int) int {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asInt, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}

	return asInt
}

func GetBool(config map[string]string, key string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	s, ok := config[key]
	if !ok {
		return defaultValue
	}

	asBool, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return defaultValue
	}
	return asBool
}

// GetDuration reads an integer count of unit (e.g. seconds) from key.
func GetDuration(config map[string]string, key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetInt(config, key, defaultValue)) * unit
}

func GetList(config map[string]string, key string) []string {
	raw := GetString(config, key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load assembles a Config from the given environment map. It does not
// validate; callers that need a database or secrets call Validate.
func Load(c map[string]string) Config {
	cfg := Config{
		Port:        GetString(c, "PORT", "4000"),
		Environment: GetString(c, "ENVIRONMENT", "production"),
		LogLevel:    GetString(c, "LOG_LEVEL", "info"),

		DatabaseURL:        databaseURL(c),
		DatabaseReplicaURL: GetString(c, "DATABASE_REPLICA_URL", ""),
		MaxOpenConns:       GetInt(c, "DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:       GetInt(c, "DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:    GetDuration(c, "DB_CONN_MAX_LIFETIME_MINUTES", 30, time.Minute),
		AutoMigrate:        GetBool(c, "AUTO_MIGRATE", false),

		AdminKey:   GetString(c, "ADMIN_KEY", ""),
		JWTSecret:  GetString(c, "JWT_SECRET", ""),
		BcryptCost: GetInt(c, "BCRYPT_COST", 10),

		AcceptedOrigins: GetList(c, "ACCEPTED_ORIGINS"),
		ReadTimeout:     GetDuration(c, "READ_TIMEOUT_SECONDS", 180, time.Second),
		WriteTimeout:    GetDuration(c, "WRITE_TIMEOUT_SECONDS", 180, time.Second),
		IdleTimeout:     GetDuration(c, "IDLE_TIMEOUT_SECONDS", 180, time.Second),

		ContactRateLimitScope: strings.ToLower(GetString(c, "CONTACT_RATE_LIMIT_SCOPE", ScopeGlobal)),
		TrustProxy:            GetBool(c, "TRUST_PROXY", false),

		ResendAPIKey:       GetString(c, "RESEND_API_KEY", ""),
		ResendFromEmail:    GetString(c, "RESEND_FROM_EMAIL", ""),
		ContactNotifyEmail: GetString(c, "CONTACT_NOTIFY_EMAIL", ""),

		TwilioAccountSID:   GetString(c, "TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:    GetString(c, "TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:   GetString(c, "TWILIO_FROM_NUMBER", ""),
		ContactNotifyPhone: GetString(c, "CONTACT_NOTIFY_PHONE", ""),

		SSMParameterPath: GetString(c, "SSM_PARAMETER_PATH", ""),
		AWSRegion:        GetString(c, "AWS_REGION", ""),
	}
	if len(cfg.AcceptedOrigins) == 0 {
		cfg.AcceptedOrigins = []string{"*"}
	}
	return cfg
}

// databaseURL prefers DATABASE_URL, falling back to the Supabase parts when DB_TYPE=supa.
func databaseURL(c map[string]string) string {
	if url := GetString(c, "DATABASE_URL", ""); url != "" {
		return url
	}
	if GetString(c, "DB_TYPE", "") != "supa" {
		return ""
	}
	host := GetString(c, "SUPABASE_DB_HOST", "")
	if host == "" {
		return ""
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
		host,
		GetString(c, "SUPABASE_DB_USER", ""),
		GetString(c, "SUPABASE_DB_PASSWORD", ""),
		GetString(c, "SUPABASE_DB_NAME", ""),
		GetString(c, "SUPABASE_DB_PORT", "5432"),
	)
}

func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// ValidateDatabase checks the settings every database-backed command needs.
func (c Config) ValidateDatabase() error {
	if c.DatabaseURL == "" {
		return errs.NewConfigMissingError("DATABASE_URL")
	}
	if c.MaxOpenConns < 1 {
		return errs.NewConfigInvalidError("DB_MAX_OPEN_CONNS", "must be at least 1")
	}
	if c.MaxIdleConns < 0 || c.MaxIdleConns > c.MaxOpenConns {
		return errs.NewConfigInvalidError("DB_MAX_IDLE_CONNS", "must be between 0 and DB_MAX_OPEN_CONNS")
	}
	return nil
}

// Validate checks everything serve needs.
func (c Config) Validate() error {
	if err := c.ValidateDatabase(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errs.NewConfigMissingError("JWT_SECRET")
	}
	if c.AdminKey == "" {
		return errs.NewConfigMissingError("ADMIN_KEY")
	}
	switch c.ContactRateLimitScope {
	case ScopeGlobal, ScopeIP:
	default:
		return errs.NewConfigInvalidError("CONTACT_RATE_LIMIT_SCOPE", "must be global or ip")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return errs.NewConfigInvalidError("PORT", "must be numeric")
	}
	return nil
}
