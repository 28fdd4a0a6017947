package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig          `envPrefix:"STAFFDESK_APP_"`
	Server       ServerConfig       `envPrefix:"STAFFDESK_SERVER_"`
	Log          LogConfig          `envPrefix:"STAFFDESK_LOG_"`
	Database     DatabaseConfig     `envPrefix:"STAFFDESK_DB_"`
	Session      SessionConfig      `envPrefix:"STAFFDESK_SESSION_"`
	Verification VerificationConfig `envPrefix:"STAFFDESK_VERIFICATION_"`
	Auth         AuthConfig         `envPrefix:"STAFFDESK_AUTH_"`
	Mail         MailConfig         `envPrefix:"STAFFDESK_MAIL_"`
	JWT          JWTConfig          `envPrefix:"STAFFDESK_JWT_"`
	RateLimit    RateLimitConfig    `envPrefix:"STAFFDESK_RATELIMIT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"StaffDesk"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Enabled     bool   `env:"ENABLED" envDefault:"false"`
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"staffdesk.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type SessionConfig struct {
	Store    string        `env:"STORE" envDefault:"memory"`
	Name     string        `env:"NAME" envDefault:"staffdesk_session"`
	MaxAge   time.Duration `env:"MAX_AGE" envDefault:"720h"`
	Path     string        `env:"PATH" envDefault:"/"`
	Domain   string        `env:"DOMAIN" envDefault:""`
	Secure   bool          `env:"SECURE" envDefault:"false"`
	HttpOnly bool          `env:"HTTP_ONLY" envDefault:"true"`
	SameSite string        `env:"SAME_SITE" envDefault:"lax"`
}

type VerificationConfig struct {
	TokenLength int           `env:"TOKEN_LENGTH" envDefault:"32"`
	TokenExpiry time.Duration `env:"TOKEN_EXPIRY" envDefault:"24h"`
	Store       string        `env:"STORE" envDefault:"memory"`
}

type AuthConfig struct {
	BackendURL     string        `env:"BACKEND_URL" envDefault:""`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
	DirectoryFile  string        `env:"DIRECTORY_FILE" envDefault:""`
	BcryptCost     int           `env:"BCRYPT_COST" envDefault:"10"`
	MinLength      int           `env:"MIN_LENGTH" envDefault:"8"`
	RequireUpper   bool          `env:"REQUIRE_UPPER" envDefault:"false"`
	RequireLower   bool          `env:"REQUIRE_LOWER" envDefault:"true"`
	RequireNumber  bool          `env:"REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial bool          `env:"REQUIRE_SPECIAL" envDefault:"false"`
}

type MailConfig struct {
	Host        string `env:"HOST" envDefault:""`
	Port        int    `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME" envDefault:""`
	Password    string `env:"PASSWORD" envDefault:""`
	Encryption  string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress string `env:"FROM_ADDRESS" envDefault:"no-reply@staffdesk.local"`
	FromName    string `env:"FROM_NAME" envDefault:"StaffDesk"`
}

// SMTPConfigured reports whether transport credentials are present. Their
// absence selects the console notifier (demo mode).
func (c MailConfig) SMTPConfigured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

type JWTConfig struct {
	SecretKey    string        `env:"SECRET_KEY" envDefault:""`
	Issuer       string        `env:"ISSUER" envDefault:"staffdesk-identity"`
	AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"720h"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"ENABLED" envDefault:"true"`
	Rate    int           `env:"RATE" envDefault:"10"`
	Period  time.Duration `env:"PERIOD" envDefault:"1m"`
	Store   string        `env:"STORE" envDefault:"memory"`
}

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	return env.Parse(cfg)
}
