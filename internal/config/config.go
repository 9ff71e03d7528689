package config

import (
	"errors"  // For validation errors
	"strings" // For list parsing
	"time"    // For token and OTP lifetimes

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // For environment lookup with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort     string        // Application port
	DBUser      string        // Database user
	DBPassword  string        // Database password
	DBHost      string        // Database host
	DBPort      string        // Database port
	DBName      string        // Database name
	RedisAddr   string        // Redis server address, empty disables caching
	RedisPass   string        // Redis password
	RedisDB     int           // Redis database number
	CacheTTL    time.Duration // TTL of cached admin listings
	IsProd      bool          // Is production environment
	CORSOrigins []string      // Allowed CORS origins
	RateLimit   RateLimitConfig
	Tokens      TokenConfig
	OTP         OTPConfig
	ImageHost   ImageHostConfig
	Mail        MailConfig
}

// TokenConfig holds the JWT secrets and lifetimes. Access and refresh tokens are signed with different secrets.
type TokenConfig struct {
	AccessSecret  string        // Secret for access tokens
	AccessTTL     time.Duration // Access token lifetime
	RefreshSecret string        // Secret for refresh tokens
	RefreshTTL    time.Duration // Refresh token lifetime
}

// OTPConfig controls one-time code issuance
type OTPConfig struct {
	TTL         time.Duration // How long a code stays valid
	Digits      int           // Code length
	Required    bool          // Whether login demands a valid code
	MaxAttempts int           // Wrong codes allowed before the pending code is burned
}

// ImageHostConfig points at a Cloudinary-compatible upload endpoint
type ImageHostConfig struct {
	UploadURL    string        // Upload endpoint
	UploadPreset string        // Unsigned upload preset
	APIKey       string        // API key sent with each upload
	Folder       string        // Destination folder
	Timeout      time.Duration // Request timeout
}

// MailConfig selects how OTP codes are delivered
type MailConfig struct {
	From             string // Sender address
	SMTPHost         string // SMTP host, used when set
	SMTPPort         int    // SMTP port
	SMTPUser         string // SMTP user
	SMTPPass         string // SMTP password
	MailjetAPIKey    string // Mailjet public key, used when SMTP is not configured
	MailjetSecretKey string // Mailjet private key
}

// RateLimitConfig configures the per-IP limiter on public auth endpoints
type RateLimitConfig struct {
	RPS   float64 // Sustained requests per second
	Burst int     // Burst size
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	v := viper.New()
	v.AutomaticEnv() // Every key below is read from the environment
	setDefaults(v)
	return &Config{
		AppPort:     v.GetString("APP_PORT"),
		DBUser:      v.GetString("DB_USER"),
		DBPassword:  v.GetString("DB_PASSWORD"),
		DBHost:      v.GetString("DB_HOST"),
		DBPort:      v.GetString("DB_PORT"),
		DBName:      v.GetString("DB_NAME"),
		RedisAddr:   v.GetString("REDIS_ADDR"),
		RedisPass:   v.GetString("REDIS_PASS"),
		RedisDB:     v.GetInt("REDIS_DB"),
		CacheTTL:    v.GetDuration("CACHE_TTL"),
		IsProd:      v.GetBool("IS_PROD"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		Tokens: TokenConfig{
			AccessSecret:  v.GetString("ACCESS_TOKEN_SECRET"),
			AccessTTL:     v.GetDuration("ACCESS_TOKEN_EXPIRY"),
			RefreshSecret: v.GetString("REFRESH_TOKEN_SECRET"),
			RefreshTTL:    v.GetDuration("REFRESH_TOKEN_EXPIRY"),
		},
		OTP: OTPConfig{
			TTL:         v.GetDuration("OTP_TTL"),
			Digits:      v.GetInt("OTP_DIGITS"),
			Required:    v.GetBool("OTP_REQUIRED"),
			MaxAttempts: v.GetInt("OTP_MAX_ATTEMPTS"),
		},
		ImageHost: ImageHostConfig{
			UploadURL:    v.GetString("IMAGE_HOST_URL"),
			UploadPreset: v.GetString("IMAGE_HOST_PRESET"),
			APIKey:       v.GetString("IMAGE_HOST_API_KEY"),
			Folder:       v.GetString("IMAGE_HOST_FOLDER"),
			Timeout:      v.GetDuration("IMAGE_HOST_TIMEOUT"),
		},
		Mail: MailConfig{
			From:             v.GetString("MAIL_FROM"),
			SMTPHost:         v.GetString("SMTP_HOST"),
			SMTPPort:         v.GetInt("SMTP_PORT"),
			SMTPUser:         v.GetString("SMTP_USER"),
			SMTPPass:         v.GetString("SMTP_PASS"),
			MailjetAPIKey:    v.GetString("MAILJET_API_KEY"),
			MailjetSecretKey: v.GetString("MAILJET_SECRET_KEY"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("CACHE_TTL", "60s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 1)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("ACCESS_TOKEN_EXPIRY", "15m")
	v.SetDefault("REFRESH_TOKEN_EXPIRY", "240h")
	v.SetDefault("OTP_TTL", "5m")
	v.SetDefault("OTP_DIGITS", 6)
	v.SetDefault("OTP_REQUIRED", true)
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("IMAGE_HOST_FOLDER", "mlm")
	v.SetDefault("IMAGE_HOST_TIMEOUT", "30s")
	v.SetDefault("SMTP_PORT", 587)
}

// Validate checks the settings the server cannot run without
func (c *Config) Validate() error {
	if c.Tokens.AccessSecret == "" || c.Tokens.RefreshSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must be set")
	}
	if c.Tokens.AccessSecret == c.Tokens.RefreshSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.Tokens.AccessTTL <= 0 || c.Tokens.RefreshTTL <= 0 {
		return errors.New("token expiries must be positive")
	}
	if c.OTP.Digits < 4 || c.OTP.Digits > 10 {
		return errors.New("OTP_DIGITS must be between 4 and 10")
	}
	if c.OTP.MaxAttempts < 1 {
		return errors.New("OTP_MAX_ATTEMPTS must be at least 1")
	}
	if c.ImageHost.UploadURL == "" {
		return errors.New("IMAGE_HOST_URL must be set")
	}
	return nil
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
