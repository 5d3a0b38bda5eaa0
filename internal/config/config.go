package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode string
	Port    string
	GitHub  GitHubConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Admin   AdminConfig

	AllowedEmailDomains []string
}

// GitHubConfig holds the coordinates of the GitHub repository used as the
// document store.
type GitHubConfig struct {
	APIURL string
	Repo   string // "username/repo-name"
	Token  string
	Owner  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// AdminConfig holds operator-provided admin bootstrap credentials.
// When Password is empty the admin bootstrap is skipped entirely; there is
// no built-in default credential.
type AdminConfig struct {
	Username string
	Password string
}

// defaultEmailDomains is the allow-list used when ALLOWED_EMAIL_DOMAINS is unset
var defaultEmailDomains = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"icloud.com",
	"aol.com",
	"protonmail.com",
	"zoho.com",
	"yandex.com",
	"mail.com",
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	// Build config based on APP_MODE
	config := &Config{
		AppMode: appMode,
		Port:    getEnv("PORT", "3000"),
		GitHub:  loadGitHubConfig(appMode),
		JWT:     loadJWTConfig(appMode),
		Cookie:  loadCookieConfig(appMode),
		Admin:   loadAdminConfig(),

		AllowedEmailDomains: loadAllowedEmailDomains(),
	}

	if config.GitHub.Repo == "" {
		return nil, fmt.Errorf("GITHUB_REPO is required (format: username/repo-name)")
	}
	if config.GitHub.Token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required")
	}

	// Set global config
	AppConfig = config

	log.Printf("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

// loadGitHubConfig loads document store coordinates based on mode
func loadGitHubConfig(mode string) GitHubConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return GitHubConfig{
		APIURL: getEnv("GITHUB_API_URL", "https://api.github.com"),
		Repo:   getEnv(prefix+"GITHUB_REPO", getEnv("GITHUB_REPO", "")),
		Token:  getEnv(prefix+"GITHUB_TOKEN", getEnv("GITHUB_TOKEN", "")),
		Owner:  getEnv(prefix+"GITHUB_OWNER", getEnv("GITHUB_OWNER", "")),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadAdminConfig loads admin bootstrap credentials (no password default on purpose)
func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Username: getEnv("ADMIN_USERNAME", "admin"),
		Password: os.Getenv("ADMIN_PASSWORD"),
	}
}

// loadAllowedEmailDomains parses the comma-separated domain allow-list
func loadAllowedEmailDomains() []string {
	raw := getEnv("ALLOWED_EMAIL_DOMAINS", "")
	if raw == "" {
		return defaultEmailDomains
	}

	var domains []string
	for _, d := range strings.Split(raw, ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			domains = append(domains, d)
		}
	}
	if len(domains) == 0 {
		return defaultEmailDomains
	}
	return domains
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// IsEmailDomainAllowed checks a domain against the allow-list
func (c *Config) IsEmailDomainAllowed(domain string) bool {
	domain = strings.ToLower(domain)
	for _, d := range c.AllowedEmailDomains {
		if d == domain {
			return true
		}
	}
	return false
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		// Default production origins
		return "https://kidwallet.example.com"
	}
	return origins
}
