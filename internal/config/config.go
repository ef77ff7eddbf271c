package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr string
	Port       string
	GinMode    string
	LogLevel   string
	LogFormat  string

	DatabaseDriver  string
	DatabasePath    string
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBSSLMode       string
	DBMaxOpenConns  int
	DBMaxIdleConns  int
	SessionSecret   string
	BlogAPIToken    string
	AdminUserName   string
	AdminPassword   string
	SiteBaseURL     string
	SiteName        string
	SiteDescription string
	SiteLogoURL     string
	SocialLinks     string
	CMSProjectID    string
	CMSDataset      string
	CMSAPIVersion   string
	CMSToken        string
	KVURL           string
	WaitlistBackend string
	WaitlistFile    string
	SubscribeLimit  int
	UploadDir       string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	port := getString("PORT", "8080")

	listenAddr := getString("LISTEN_ADDR", "")
	if listenAddr == "" {
		listenAddr = fmt.Sprintf(":%s", port)
	}

	driver := strings.ToLower(getString("DATABASE_DRIVER", "sqlite"))
	if driver != "postgres" {
		driver = "sqlite"
	}

	backend := strings.ToLower(getString("WAITLIST_BACKEND", "auto"))
	switch backend {
	case "auto", "kv", "sql", "file":
	default:
		backend = "auto"
	}

	return AppConfig{
		ListenAddr:      listenAddr,
		Port:            port,
		GinMode:         getString("GIN_MODE", "release"),
		LogLevel:        getString("LOG_LEVEL", "info"),
		LogFormat:       getString("LOG_FORMAT", "json"),
		DatabaseDriver:  driver,
		DatabasePath:    getString("DATABASE_PATH", "data/serpstrategist.db"),
		DBHost:          getString("DB_HOST", "localhost"),
		DBUser:          getString("DB_USER", "postgres"),
		DBPassword:      getString("DB_PASSWORD", ""),
		DBName:          getString("DB_NAME", "serpstrategist"),
		DBPort:          getString("DB_PORT", "5432"),
		DBSSLMode:       getString("DB_SSLMODE", "disable"),
		DBMaxOpenConns:  getInt("DB_MAX_OPEN_CONNS", 10),
		DBMaxIdleConns:  getInt("DB_MAX_IDLE_CONNS", 5),
		SessionSecret:   getString("SESSION_SECRET", "serpstrategist-dev-secret"),
		BlogAPIToken:    getString("BLOG_API_TOKEN", ""),
		AdminUserName:   getString("ADMIN_USER_NAME", ""),
		AdminPassword:   getString("ADMIN_PASSWORD", ""),
		SiteBaseURL:     strings.TrimRight(getString("SITE_BASE_URL", "https://serpstrategist.com"), "/"),
		SiteName:        getString("SITE_NAME", "SERP Strategist"),
		SiteDescription: getString("SITE_DESCRIPTION", "Rank tracking and SERP intelligence for growing teams."),
		SiteLogoURL:     getString("SITE_LOGO_URL", ""),
		SocialLinks:     getString("SITE_SOCIAL_LINKS", ""),
		CMSProjectID:    getString("CMS_PROJECT_ID", ""),
		CMSDataset:      getString("CMS_DATASET", "production"),
		CMSAPIVersion:   getString("CMS_API_VERSION", "2024-01-01"),
		CMSToken:        getString("CMS_TOKEN", ""),
		KVURL:           getString("KV_URL", ""),
		WaitlistBackend: backend,
		WaitlistFile:    getString("WAITLIST_FILE_PATH", "data/subscribers.json"),
		SubscribeLimit:  getInt("SUBSCRIBE_RATE_LIMIT", 10),
		UploadDir:       getString("UPLOAD_DIR", "data/uploads"),
	}
}

// PostgresDSN 拼接 gorm postgres 驱动使用的连接串。
func (c AppConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// DatabaseDSN 返回当前驱动对应的连接串：sqlite 为文件路径，postgres 为 DSN。
func (c AppConfig) DatabaseDSN() string {
	if c.DatabaseDriver == "postgres" {
		return c.PostgresDSN()
	}
	return c.DatabasePath
}

// CMSEnabled reports whether a headless CMS project is configured.
func (c AppConfig) CMSEnabled() bool {
	return c.CMSProjectID != ""
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
