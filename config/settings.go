package config

import (
	"fmt"
	"strings"
	"time"
)

type DatabaseSettings struct {
	Type         string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	ReadReplicas []string
	SQLitePath   string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN builds the postgres connection string. Supabase always requires TLS.
func (d DatabaseSettings) DSN() string {
	sslMode := d.SSLMode
	if d.Type == "supa" {
		sslMode = "require"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, sslMode)
}

type AuthSettings struct {
	VerifyURL     string
	Admins        []string
	VerifyTimeout time.Duration
}

type ServerSettings struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
	MaxBodyBytes int64
}

type LogSettings struct {
	Level  string
	Format string
	File   string
}

type Settings struct {
	Server               ServerSettings
	Database             DatabaseSettings
	Auth                 AuthSettings
	Log                  LogSettings
	GenerateModels       bool
	GenerateColumnReport bool
}

// Load builds typed settings from a config map produced by New.
func Load(c map[string]string) (Settings, error) {
	s := Settings{
		Server: ServerSettings{
			Port:         GetString(c, "PORT", "5001"),
			ReadTimeout:  GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
			WriteTimeout: GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
			IdleTimeout:  GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
			CORSOrigins:  GetList(c, "CORS_ORIGINS"),
			MaxBodyBytes: int64(GetInt(c, "MAX_BODY_BYTES", 1<<20)),
		},
		Database: DatabaseSettings{
			Type:         strings.ToLower(GetString(c, "DB_TYPE", "postgres")),
			Host:         GetString(c, "DB_HOST", "localhost"),
			Port:         GetString(c, "DB_PORT", "5432"),
			User:         GetString(c, "DB_USERNAME", ""),
			Password:     GetString(c, "DB_PASSWORD", ""),
			Name:         GetString(c, "DB_NAME", "projects"),
			SSLMode:      GetString(c, "DB_SSLMODE", "disable"),
			ReadReplicas: GetList(c, "DB_READ_REPLICAS"),
			SQLitePath:   GetString(c, "SQLITE_PATH", "projects.db"),
			MaxOpenConns: GetInt(c, "DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: GetInt(c, "DB_MAX_IDLE_CONNS", 5),
		},
		Auth: AuthSettings{
			VerifyURL:     GetString(c, "VERIFY_URL", ""),
			Admins:        GetList(c, "ADMIN_LIST"),
			VerifyTimeout: GetSeconds(c, "VERIFY_TIMEOUT_SECONDS", 5),
		},
		Log: LogSettings{
			Level:  GetString(c, "LOG_LEVEL", "info"),
			Format: GetString(c, "LOG_FORMAT", "console"),
			File:   GetString(c, "LOG_FILE", ""),
		},
		GenerateModels:       GetBool(c, "GENERATE_MODELS", false),
		GenerateColumnReport: GetBool(c, "GENERATE_COLUMN_REPORT", false),
	}

	switch s.Database.Type {
	case "postgres", "supa", "sqlite":
	default:
		return s, fmt.Errorf("unsupported DB_TYPE %q", s.Database.Type)
	}
	if s.Auth.VerifyURL == "" {
		return s, fmt.Errorf("VERIFY_URL is required")
	}
	if len(s.Auth.Admins) == 0 {
		return s, fmt.Errorf("ADMIN_LIST is required")
	}
	return s, nil
}
