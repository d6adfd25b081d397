// Package config carries the runtime configuration for the retention
// policy service. Values come from CLI flags, RETENTION_* environment
// variables, or a config file, all mediated by viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved configuration.
type Config struct {
	Port    string
	DataDir string

	// Seed admin account.
	AdminUsername string
	AdminPassword string

	// Access control.
	AllowedIPs []string
	SessionTTL time.Duration

	// Upload limits.
	MaxUploadBytes  int64
	UploadRatePerIP float64 // uploads per second
	UploadBurst     int

	// Extraction.
	ScanRowLimit   int
	DefaultVersion string

	// CORS origin for the web client; "*" during development.
	CORSOrigin string
}

// SetDefaults registers defaults on v. Flag and env bindings happen in
// the CLI layer.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "5000")
	v.SetDefault("data_dir", "data")
	v.SetDefault("admin_username", "admin")
	v.SetDefault("admin_password", "")
	v.SetDefault("allowed_ips", []string{})
	v.SetDefault("session_ttl", "30m")
	v.SetDefault("max_upload_bytes", int64(20<<20)) // 20MB
	v.SetDefault("upload_rate_per_ip", 0.2)         // one upload per 5s
	v.SetDefault("upload_burst", 3)
	v.SetDefault("scan_row_limit", 100)
	v.SetDefault("default_version", "v1")
	v.SetDefault("cors_origin", "*")
}

// Load resolves the configuration from v.
func Load(v *viper.Viper) Config {
	cfg := Config{
		Port:            v.GetString("port"),
		DataDir:         v.GetString("data_dir"),
		AdminUsername:   v.GetString("admin_username"),
		AdminPassword:   v.GetString("admin_password"),
		AllowedIPs:      v.GetStringSlice("allowed_ips"),
		SessionTTL:      v.GetDuration("session_ttl"),
		MaxUploadBytes:  v.GetInt64("max_upload_bytes"),
		UploadRatePerIP: v.GetFloat64("upload_rate_per_ip"),
		UploadBurst:     v.GetInt("upload_burst"),
		ScanRowLimit:    v.GetInt("scan_row_limit"),
		DefaultVersion:  v.GetString("default_version"),
		CORSOrigin:      v.GetString("cors_origin"),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.ScanRowLimit <= 0 {
		cfg.ScanRowLimit = 100
	}

	return cfg
}

// Validate checks the configuration for serving.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.AdminPassword == "" {
		return fmt.Errorf("admin_password is required (set RETENTION_ADMIN_PASSWORD)")
	}
	return nil
}
