package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool

		AppName          string
		SecretKey        string
		SiteURL          string
		ContactEmail     string
		ContactPhone     string
		NotifyEmail      string
		SendgridApiKey   string
		RollbarToken     string
		Timezone         *time.Location
		defaultFromEmail string

		Server   ServerConfig
		Database DatabaseConfig
		Admin    AdminConfig
		Gallery  GalleryConfig
	}

	ServerConfig struct {
		Address                   string
		DebugHost                 string
		Host                      string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
		AllowedOrigins            []string
		LoginMaxAttempts          int
		LoginLockout              time.Duration
		DisableRequestLogs        bool
	}

	DatabaseConfig struct {
		Engine        string // postgres | memory
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	AdminConfig struct {
		Email        string
		Password     string
		PasswordHash string
	}

	GalleryConfig struct {
		Seed bool
	}
)

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.defaultFromEmail}
}

// SiteInfo is the site wide data every email template is rendered with.
func (c *Config) SiteInfo() SiteInfo {
	return SiteInfo{
		AppName:      c.AppName,
		SiteURL:      c.SiteURL,
		ContactEmail: c.ContactEmail,
		ContactPhone: c.ContactPhone,
	}
}

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

func (db DatabaseConfig) InMemory() bool {
	return db.Engine == "memory"
}

// NewConfig loads the configuration of the current environment (ENV).
// Values come from (in order of precedence): env vars prefixed with the environment name,
// config/.env.<env> and the defaults below.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("build", "dev")
	v.SetDefault("appName", "Fatima School & College")
	v.SetDefault("secretKey", "s3x!k2v@7qz9-r#0l4m^nb8&w)hf1pcj5(ty6dgu")
	v.SetDefault("siteURL", "http://localhost:3000")
	v.SetDefault("contactEmail", "info@localhost")
	v.SetDefault("contactPhone", "")
	v.SetDefault("notifyEmail", "admin@localhost")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("timezone", "Local")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 12*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("server.loginMaxAttempts", 5)
	v.SetDefault("server.loginLockout", 15*time.Minute)
	v.SetDefault("server.disableRequestLogs", false)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "school")
	v.SetDefault("database.user", "school")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("admin.email", "admin@localhost")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.passwordHash", "")

	v.SetDefault("gallery.seed", true)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	confDir := os.Getenv("CONFIG_DIR")
	if confDir == "" {
		confDir = "config"
	}
	dotEnvPath := filepath.Join(confDir, ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return newConfig(env, v)
}

func newConfig(env string, v *viper.Viper) *Config {
	tz, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		log.Fatalf("config.timezone(%s): %v", v.GetString("timezone"), err)
	}

	return &Config{
		Env:              env,
		Build:            v.GetString("build"),
		Debug:            v.GetBool("debug"),
		TestMode:         v.GetBool("testMode"),
		AppName:          v.GetString("appName"),
		SecretKey:        v.GetString("secretKey"),
		SiteURL:          v.GetString("siteURL"),
		ContactEmail:     v.GetString("contactEmail"),
		ContactPhone:     v.GetString("contactPhone"),
		NotifyEmail:      v.GetString("notifyEmail"),
		SendgridApiKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Timezone:         tz,
		defaultFromEmail: v.GetString("defaultFromEmail"),
		Server: ServerConfig{
			Address:                   v.GetString("server.address"),
			DebugHost:                 v.GetString("server.debugHost"),
			Host:                      v.GetString("server.host"),
			ShutdownTimeout:           v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        v.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: v.GetDuration("server.jwtRefreshExpirationDelta"),
			AllowedOrigins:            v.GetStringSlice("server.allowedOrigins"),
			LoginMaxAttempts:          v.GetInt("server.loginMaxAttempts"),
			LoginLockout:              v.GetDuration("server.loginLockout"),
			DisableRequestLogs:        v.GetBool("server.disableRequestLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Admin: AdminConfig{
			Email:        CleanString(v.GetString("admin.email"), true),
			Password:     v.GetString("admin.password"),
			PasswordHash: v.GetString("admin.passwordHash"),
		},
		Gallery: GalleryConfig{
			Seed: v.GetBool("gallery.seed"),
		},
	}
}

// NewTestConfig returns the configuration used by tests: in-memory storage, no request logs.
func NewTestConfig() *Config {
	v := viper.New()
	v.SetDefault("testMode", true)
	v.SetDefault("debug", false)
	conf := newConfig("TEST", v)
	conf.AppName = "Test School"
	conf.SecretKey = "test-secret"
	conf.SiteURL = "http://localhost:3000"
	conf.ContactEmail = "info@test.school"
	conf.NotifyEmail = "inbox@test.school"
	conf.defaultFromEmail = "noreply@test.school"
	conf.Timezone = time.UTC
	conf.Server.JWTExpirationDelta = 10 * time.Minute
	conf.Server.JWTRefreshExpirationDelta = 4 * time.Hour
	conf.Server.LoginMaxAttempts = 3
	conf.Server.LoginLockout = time.Minute
	conf.Server.DisableRequestLogs = true
	conf.Database.Engine = "memory"
	conf.Admin.Email = "admin@test.school"
	return conf
}
