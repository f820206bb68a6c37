package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/viper"
)

// Credentials are the two Naver Open API secrets sent with every call.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// Configured reports whether both secrets are present.
func (c Credentials) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Error is a configuration problem the user has to resolve before any
// remote call can be made. Msg is user-facing.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// missingCredsMsg is shown verbatim to the user when neither the config
// file nor the environment provides the API secrets.
const missingCredsMsg = "NAVER_CLIENT_ID / NAVER_CLIENT_SECRET이 설정되지 않았습니다.\n" +
	"• 방법 A: 프로젝트 루트에 `naverboard.yaml` (naver.client_id / naver.client_secret)\n" +
	"• 방법 B: 환경변수 NAVER_CLIENT_ID, NAVER_CLIENT_SECRET"

// Config holds all server settings. Credentials resolve lazily so the
// server can start without them and report the problem per request.
type Config struct {
	Port        string
	CORSOrigins []string

	CacheBackend  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	SessionTTL time.Duration

	fileClientID     string
	fileClientSecret string
}

// Load reads the optional config file and the environment. The file path
// defaults to ./naverboard.yaml and can be overridden with NAVERBOARD_CONFIG.
// For the credentials the file wins over the environment; everything else
// follows viper's usual env-over-file precedence.
func Load() (*Config, error) {
	vp := viper.New()
	vp.SetConfigType("yaml")
	if path := os.Getenv("NAVERBOARD_CONFIG"); path != "" {
		vp.SetConfigFile(path)
	} else {
		vp.SetConfigName("naverboard")
		vp.AddConfigPath(".")
		vp.AddConfigPath("./config")
	}

	vp.SetDefault("port", "8080")
	vp.SetDefault("cors.origins", []string{"http://localhost:3000"})
	vp.SetDefault("cache.backend", "memory")
	vp.SetDefault("cache.ttl", "10m")
	vp.SetDefault("redis.addr", "")
	vp.SetDefault("redis.password", "")
	vp.SetDefault("redis.db", 0)
	vp.SetDefault("session.ttl", "1h")

	if err := vp.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || os.IsNotExist(err) {
			log.Printf("[INFO] no config file found, using environment and defaults")
		} else {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	} else {
		log.Printf("[INFO] loaded config file %s", vp.ConfigFileUsed())
	}

	// Capture the file-sourced credentials before enabling env overrides:
	// for the two secrets the file must win over the environment.
	fileID := vp.GetString("naver.client_id")
	fileSecret := vp.GetString("naver.client_secret")

	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	cfg := &Config{
		Port:          firstNonEmpty(os.Getenv("PORT"), vp.GetString("port")),
		CORSOrigins:   vp.GetStringSlice("cors.origins"),
		CacheBackend:  vp.GetString("cache.backend"),
		RedisAddr:     vp.GetString("redis.addr"),
		RedisPassword: vp.GetString("redis.password"),
		RedisDB:       vp.GetInt("redis.db"),
		CacheTTL:      vp.GetDuration("cache.ttl"),
		SessionTTL:    vp.GetDuration("session.ttl"),

		fileClientID:     fileID,
		fileClientSecret: fileSecret,
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}
	return cfg, nil
}

// Credentials resolves the API secrets: config file first, then the
// process environment. Missing secrets are a hard stop for any remote
// call, reported with an instructional message.
func (c *Config) Credentials() (Credentials, error) {
	creds := Credentials{
		ClientID:     firstNonEmpty(c.fileClientID, os.Getenv("NAVER_CLIENT_ID")),
		ClientSecret: firstNonEmpty(c.fileClientSecret, os.Getenv("NAVER_CLIENT_SECRET")),
	}
	if !creds.Configured() {
		return Credentials{}, &Error{Msg: missingCredsMsg}
	}
	return creds, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
