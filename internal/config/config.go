package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	SessionStore string // postgres / memory

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	JWTSecret string        // JWT署名シークレット
	AccessTTL time.Duration // アクセストークンの有効期限

	GoEnv string // dev/prod

	DocumentServerURL     string        // 伝票サーバー（価格・税計算・保存）のURL
	DocumentServerTimeout time.Duration // 1リクエストのタイムアウト

	RedisAddr      string        // 空なら検索キャッシュなし
	RedisPassword  string        //
	SearchCacheTTL time.Duration // 検索結果のキャッシュ時間

	CashPaymentMethod string // 現金の支払方法コード

	LogFile string // ローテーションするログファイル
}

// Loadは YAML（POS_CONFIG_FILE、任意）→ 環境変数 の順に重ねて読む
func Load() (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("POS_CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	// 環境変数はそのまま小文字のキーにする（POSTGRES_HOST -> postgres_host）
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (Config, error) {
	cfg := Config{
		Port: getString(k, "port", "8080"),

		SessionStore: getString(k, "session_store", "postgres"),

		DatabaseURL:      k.String("database_url"),
		PostgresUser:     getString(k, "postgres_user", "postgres"),
		PostgresPassword: getString(k, "postgres_password", "postgres"),
		PostgresDB:       getString(k, "postgres_db", "pos"),
		PostgresHost:     getString(k, "postgres_host", "localhost"),
		PostgresPort:     getInt(k, "postgres_port", 5432),
		PostgresSSLMode:  getString(k, "postgres_sslmode", "disable"),

		JWTSecret: k.String("jwt_secret"),
		AccessTTL: getDuration(k, "access_ttl", 12*time.Hour),

		GoEnv: getString(k, "go_env", "dev"),

		DocumentServerURL:     k.String("document_server_url"),
		DocumentServerTimeout: getDuration(k, "document_server_timeout", 10*time.Second),

		RedisAddr:      k.String("redis_addr"),
		RedisPassword:  k.String("redis_password"),
		SearchCacheTTL: getDuration(k, "search_cache_ttl", 30*time.Second),

		CashPaymentMethod: getString(k, "cash_payment_method", "CONT"),

		LogFile: getString(k, "log_file", "./logs/pos.log"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DocumentServerURL == "" {
		return Config{}, fmt.Errorf("DOCUMENT_SERVER_URL is required")
	}
	switch cfg.SessionStore {
	case "postgres", "memory":
	default:
		return Config{}, fmt.Errorf("SESSION_STORE must be postgres or memory")
	}
	if cfg.DocumentServerTimeout <= 0 {
		return Config{}, fmt.Errorf("DOCUMENT_SERVER_TIMEOUT must be > 0")
	}

	return cfg, nil
}

// ポート番号を ":8080" 形式に
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// DSNを組み立てる（DATABASE_URLがあればそれ）
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getString(k *koanf.Koanf, key, def string) string {
	if v := k.String(key); v != "" {
		return v
	}
	return def
}

func getInt(k *koanf.Koanf, key string, def int) int {
	if !k.Exists(key) {
		return def
	}
	return k.Int(key)
}

func getDuration(k *koanf.Koanf, key string, def time.Duration) time.Duration {
	if !k.Exists(key) {
		return def
	}
	return k.Duration(key)
}
