package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	RedisAddr     string // 通知outbox用
	RedisPassword string

	// ストアごとのTossシークレット。キーはstore.SecretKeyName（小文字）。
	// 未登録の名前はTossSecretDefaultにフォールバック。
	TossSecrets       map[string]string
	TossSecretDefault string
	TossBaseURL       string

	RendererURL string // 領収書PDFレンダラ
	BlobDir     string // 生成PDFの置き場所
	BlobBaseURL string // 公開URLの接頭辞

	NotifyAPIURL string // アリムトーク送信API
	NotifyAPIKey string

	SweepInterval time.Duration // スイーパーの周期

	LogLevel string
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		TossSecrets:       loadTossSecrets(),
		TossSecretDefault: os.Getenv("TOSS_SECRET_DEFAULT"),
		TossBaseURL:       getenv("TOSS_BASE_URL", "https://api.tosspayments.com"),

		RendererURL: os.Getenv("RENDERER_URL"),
		BlobDir:     getenv("BLOB_DIR", "./data/receipts"),
		BlobBaseURL: getenv("BLOB_BASE_URL", ""),

		NotifyAPIURL: os.Getenv("NOTIFY_API_URL"),
		NotifyAPIKey: os.Getenv("NOTIFY_API_KEY"),

		SweepInterval: 10 * time.Minute,

		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("SWEEP_INTERVAL must be duration: %w", err)
		}
		cfg.SweepInterval = d
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TossSecretDefault == "" {
		return Config{}, fmt.Errorf("TOSS_SECRET_DEFAULT is required")
	}

	return cfg, nil
}

// TOSS_SECRET_<NAME>=sk_... をまとめて読む。NAMEは小文字化して引く。
func loadTossSecrets() map[string]string {
	secrets := map[string]string{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" {
			continue
		}
		if !strings.HasPrefix(name, "TOSS_SECRET_") || name == "TOSS_SECRET_DEFAULT" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, "TOSS_SECRET_"))
		secrets[key] = value
	}
	return secrets
}

// ResolveTossSecretはストアのシークレット名から実キーを引く。
// 未知の名前・空の名前はデフォルトに落ちる。
func (c Config) ResolveTossSecret(name string) string {
	if name != "" {
		if v, ok := c.TossSecrets[strings.ToLower(name)]; ok {
			return v
		}
	}
	return c.TossSecretDefault
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
