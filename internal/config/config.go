package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // 指定されていれば最優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	JWTSecret string        // JWT署名シークレット
	JWTTTL    time.Duration // アクセストークンの有効期限

	GoEnv     string // development/production
	UploadDir string // 商品画像の保存先
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Loadは環境変数から設定を組み立てる
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "inventory"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getenv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv:     getenv("GO_ENV", "development"),
		UploadDir: getenv("UPLOAD_DIR", "./uploads"),
	}

	//トークン有効期限（時間単位、デフォルト7日）
	ttlHours := 24 * 7
	if v := os.Getenv("JWT_TTL_HOURS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("JWT_TTL_HOURS must be a positive number")
		}
		ttlHours = n
	}
	cfg.JWTTTL = time.Duration(ttlHours) * time.Hour

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
