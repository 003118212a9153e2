package config

import (
	"context"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	DBDSN         string        `env:"DB_DSN,required"`
	ServerPort    string        `env:"SERVER_PORT,default=8080"`
	JWTSecret     string        `env:"JWT_SECRET,required"`
	SessionSecret string        `env:"SESSION_SECRET,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,default=192h"`

	AllowedOrigins     []string `env:"CORS_ALLOWED_ORIGINS,default=http://localhost:5173"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE,default=300"`

	// категории, которым разрешён общий IP (камеры, роутеры и т.п.)
	SharedIPCategories []string `env:"SHARED_IP_CATEGORIES,default=CTV,CCTV,RTR,ROUTER,SWT,SWITCH,AP,ACCESS POINT,FPR,FINGERPRINT"`

	ImportMaxBytes int64  `env:"IMPORT_MAX_BYTES,default=5242880"`
	AvatarMaxBytes int64  `env:"AVATAR_MAX_BYTES,default=2097152"`
	UploadDir      string `env:"UPLOAD_DIR,default=uploads"`

	S3 S3Config `env:",prefix=S3_"`

	NATSURL      string `env:"NATS_URL"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	AdminEmail    string `env:"ADMIN_EMAIL,default=admin@bpkpenabur.id"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminFullName string `env:"ADMIN_FULL_NAME,default=Super Admin IT"`
	SeedDemoUsers bool   `env:"SEED_DEMO_USERS,default=false"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogPretty bool   `env:"LOG_PRETTY,default=false"`
}

type S3Config struct {
	Endpoint  string `env:"ENDPOINT"`
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION,default=us-east-1"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	PublicURL string `env:"PUBLIC_URL"`
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return FromLookuper(ctx, envconfig.OsLookuper())
}

// FromLookuper is Load without the .env side effect.
func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}

	for i, c := range cfg.SharedIPCategories {
		cfg.SharedIPCategories[i] = strings.TrimSpace(c)
	}
	return &cfg, nil
}
