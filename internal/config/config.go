package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config agrupa los parámetros del servicio. Todo sale del ambiente;
// en desarrollo se puede usar un .env en el cwd.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Si DatabaseURL queda vacío el router usa los repos in-memory (dev/tests).
	DatabaseURL string `env:"DATABASE_URL"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"1h"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"pet-clinic-platform"`

	// Cuenta admin sembrada al arrancar (como el seed original de la clínica).
	// Si SeedAdminPassword está vacío no se siembra nada.
	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL" envDefault:"admin@email.com"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`
}

// Load lee .env (si existe) y luego el ambiente.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("config: loading .env: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = time.Hour
	}

	return &cfg, nil
}
