package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"care-circle-api/models"
)

type Config struct {
	Debug  bool   `env:"DEBUG" envDefault:"false"`
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"care_circle.db"`

	JWTSecret     string `env:"JWT_SECRET" envDefault:"care_circle_super_secret_2024"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`

	// Seed admin, created on first start when no admin exists
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@carecircle.local"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
}

var (
	DB *gorm.DB

	// JWTSecret used to sign tokens, populated by Load
	JWTSecret []byte

	// TokenTTL is the lifetime of issued tokens, populated by Load
	TokenTTL = 24 * time.Hour
)

// Load reads environment variables into Config. A .env file is honored when
// present; in production the variables are set directly.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to parse environment")
	}
	JWTSecret = []byte(cfg.JWTSecret)
	TokenTTL = time.Duration(cfg.TokenTTLHours) * time.Hour
	return cfg
}

// InitDB opens the sqlite database, migrates the schema, and seeds the
// admin account if none exists yet.
func InitDB(cfg *Config) {
	var err error
	DB, err = gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	seedAdmin(cfg)
	log.Info().Str("db", cfg.DBPath).Msg("Database connected and migrated")
}

// Migrate applies the schema for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ElderProfile{},
		&models.HelperProfile{},
		&models.CareRequest{},
		&models.RequestStatusHistory{},
		&models.Certificate{},
	)
}

func seedAdmin(cfg *Config) {
	var count int64
	DB.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash admin password")
	}
	admin := models.User{
		Role:         models.RoleAdmin,
		Name:         "Admin",
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Language:     models.LanguageEnglish,
		Avatar:       "A",
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin user")
	}
	log.Info().Str("email", cfg.AdminEmail).Msg("Seeded admin account")
}
