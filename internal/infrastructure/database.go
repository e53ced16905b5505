package infrastructure

import (
	"fmt"
	"log/slog"
	"time"

	"tmf-api/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenStore はcfg.Store.Driverに応じたストアを作成
func OpenStore(cfg *config.Config, log *slog.Logger) (Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "postgres":
		db, err := ConnectDatabase(postgres.Open(cfg.Database.DSN()), cfg.Database, log)
		if err != nil {
			return nil, err
		}
		return migratedStore(db)
	case "sqlite":
		db, err := ConnectDatabase(sqlite.Open(cfg.Store.SQLitePath), cfg.Database, log)
		if err != nil {
			return nil, err
		}
		// SQLiteは書き込みが直列化されるため接続は1つに限定する
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		return migratedStore(db)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func migratedStore(db *gorm.DB) (Store, error) {
	if err := MigrateResourceSchema(db); err != nil {
		return nil, err
	}
	return NewGormStore(db), nil
}

// ConnectDatabase はデータベースに接続
func ConnectDatabase(dialector gorm.Dialector, dbCfg config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	level := logger.Silent
	if dbCfg.LogQueries {
		level = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(log.Handler(), slog.LevelDebug),
			logger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// コネクションプールの設定
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// MigrateResourceSchema はドキュメントテーブルとインデックスを作成
func MigrateResourceSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&ResourceRecord{}); err != nil {
		return fmt.Errorf("failed to migrate ResourceRecord table: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_tmf_resources_collection_created
		ON tmf_resources(collection, created_at)
	`).Error; err != nil {
		return fmt.Errorf("failed to create resource indexes: %w", err)
	}

	return nil
}
