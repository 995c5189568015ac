package database

import (
	"errors"
	"fmt"
	"time"

	"task-management-backend/internal/config"
	"task-management-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Connect initializes and returns a GORM database connection
func Connect(cfg *config.Config, log *zap.Logger) *gorm.DB {
	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		log.Fatal("Unsupported database driver", zap.Error(err))
	}

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.GinMode == "release" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database instance", zap.Error(err))
	}

	// Set connection pool settings
	if cfg.Database.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		log.Fatal("Failed to ping database", zap.Error(err))
	}

	log.Info("Successfully connected to database", zap.String("driver", cfg.Database.Driver))

	return db
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Database,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

// Models lists every table in dependency order. Relationships are declared on the
// structs themselves, so migrating this list wires the whole schema.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.TokenRecord{},
		&models.Status{},
		&models.Task{},
		&models.TaskShare{},
		&models.SubTask{},
		&models.Reminder{},
		&models.AuditLog{},
	}
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// SeedStatuses inserts the default workflow statuses if they are missing
func SeedStatuses(db *gorm.DB) error {
	for _, name := range []string{models.StatusTodo, models.StatusInProgress, models.StatusDone} {
		status := models.Status{Status: name}
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&status).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("failed to seed status %s: %w", name, err)
		}
	}
	return nil
}
