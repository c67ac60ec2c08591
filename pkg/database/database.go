package database

import (
	"errors"
	"fmt"

	"school_exam_backend/internal/config"
	"school_exam_backend/internal/model"
	applog "school_exam_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=UTC",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	logMode := logger.Warn
	if cfg.Server.Mode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, err
	}

	applog.Log.Info("Database connection established",
		zap.String("host", dbCfg.Host),
		zap.String("db", dbCfg.DBName))
	return db, nil
}

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&model.School{},
		&model.User{},
		&model.Question{},
		&model.Paper{},
		&model.PaperQuestion{},
		&model.PaperResult{},
		&model.SpeechReport{},
		&model.PersonalityReport{},
		&model.PersonalityTest{},
		&model.PersonalityTestResponse{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	applog.Log.Info("Database migration completed")
	return nil
}

// SeedMasterAdmin creates the configured master admin when none exists yet.
func SeedMasterAdmin(db *gorm.DB, cfg config.BootstrapConfig) error {
	if cfg.MasterUsername == "" || cfg.MasterPassword == "" {
		return nil
	}

	var existing model.User
	err := db.Where("role = ?", model.RoleMasterAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := &model.User{
		Name:          cfg.MasterName,
		Username:      cfg.MasterUsername,
		Role:          model.RoleMasterAdmin,
		PlainPassword: cfg.MasterPassword,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	applog.Log.Info("Seeded master admin", zap.String("username", admin.Username))
	return nil
}
