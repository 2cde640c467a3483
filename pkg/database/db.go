package database

import (
	"Lumen/config"
	"Lumen/models"
	"Lumen/pkg/log"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 初始化数据库连接
func NewDB(conf *config.Config) *gorm.DB {
	gormConf := &gorm.Config{TranslateError: true}
	if !conf.MySQL.LogSQL {
		gormConf.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(mysql.Open(conf.MySQL.Dsn()), gormConf)
	if err != nil {
		log.L.Fatal("failed to connect database", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.L.Fatal("failed to get sql.DB", zap.Error(err))
	}
	if conf.MySQL.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(conf.MySQL.MaxOpen)
	}
	if conf.MySQL.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(conf.MySQL.MaxIdle)
	}

	log.L.Info("connect database success")
	return db
}

// Migrate 建表/补字段，只在 migrate 命令和测试中调用
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.PointsAccount{},
		&models.PointAction{},
		&models.StreakState{},
		&models.DailyLog{},
		&models.LeaderboardSnapshot{},
	)
}
