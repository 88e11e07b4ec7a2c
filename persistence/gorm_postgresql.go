// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/amenassefagashaye/epiphany/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormGameRecord{}, &models.GormWinRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

func (g *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	players := make(map[string]interface{}, len(record.Players))
	for _, p := range record.Players {
		players[p.ID] = p.Name
	}
	winners := make(map[string]interface{}, len(record.Winners))
	for _, w := range record.Winners {
		winners[w.PlayerID] = map[string]interface{}{
			"name":    w.PlayerName,
			"pattern": w.Pattern,
			"at":      w.Timestamp,
		}
	}

	return g.db.Create(&models.GormGameRecord{
		RoomCode:      record.RoomCode,
		GameType:      record.GameType,
		Players:       players,
		Winners:       winners,
		NumbersCalled: record.NumbersCalled,
		Duration:      record.Duration,
	}).Error
}

func (g *GormPostgreSQL) SaveWin(roomCode, gameType, playerName, pattern, prize string) error {
	return g.db.Create(&models.GormWinRecord{
		RoomCode:   roomCode,
		GameType:   gameType,
		PlayerName: playerName,
		Pattern:    pattern,
		Prize:      prize,
	}).Error
}

func (g *GormPostgreSQL) CountWins(playerName string) (int64, error) {
	var count int64
	err := g.db.Model(&models.GormWinRecord{}).
		Where("player_name = ?", playerName).
		Count(&count).Error
	return count, err
}

func (g *GormPostgreSQL) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
