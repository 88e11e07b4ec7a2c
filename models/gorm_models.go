// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord 对局记录模型
type GormGameRecord struct {
	gorm.Model
	RoomCode      string                 `gorm:"index;not null"`
	GameType      string                 `gorm:"not null"`
	Players       map[string]interface{} `gorm:"type:jsonb"`
	Winners       map[string]interface{} `gorm:"type:jsonb"`
	NumbersCalled int                    `gorm:"default:0"`
	Duration      int                    `gorm:"default:0"` // 对局时长(秒)
}

// GormWinRecord 中奖记录模型
type GormWinRecord struct {
	gorm.Model
	RoomCode   string `gorm:"index;not null"`
	GameType   string `gorm:"not null"`
	PlayerName string `gorm:"index;not null"`
	Pattern    string `gorm:"not null"`
	Prize      string
}
