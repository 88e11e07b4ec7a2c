// services/record_service.go
package services

import (
	"github.com/amenassefagashaye/epiphany/logger"
	"github.com/amenassefagashaye/epiphany/models"
	"github.com/amenassefagashaye/epiphany/persistence"
)

// RecordService 对局与中奖归档。数据库未启用时为 nil，所有方法都可
// 在 nil 接收者上安全调用；落库异步执行，不在叫号/裁定路径上阻塞。
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	if db == nil {
		return nil
	}
	return &RecordService{db: db}
}

func (s *RecordService) SaveGameRecord(record *models.GameRecord) {
	if s == nil {
		return
	}
	go func() {
		if err := s.db.SaveGameRecord(record); err != nil {
			logger.Log.Errorf("failed to save game record for room %s: %v", record.RoomCode, err)
		}
	}()
}

func (s *RecordService) SaveWin(roomCode, gameType string, w models.Winner, prize string) {
	if s == nil {
		return
	}
	go func() {
		if err := s.db.SaveWin(roomCode, gameType, w.PlayerName, w.Pattern, prize); err != nil {
			logger.Log.Errorf("failed to save win record for room %s: %v", roomCode, err)
		}
	}()
}

// CountWins 查询某玩家累计中奖次数（管理接口用）
func (s *RecordService) CountWins(playerName string) (int64, error) {
	if s == nil {
		return 0, persistence.ErrRecordNotFound
	}
	return s.db.CountWins(playerName)
}
