// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/amenassefagashaye/epiphany/models"
)

// Database 对局归档接口。只保存已结束对局与中奖记录，
// 房间本身的状态不做跨进程持久化。
type Database interface {
	SaveGameRecord(record *models.GameRecord) error
	SaveWin(roomCode, gameType, playerName, pattern, prize string) error
	CountWins(playerName string) (int64, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
