// models/models.go
package models

import (
	"time"
)

// PlayerInfo 玩家信息（用于房间快照）
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Winner 中奖记录，按时间顺序追加
type Winner struct {
	PlayerID   string    `json:"playerId"`
	PlayerName string    `json:"playerName"`
	Pattern    string    `json:"pattern"`
	Timestamp  time.Time `json:"timestamp"`
}

// GameState 房间状态快照，广播给客户端
type GameState struct {
	Code          string       `json:"code"`
	GameType      string       `json:"gameType"`
	Status        string       `json:"status"`
	HostID        string       `json:"hostId"`
	Players       []PlayerInfo `json:"players"`
	CalledNumbers []int        `json:"calledNumbers"`
	CurrentNumber int          `json:"currentNumber"`
	WinPattern    string       `json:"winPattern"`
	Winners       []Winner     `json:"winners"`
}

// RoomSummary 房间列表条目
type RoomSummary struct {
	Code        string `json:"code"`
	GameType    string `json:"gameType"`
	HostName    string `json:"hostName"`
	PlayerCount int    `json:"playerCount"`
	Status      string `json:"status"`
}

// GameRecord 对局记录模型（持久化用）
type GameRecord struct {
	RoomCode      string       `json:"room_code"`
	GameType      string       `json:"game_type"`
	Players       []PlayerInfo `json:"players"`
	NumbersCalled int          `json:"numbers_called"`
	Winners       []Winner     `json:"winners"`
	Duration      int          `json:"duration"` // 对局时长(秒)
	CreatedAt     time.Time    `json:"created_at"`
}
