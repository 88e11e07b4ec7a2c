// protocol/protocol.go
//
// 入站/出站信封都是以 type 字段区分的封闭变体集合，
// 字段集固定，在边界处解析校验，不使用开放的任意键 map。
package protocol

import (
	"github.com/amenassefagashaye/epiphany/game"
	"github.com/amenassefagashaye/epiphany/models"
)

type MessageType string

// 入站消息类型
const (
	TypeCreateRoom  MessageType = "create_room"
	TypeJoinRoom    MessageType = "join_room"
	TypeLeaveRoom   MessageType = "leave_room"
	TypeStartGame   MessageType = "start_game"
	TypeCallNumber  MessageType = "call_number"
	TypeClaimWin    MessageType = "claim_win"
	TypeChatMessage MessageType = "chat_message"
	TypeGetRooms    MessageType = "get_rooms"
	TypeAutoCall    MessageType = "auto_call"
)

// 出站消息类型
const (
	TypePlayerConnected MessageType = "player_connected"
	TypeRoomCreated     MessageType = "room_created"
	TypeRoomJoined      MessageType = "room_joined"
	TypePlayerJoined    MessageType = "player_joined"
	TypePlayerLeft      MessageType = "player_left"
	TypeGameStarted     MessageType = "game_started"
	TypeNumberCalled    MessageType = "number_called"
	TypePlayerWin       MessageType = "player_win"
	TypeRoomsList       MessageType = "rooms_list"
	TypeError           MessageType = "error"
)

// Inbound 只携带判别字段，具体负载按类型二次解析
type Inbound struct {
	Type MessageType `json:"type"`
}

type CreateRoomRequest struct {
	PlayerName string `json:"playerName"`
	GameType   string `json:"gameType"`
}

type JoinRoomRequest struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type LeaveRoomRequest struct {
	RoomCode string `json:"roomCode"`
}

type StartGameRequest struct {
	RoomCode string `json:"roomCode"`
}

type CallNumberRequest struct {
	RoomCode string `json:"roomCode"`
}

type ClaimWinRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Pattern  string `json:"pattern"`
}

type ChatRequest struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

type AutoCallRequest struct {
	RoomCode string `json:"roomCode"`
	Enabled  bool   `json:"enabled"`
}

type PlayerConnected struct {
	Type     MessageType `json:"type"`
	PlayerID string      `json:"playerId"`
}

type RoomCreated struct {
	Type      MessageType       `json:"type"`
	RoomCode  string            `json:"roomCode"`
	GameState *models.GameState `json:"gameState"`
	Board     *game.Board       `json:"board,omitempty"`
}

type RoomJoined struct {
	Type      MessageType       `json:"type"`
	RoomCode  string            `json:"roomCode"`
	GameState *models.GameState `json:"gameState"`
	Board     *game.Board       `json:"board,omitempty"`
}

type PlayerJoined struct {
	Type   MessageType       `json:"type"`
	Player models.PlayerInfo `json:"player"`
}

type PlayerLeft struct {
	Type       MessageType `json:"type"`
	PlayerID   string      `json:"playerId"`
	PlayerName string      `json:"playerName"`
	NewHostID  string      `json:"newHostId,omitempty"`
}

type GameStarted struct {
	Type      MessageType       `json:"type"`
	GameState *models.GameState `json:"gameState"`
	Board     *game.Board       `json:"board"`
}

type NumberCalled struct {
	Type          MessageType `json:"type"`
	Number        int         `json:"number"`
	CallerID      string      `json:"callerId"`
	CallerName    string      `json:"callerName"`
	CalledNumbers []int       `json:"calledNumbers"`
}

type PlayerWin struct {
	Type       MessageType `json:"type"`
	PlayerID   string      `json:"playerId"`
	PlayerName string      `json:"playerName"`
	Pattern    string      `json:"pattern"`
	Prize      string      `json:"prize,omitempty"`
}

type ChatMessage struct {
	Type       MessageType `json:"type"`
	PlayerID   string      `json:"playerId"`
	PlayerName string      `json:"playerName"`
	Message    string      `json:"message"`
}

type RoomsList struct {
	Type  MessageType          `json:"type"`
	Rooms []models.RoomSummary `json:"rooms"`
}

type ErrorMessage struct {
	Type    MessageType `json:"type"`
	Message string      `json:"message"`
}

func NewPlayerConnected(playerID string) *PlayerConnected {
	return &PlayerConnected{Type: TypePlayerConnected, PlayerID: playerID}
}

func NewRoomCreated(code string, state *models.GameState) *RoomCreated {
	return &RoomCreated{Type: TypeRoomCreated, RoomCode: code, GameState: state}
}

func NewRoomJoined(code string, state *models.GameState) *RoomJoined {
	return &RoomJoined{Type: TypeRoomJoined, RoomCode: code, GameState: state}
}

func NewPlayerJoined(player models.PlayerInfo) *PlayerJoined {
	return &PlayerJoined{Type: TypePlayerJoined, Player: player}
}

func NewPlayerLeft(playerID, playerName, newHostID string) *PlayerLeft {
	return &PlayerLeft{Type: TypePlayerLeft, PlayerID: playerID, PlayerName: playerName, NewHostID: newHostID}
}

func NewGameStarted(state *models.GameState, board *game.Board) *GameStarted {
	return &GameStarted{Type: TypeGameStarted, GameState: state, Board: board}
}

func NewNumberCalled(number int, callerID, callerName string, called []int) *NumberCalled {
	return &NumberCalled{Type: TypeNumberCalled, Number: number, CallerID: callerID, CallerName: callerName, CalledNumbers: called}
}

func NewPlayerWin(w models.Winner, prize string) *PlayerWin {
	return &PlayerWin{Type: TypePlayerWin, PlayerID: w.PlayerID, PlayerName: w.PlayerName, Pattern: w.Pattern, Prize: prize}
}

func NewChatMessage(playerID, playerName, message string) *ChatMessage {
	return &ChatMessage{Type: TypeChatMessage, PlayerID: playerID, PlayerName: playerName, Message: message}
}

func NewRoomsList(rooms []models.RoomSummary) *RoomsList {
	return &RoomsList{Type: TypeRoomsList, Rooms: rooms}
}

func NewError(message string) *ErrorMessage {
	return &ErrorMessage{Type: TypeError, Message: message}
}
