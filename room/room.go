// room/room.go
package room

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/amenassefagashaye/epiphany/game"
	"github.com/amenassefagashaye/epiphany/models"
)

// Status 表示房间的业务状态
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

var ErrRoomNotFound = errors.New("room not found")

// Member 房间成员，Members 切片保持加入顺序
type Member struct {
	ID   string
	Name string
}

// Room 是游戏房间的核心结构。除 Code/GameType/CreatedAt 外的字段
// 都由每房间互斥锁保护：调用方先 Lock 再读写，不同房间完全并行。
type Room struct {
	Code          string
	GameType      game.Type
	Status        Status
	HostID        string
	Members       []*Member
	Boards        map[string]*game.Board
	CalledNumbers []int
	CurrentNumber int
	WinPattern    game.Pattern
	Winners       []models.Winner
	CreatedAt     time.Time
	StartedAt     time.Time

	AutoCallTimer int64 // 自动叫号定时器 id，0 表示未开启

	remaining []int // 剩余号码池，开局时洗乱
	rng       *rand.Rand
	closed    bool
	mu        sync.Mutex
}

func newRoom(code string, gameType game.Type, hostID, hostName string) *Room {
	return &Room{
		Code:       code,
		GameType:   gameType,
		Status:     StatusWaiting,
		HostID:     hostID,
		Members:    []*Member{{ID: hostID, Name: hostName}},
		Boards:     make(map[string]*game.Board),
		WinPattern: gameType.DefaultPattern(),
		CreatedAt:  time.Now(),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *Room) Lock()   { r.mu.Lock() }
func (r *Room) Unlock() { r.mu.Unlock() }

// Closed 房间是否已销毁（在 Manager.Get 与 Lock 之间可能被销毁）
func (r *Room) Closed() bool {
	return r.closed
}

// --- 以下方法都要求调用方已持有房间锁 ---

func (r *Room) FindMember(id string) *Member {
	for _, m := range r.Members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (r *Room) AddMember(id, name string) {
	r.Members = append(r.Members, &Member{ID: id, Name: name})
}

// RemoveMember 移除成员并返回它；成员变空时由调用方负责销毁房间
func (r *Room) RemoveMember(id string) *Member {
	for i, m := range r.Members {
		if m.ID == id {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			delete(r.Boards, id)
			return m
		}
	}
	return nil
}

func (r *Room) MemberIDs() []string {
	ids := make([]string, len(r.Members))
	for i, m := range r.Members {
		ids[i] = m.ID
	}
	return ids
}

func (r *Room) HostName() string {
	if m := r.FindMember(r.HostID); m != nil {
		return m.Name
	}
	return ""
}

// ResetGame 开局：清空叫号与中奖记录，重建洗乱的号码池，给每名成员发一张新卡
func (r *Room) ResetGame() {
	space := r.GameType.NumberSpace()
	r.CalledNumbers = nil
	r.Winners = nil
	r.CurrentNumber = 0
	r.StartedAt = time.Now()
	r.remaining = r.rng.Perm(space)
	r.Boards = make(map[string]*game.Board, len(r.Members))
	for _, m := range r.Members {
		r.Boards[m.ID] = game.NewBoard(r.GameType, r.rng)
	}
}

// DrawNumber 从号码池取下一个号。池空返回 false，表示号码用尽。
func (r *Room) DrawNumber() (int, bool) {
	if len(r.remaining) == 0 {
		return 0, false
	}
	n := r.remaining[0] + 1 // Perm 产生 0..space-1
	r.remaining = r.remaining[1:]
	r.CalledNumbers = append(r.CalledNumbers, n)
	r.CurrentNumber = n
	return n, true
}

// Snapshot 生成对客户端的状态快照
func (r *Room) Snapshot() *models.GameState {
	players := make([]models.PlayerInfo, len(r.Members))
	for i, m := range r.Members {
		players[i] = models.PlayerInfo{ID: m.ID, Name: m.Name}
	}
	called := make([]int, len(r.CalledNumbers))
	copy(called, r.CalledNumbers)
	winners := make([]models.Winner, len(r.Winners))
	copy(winners, r.Winners)

	return &models.GameState{
		Code:          r.Code,
		GameType:      string(r.GameType),
		Status:        string(r.Status),
		HostID:        r.HostID,
		Players:       players,
		CalledNumbers: called,
		CurrentNumber: r.CurrentNumber,
		WinPattern:    string(r.WinPattern),
		Winners:       winners,
	}
}

func (r *Room) Summary() models.RoomSummary {
	return models.RoomSummary{
		Code:        r.Code,
		GameType:    string(r.GameType),
		HostName:    r.HostName(),
		PlayerCount: len(r.Members),
		Status:      string(r.Status),
	}
}

// --- 房间管理器 ---

// codeAlphabet 去掉了易混淆字符(0/O, 1/I)，便于口头分享
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Manager 管理所有活跃房间，房间码在活跃房间中唯一，销毁后可复用
type Manager struct {
	rooms    map[string]*Room
	codeLen  int
	codeRand *rand.Rand
	mutex    sync.RWMutex
}

func NewManager(codeLen int) *Manager {
	if codeLen <= 0 {
		codeLen = 6
	}
	return &Manager{
		rooms:    make(map[string]*Room),
		codeLen:  codeLen,
		codeRand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Create 生成一个不与任何活跃房间冲突的房间码并创建房间。
// 码生成与注册在同一临界区内完成，并发创建不会拿到重复码。
func (m *Manager) Create(gameType game.Type, hostID, hostName string) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var code string
	for {
		code = m.generateCode()
		if _, exists := m.rooms[code]; !exists {
			break
		}
	}

	room := newRoom(code, gameType, hostID, hostName)
	m.rooms[code] = room
	return room
}

func (m *Manager) generateCode() string {
	buf := make([]byte, m.codeLen)
	for i := range buf {
		buf[i] = codeAlphabet[m.codeRand.Intn(len(codeAlphabet))]
	}
	return string(buf)
}

// NormalizeCode 房间码输入不区分大小写，统一转为大写
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (m *Manager) Get(code string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	room, exists := m.rooms[NormalizeCode(code)]
	return room, exists
}

// Remove 销毁房间并释放其房间码。调用方应持有该房间的锁。
func (m *Manager) Remove(code string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[code]; exists {
		room.closed = true
		delete(m.rooms, code)
	}
}

func (m *Manager) All() []*Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Room, 0, len(m.rooms))
	for _, room := range m.rooms {
		result = append(result, room)
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// Summaries 构建房间列表。逐个短暂加锁，调用方不得持有任何房间锁。
func (m *Manager) Summaries() []models.RoomSummary {
	rooms := m.All()
	result := make([]models.RoomSummary, 0, len(rooms))
	for _, r := range rooms {
		r.Lock()
		if !r.Closed() {
			result = append(result, r.Summary())
		}
		r.Unlock()
	}
	return result
}
