// state/controller.go
package state

import (
	"strings"
	"time"

	"github.com/amenassefagashaye/epiphany/game"
	"github.com/amenassefagashaye/epiphany/models"
	"github.com/amenassefagashaye/epiphany/protocol"
	"github.com/amenassefagashaye/epiphany/room"
	"github.com/amenassefagashaye/epiphany/services"
	"github.com/amenassefagashaye/epiphany/timer"
)

// Config 控制器的业务参数
type Config struct {
	MaxMembers       int
	AutoCallInterval time.Duration
	ChatMaxLength    int
	Prizes           map[string]string
}

// Controller 是每个房间的状态机：成员变动、房主移交、开局、叫号、
// 中奖裁定。每个变更操作都在该房间的互斥锁内执行，不同房间互不阻塞。
// 房主身份一律按服务端当前持有的房间校验，不采信调用方。
type Controller struct {
	rooms       *room.Manager
	broadcaster Broadcaster
	timers      *timer.Manager
	records     *services.RecordService
	cfg         Config
}

func NewController(rooms *room.Manager, broadcaster Broadcaster, timers *timer.Manager, records *services.RecordService, cfg Config) *Controller {
	if cfg.MaxMembers <= 0 {
		cfg.MaxMembers = 10
	}
	if cfg.ChatMaxLength <= 0 {
		cfg.ChatMaxLength = 500
	}
	if cfg.AutoCallInterval <= 0 {
		cfg.AutoCallInterval = 5 * time.Second
	}
	return &Controller{
		rooms:       rooms,
		broadcaster: broadcaster,
		timers:      timers,
		records:     records,
		cfg:         cfg,
	}
}

// withRoom 在房间锁内执行 fn。Get 与 Lock 之间房间可能已被销毁，
// 所以拿到锁后还要再查一次 Closed。
func (c *Controller) withRoom(code string, fn func(r *room.Room) error) error {
	r, exists := c.rooms.Get(code)
	if !exists {
		return room.ErrRoomNotFound
	}
	r.Lock()
	defer r.Unlock()
	if r.Closed() {
		return room.ErrRoomNotFound
	}
	return fn(r)
}

// CreateRoom 创建房间，创建者即房主
func (c *Controller) CreateRoom(hostID, hostName, gameType string) (*models.GameState, error) {
	gt, err := game.ParseType(gameType)
	if err != nil {
		return nil, err
	}

	r := c.rooms.Create(gt, hostID, hostName)
	r.Lock()
	snapshot := r.Snapshot()
	r.Unlock()

	c.publishRooms()
	return snapshot, nil
}

// Join 只在 waiting 状态允许加入；先通知现有成员再追加，
// 新成员自己收到的是 room_joined 而不是 player_joined。
func (c *Controller) Join(code, playerID, playerName string) (*models.GameState, error) {
	var snapshot *models.GameState
	err := c.withRoom(code, func(r *room.Room) error {
		if r.Status != room.StatusWaiting {
			return ErrInvalidState
		}
		if len(r.Members) >= c.cfg.MaxMembers {
			return ErrRoomFull
		}
		if r.FindMember(playerID) != nil {
			return ErrInvalidState
		}

		c.broadcaster.BroadcastToMembers(r.MemberIDs(),
			protocol.NewPlayerJoined(models.PlayerInfo{ID: playerID, Name: playerName}))

		r.AddMember(playerID, playerName)
		snapshot = r.Snapshot()
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.publishRooms()
	return snapshot, nil
}

// Leave 任何状态下都可离开；房主离开时移交给最早加入的剩余成员，
// 成员清零时同步销毁房间。断线走的也是这条路径。
func (c *Controller) Leave(code, playerID string) error {
	err := c.withRoom(code, func(r *room.Room) error {
		m := r.RemoveMember(playerID)
		if m == nil {
			return ErrInvalidState
		}

		if len(r.Members) == 0 {
			c.stopAutoCallLocked(r)
			c.rooms.Remove(r.Code)
			return nil
		}

		newHostID := ""
		if r.HostID == playerID {
			r.HostID = r.Members[0].ID
			newHostID = r.HostID
			// 房主换人，旧房主开的自动叫号随之停止
			c.stopAutoCallLocked(r)
		}

		c.broadcaster.BroadcastToMembers(r.MemberIDs(),
			protocol.NewPlayerLeft(playerID, m.Name, newHostID))
		return nil
	})
	if err != nil {
		return err
	}

	c.publishRooms()
	return nil
}

// StartGame 仅房主可开局；finished 的房间允许直接再开一局
func (c *Controller) StartGame(code, requesterID string) error {
	err := c.withRoom(code, func(r *room.Room) error {
		if r.Status == room.StatusPlaying {
			return ErrInvalidState
		}
		if r.HostID != requesterID {
			return ErrNotHost
		}

		r.Status = room.StatusPlaying
		r.ResetGame()

		// 每名成员收到自己的卡片，共享状态相同
		snapshot := r.Snapshot()
		for _, id := range r.MemberIDs() {
			c.broadcaster.SendTo(id, protocol.NewGameStarted(snapshot, r.Boards[id]))
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.publishRooms()
	return nil
}

// CallNumber 房主叫号。号码池用尽视为终局而非可重试错误。
func (c *Controller) CallNumber(code, requesterID string) error {
	return c.callNumber(code, requesterID, false)
}

func (c *Controller) callNumber(code, requesterID string, auto bool) error {
	finished := false
	err := c.withRoom(code, func(r *room.Room) error {
		if r.Status != room.StatusPlaying {
			return ErrInvalidState
		}
		// 房主可能在消息发出与处理之间换人，这里按当前房间重新校验
		if !auto && r.HostID != requesterID {
			return ErrNotHost
		}

		n, ok := r.DrawNumber()
		if !ok {
			r.Status = room.StatusFinished
			c.stopAutoCallLocked(r)
			c.recordGameLocked(r)
			finished = true
			return ErrNumbersExhausted
		}

		host := r.FindMember(r.HostID)
		hostName := ""
		if host != nil {
			hostName = host.Name
		}
		c.broadcaster.BroadcastToMembers(r.MemberIDs(),
			protocol.NewNumberCalled(n, r.HostID, hostName, r.CalledNumbers))
		return nil
	})

	if finished {
		c.publishRooms()
	}
	return err
}

// ClaimWin 中奖裁定：只依据服务端叫号记录与服务端保存的卡片重新推导，
// 失败不产生任何状态变更。同样输入必然得到同样判定。
func (c *Controller) ClaimWin(code, playerID, pattern string) error {
	p, err := game.ParsePattern(pattern)
	if err != nil {
		return ErrInvalidClaim
	}

	finished := false
	err = c.withRoom(code, func(r *room.Room) error {
		if r.Status != room.StatusPlaying {
			return ErrInvalidState
		}
		m := r.FindMember(playerID)
		if m == nil {
			return ErrInvalidState
		}
		board, ok := r.Boards[playerID]
		if !ok {
			return ErrInvalidClaim
		}

		if !game.CheckPattern(board, r.CalledNumbers, p) {
			return ErrInvalidClaim
		}

		w := models.Winner{
			PlayerID:   playerID,
			PlayerName: m.Name,
			Pattern:    string(p),
			Timestamp:  time.Now(),
		}
		r.Winners = append(r.Winners, w)

		prize := c.cfg.Prizes[string(p)]
		c.broadcaster.BroadcastToMembers(r.MemberIDs(), protocol.NewPlayerWin(w, prize))
		c.recordWinLocked(r, w, prize)

		// 达成房间声明的获胜规则即终局
		if p == r.WinPattern {
			r.Status = room.StatusFinished
			c.stopAutoCallLocked(r)
			c.recordGameLocked(r)
			finished = true
		}
		return nil
	})
	if err != nil {
		return err
	}

	if finished {
		c.publishRooms()
	}
	return nil
}

// Chat 纯转发：校验非空和长度上限后原样广播，不保留任何状态
func (c *Controller) Chat(code, playerID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > c.cfg.ChatMaxLength {
		return ErrInvalidMessage
	}

	return c.withRoom(code, func(r *room.Room) error {
		m := r.FindMember(playerID)
		if m == nil {
			return ErrInvalidState
		}
		c.broadcaster.BroadcastToMembers(r.MemberIDs(),
			protocol.NewChatMessage(playerID, m.Name, text))
		return nil
	})
}

// SetAutoCall 房主开关自动叫号，由 timer 包在锁外周期驱动
func (c *Controller) SetAutoCall(code, requesterID string, enabled bool) error {
	return c.withRoom(code, func(r *room.Room) error {
		if r.Status != room.StatusPlaying {
			return ErrInvalidState
		}
		if r.HostID != requesterID {
			return ErrNotHost
		}

		if !enabled {
			c.stopAutoCallLocked(r)
			return nil
		}
		if r.AutoCallTimer != 0 || c.timers == nil {
			return nil
		}
		roomCode := r.Code
		r.AutoCallTimer = c.timers.AddTimer(c.cfg.AutoCallInterval, c.cfg.AutoCallInterval, func() {
			c.callNumber(roomCode, "", true)
		})
		return nil
	})
}

// RoomSummaries 当前房间列表
func (c *Controller) RoomSummaries() []models.RoomSummary {
	return c.rooms.Summaries()
}

// publishRooms 房间集合或状态变化后向所有连接推送列表。
// 必须在不持有任何房间锁时调用。
func (c *Controller) publishRooms() {
	c.broadcaster.BroadcastToAll(protocol.NewRoomsList(c.rooms.Summaries()))
}

func (c *Controller) stopAutoCallLocked(r *room.Room) {
	if r.AutoCallTimer != 0 && c.timers != nil {
		c.timers.RemoveTimer(r.AutoCallTimer)
		r.AutoCallTimer = 0
	}
}

// recordGameLocked 在锁内做快照，落库异步执行
func (c *Controller) recordGameLocked(r *room.Room) {
	snapshot := r.Snapshot()
	duration := int(time.Since(r.StartedAt).Seconds())
	c.records.SaveGameRecord(&models.GameRecord{
		RoomCode:      snapshot.Code,
		GameType:      snapshot.GameType,
		Players:       snapshot.Players,
		NumbersCalled: len(snapshot.CalledNumbers),
		Winners:       snapshot.Winners,
		Duration:      duration,
		CreatedAt:     time.Now(),
	})
}

func (c *Controller) recordWinLocked(r *room.Room, w models.Winner, prize string) {
	c.records.SaveWin(r.Code, string(r.GameType), w, prize)
}
