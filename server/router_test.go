package server

import (
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/amenassefagashaye/epiphany/config"
	"github.com/amenassefagashaye/epiphany/protocol"
	"github.com/amenassefagashaye/epiphany/session"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct {
	sent []interface{}
}

func (m *MockConnection) SendJSON(v interface{}) error {
	m.sent = append(m.sent, v)
	return nil
}
func (m *MockConnection) ReadMessage() ([]byte, error) { return nil, nil }
func (m *MockConnection) Close() error                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr         { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(d time.Duration) {}

func newTestServer() *GameServer {
	cfg := &config.Config{}
	cfg.Room.MaxPlayers = 10
	cfg.Room.CodeLength = 6
	cfg.Game.ChatMaxLength = 500
	cfg.Game.AutoCallInterval = time.Second
	return NewGameServer(cfg, nil)
}

// newTestClient registers a fake connected session on the server.
func newTestClient(s *GameServer, id string) (*session.Session, *MockConnection) {
	conn := &MockConnection{}
	sess := session.NewSession(id, conn)
	s.sessionManager.Add(sess)
	return sess, conn
}

func lastError(conn *MockConnection) *protocol.ErrorMessage {
	for i := len(conn.sent) - 1; i >= 0; i-- {
		if e, ok := conn.sent[i].(*protocol.ErrorMessage); ok {
			return e
		}
	}
	return nil
}

func TestRouter_UnknownTypeIgnored(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	sess, conn := newTestClient(s, "a")

	s.handleMessage(sess, []byte(`{"type":"teleport","roomCode":"X"}`))

	if len(conn.sent) != 0 {
		t.Errorf("Unknown type should be dropped silently, got %d messages", len(conn.sent))
	}
}

func TestRouter_MalformedEnvelopeDropped(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	sess, conn := newTestClient(s, "a")

	s.handleMessage(sess, []byte(`{not json`))
	s.handleMessage(sess, []byte(`{"type":"create_room"}`)) // 缺 playerName

	if len(conn.sent) != 0 {
		t.Errorf("Malformed envelopes should be dropped, got %d messages", len(conn.sent))
	}
}

func TestRouter_ErrorsGoToSenderOnly(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	a, aConn := newTestClient(s, "a")
	b, bConn := newTestClient(s, "b")

	s.handleMessage(a, []byte(`{"type":"create_room","playerName":"Alice","gameType":"75ball"}`))
	created := aConn.sent[len(aConn.sent)-1].(*protocol.RoomCreated)
	s.handleMessage(b, []byte(fmt.Sprintf(`{"type":"join_room","roomCode":%q,"playerName":"Bob"}`, created.RoomCode)))

	// B 不是房主，开局失败，错误只回给 B
	aBefore := len(aConn.sent)
	s.handleMessage(b, []byte(`{"type":"start_game"}`))

	if e := lastError(bConn); e == nil {
		t.Fatal("B should receive an error envelope")
	}
	for _, msg := range aConn.sent[aBefore:] {
		if _, ok := msg.(*protocol.ErrorMessage); ok {
			t.Error("A must not receive B's error")
		}
	}
}

// 完整剧本：建房、加入、开局、叫 5 个号、过早宣称被拒
func TestRouter_FullScenario(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	a, aConn := newTestClient(s, "a")
	b, bConn := newTestClient(s, "b")

	s.handleMessage(a, []byte(`{"type":"create_room","playerName":"Alice","gameType":"75ball"}`))
	created := aConn.sent[len(aConn.sent)-1].(*protocol.RoomCreated)
	if created.GameState.Status != "waiting" {
		t.Fatalf("New room should be waiting, got %s", created.GameState.Status)
	}
	code := created.RoomCode

	s.handleMessage(b, []byte(fmt.Sprintf(`{"type":"join_room","roomCode":%q,"playerName":"Bob"}`, code)))
	joined := false
	for _, msg := range bConn.sent {
		if rj, ok := msg.(*protocol.RoomJoined); ok {
			joined = true
			if len(rj.GameState.Players) != 2 {
				t.Errorf("Snapshot should list 2 players, got %d", len(rj.GameState.Players))
			}
		}
	}
	if !joined {
		t.Fatal("B should receive room_joined")
	}

	s.handleMessage(a, []byte(`{"type":"start_game"}`))

	var aBoard, bBoard *protocol.GameStarted
	for _, msg := range aConn.sent {
		if gs, ok := msg.(*protocol.GameStarted); ok {
			aBoard = gs
		}
	}
	for _, msg := range bConn.sent {
		if gs, ok := msg.(*protocol.GameStarted); ok {
			bBoard = gs
		}
	}
	if aBoard == nil || bBoard == nil {
		t.Fatal("Both players should receive game_started")
	}
	if fmt.Sprint(aBoard.Board.Cells) == fmt.Sprint(bBoard.Board.Cells) {
		t.Error("Players should receive distinct boards")
	}

	for i := 0; i < 5; i++ {
		s.handleMessage(a, []byte(`{"type":"call_number"}`))
	}

	var lastCall *protocol.NumberCalled
	calls := 0
	for _, msg := range bConn.sent {
		if nc, ok := msg.(*protocol.NumberCalled); ok {
			calls++
			lastCall = nc
		}
	}
	if calls != 5 {
		t.Fatalf("B should see 5 number_called broadcasts, got %d", calls)
	}
	seen := make(map[int]bool)
	for _, n := range lastCall.CalledNumbers {
		if n < 1 || n > 75 {
			t.Errorf("Called number %d outside [1,75]", n)
		}
		if seen[n] {
			t.Errorf("Duplicate called number %d", n)
		}
		seen[n] = true
	}
	if len(seen) != 5 {
		t.Errorf("Expected 5 distinct called numbers, got %d", len(seen))
	}

	// 5 个号不可能盖满整张卡
	s.handleMessage(b, []byte(`{"type":"claim_win","pattern":"full-house"}`))
	if e := lastError(bConn); e == nil {
		t.Fatal("Premature full-house claim should produce an error envelope")
	}
}

// 宣称身份以连接注册表为准，信封里伪造的 playerId 被忽略
func TestRouter_ClaimIdentityFromRegistry(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	a, aConn := newTestClient(s, "a")
	b, bConn := newTestClient(s, "b")

	s.handleMessage(a, []byte(`{"type":"create_room","playerName":"Alice","gameType":"75ball"}`))
	created := aConn.sent[len(aConn.sent)-1].(*protocol.RoomCreated)
	s.handleMessage(b, []byte(fmt.Sprintf(`{"type":"join_room","roomCode":%q,"playerName":"Bob"}`, created.RoomCode)))
	s.handleMessage(a, []byte(`{"type":"start_game"}`))

	// B 冒充 A 宣称，裁定仍针对 B 自己的卡片，错误回给 B
	s.handleMessage(b, []byte(`{"type":"claim_win","playerId":"a","pattern":"full-house"}`))
	if e := lastError(bConn); e == nil {
		t.Error("Spoofed claim should be adjudicated for the sender and fail")
	}
}

// A 断线（清理路径）后 B 接任房主并能开局
func TestRouter_DisconnectPromotesNewHost(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	a, aConn := newTestClient(s, "a")
	b, bConn := newTestClient(s, "b")

	s.handleMessage(a, []byte(`{"type":"create_room","playerName":"Alice","gameType":"75ball"}`))
	created := aConn.sent[len(aConn.sent)-1].(*protocol.RoomCreated)
	code := created.RoomCode
	s.handleMessage(b, []byte(fmt.Sprintf(`{"type":"join_room","roomCode":%q,"playerName":"Bob"}`, code)))

	// 断线清理与显式 leave 走同一条控制器路径
	if err := s.controller.Leave(a.GetRoomCode(), a.GetID()); err != nil {
		t.Fatalf("Disconnect cleanup failed: %v", err)
	}
	s.sessionManager.Remove(a.GetID())

	var left *protocol.PlayerLeft
	for _, msg := range bConn.sent {
		if pl, ok := msg.(*protocol.PlayerLeft); ok {
			left = pl
		}
	}
	if left == nil || left.PlayerID != "a" || left.NewHostID != "b" {
		t.Fatalf("B should see player_left promoting b, got %+v", left)
	}

	s.handleMessage(b, []byte(`{"type":"start_game"}`))
	started := false
	for _, msg := range bConn.sent {
		if _, ok := msg.(*protocol.GameStarted); ok {
			started = true
		}
	}
	if !started {
		t.Error("Promoted host should be able to start the game")
	}
}

func TestRouter_GetRooms(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	a, _ := newTestClient(s, "a")
	b, bConn := newTestClient(s, "b")

	s.handleMessage(a, []byte(`{"type":"create_room","playerName":"Alice","gameType":"90ball"}`))
	s.handleMessage(b, []byte(`{"type":"get_rooms"}`))

	var list *protocol.RoomsList
	for _, msg := range bConn.sent {
		if rl, ok := msg.(*protocol.RoomsList); ok {
			list = rl
		}
	}
	if list == nil {
		t.Fatal("B should receive rooms_list")
	}
	if len(list.Rooms) != 1 {
		t.Fatalf("Expected 1 room in list, got %d", len(list.Rooms))
	}
	r := list.Rooms[0]
	if r.GameType != "90ball" || r.HostName != "Alice" || r.PlayerCount != 1 || r.Status != "waiting" {
		t.Errorf("Unexpected room summary: %+v", r)
	}
}

func TestRouter_LeaveClearsSessionRoom(t *testing.T) {
	s := newTestServer()
	defer s.Shutdown()
	a, aConn := newTestClient(s, "a")

	s.handleMessage(a, []byte(`{"type":"create_room","playerName":"Alice","gameType":"75ball"}`))
	created := aConn.sent[len(aConn.sent)-1].(*protocol.RoomCreated)

	s.handleMessage(a, []byte(fmt.Sprintf(`{"type":"leave_room","roomCode":%q}`, created.RoomCode)))

	if a.GetRoomCode() != "" {
		t.Error("Session room code should be cleared after leaving")
	}
	if s.roomManager.Count() != 0 {
		t.Error("Empty room should be destroyed after the last leave")
	}
}
