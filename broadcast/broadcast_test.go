package broadcast

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/amenassefagashaye/epiphany/session"
)

// MockConnection is a test double for the network.Connection interface.
// fail 为 true 时每次发送都失败，模拟断开的传输。
type MockConnection struct {
	fail bool
	sent []interface{}
}

func (m *MockConnection) SendJSON(v interface{}) error {
	if m.fail {
		return errors.New("broken pipe")
	}
	m.sent = append(m.sent, v)
	return nil
}
func (m *MockConnection) ReadMessage() ([]byte, error) { return nil, nil }
func (m *MockConnection) Close() error                 { return nil }
func (m *MockConnection) RemoteAddr() net.Addr         { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(d time.Duration) {}

func setup() (*session.Manager, *Dispatcher, map[string]*MockConnection) {
	manager := session.NewManager()
	conns := make(map[string]*MockConnection)
	for _, id := range []string{"p1", "p2", "p3"} {
		conn := &MockConnection{}
		conns[id] = conn
		manager.Add(session.NewSession(id, conn))
	}
	return manager, NewDispatcher(manager), conns
}

func TestSendTo(t *testing.T) {
	_, d, conns := setup()

	if err := d.SendTo("p1", "hello"); err != nil {
		t.Fatalf("SendTo should succeed: %v", err)
	}
	if len(conns["p1"].sent) != 1 {
		t.Errorf("Expected 1 message for p1, got %d", len(conns["p1"].sent))
	}
	if len(conns["p2"].sent) != 0 {
		t.Error("SendTo should not deliver to other sessions")
	}
}

func TestSendTo_UnknownSession(t *testing.T) {
	_, d, _ := setup()
	if err := d.SendTo("ghost", "hello"); err != ErrSessionNotFound {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

// 一个收件人失败不能中断其余收件人的投递
func TestBroadcastToMembers_IsolatesFailures(t *testing.T) {
	_, d, conns := setup()
	conns["p2"].fail = true

	d.BroadcastToMembers([]string{"p1", "p2", "p3"}, "round")

	if len(conns["p1"].sent) != 1 {
		t.Errorf("p1 should receive despite p2 failing, got %d messages", len(conns["p1"].sent))
	}
	if len(conns["p3"].sent) != 1 {
		t.Errorf("p3 should receive despite p2 failing, got %d messages", len(conns["p3"].sent))
	}
}

func TestBroadcastToMembers_SkipsMissingSessions(t *testing.T) {
	_, d, conns := setup()

	d.BroadcastToMembers([]string{"p1", "gone", "p3"}, "round")

	if len(conns["p1"].sent) != 1 || len(conns["p3"].sent) != 1 {
		t.Error("Known sessions should receive even when one id is unknown")
	}
}

func TestBroadcastToAll(t *testing.T) {
	_, d, conns := setup()
	conns["p1"].fail = true

	d.BroadcastToAll("lobby update")

	if len(conns["p2"].sent) != 1 || len(conns["p3"].sent) != 1 {
		t.Error("All healthy connections should receive the broadcast")
	}
}
