package session

import (
	"net"
	"testing"
	"time"
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

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_All(t *testing.T) {
	manager := NewManager()
	manager.Add(NewSession("s1", &MockConnection{}))
	manager.Add(NewSession("s2", &MockConnection{}))
	manager.Add(NewSession("s3", &MockConnection{}))

	if len(manager.All()) != 3 {
		t.Errorf("Expected 3 sessions, got %d", len(manager.All()))
	}
}

func TestSession_NameAndRoomCode(t *testing.T) {
	sess := NewSession("s1", &MockConnection{})

	if sess.GetName() != "" || sess.GetRoomCode() != "" {
		t.Error("New session should have no name and no room")
	}

	sess.SetName("Alice")
	sess.SetRoomCode("ABC234")

	if sess.GetName() != "Alice" {
		t.Errorf("Expected name Alice, got %s", sess.GetName())
	}
	if sess.GetRoomCode() != "ABC234" {
		t.Errorf("Expected room code ABC234, got %s", sess.GetRoomCode())
	}
}

func TestSession_SendUsesConnection(t *testing.T) {
	conn := &MockConnection{}
	sess := NewSession("s1", conn)

	if err := sess.Send(map[string]string{"type": "test"}); err != nil {
		t.Fatalf("Send should not fail: %v", err)
	}
	if len(conn.sent) != 1 {
		t.Fatalf("Expected 1 sent message, got %d", len(conn.sent))
	}
}
