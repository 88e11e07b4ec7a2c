// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/amenassefagashaye/epiphany/logger"
	"github.com/amenassefagashaye/epiphany/session"
)

var ErrSessionNotFound = errors.New("session not found")

// Dispatcher 按收件人逐个投递，尽力而为、至多一次。
// 单个连接投递失败只记日志，绝不影响其余收件人，也不回滚状态变更。
type Dispatcher struct {
	sessionManager *session.Manager
}

func NewDispatcher(sessionManager *session.Manager) *Dispatcher {
	return &Dispatcher{sessionManager: sessionManager}
}

// SendTo 给单个参与者发消息
func (d *Dispatcher) SendTo(playerID string, v interface{}) error {
	s, exists := d.sessionManager.Get(playerID)
	if !exists {
		return ErrSessionNotFound
	}
	if err := s.Send(v); err != nil {
		logger.Log.Warnf("delivery to %s failed: %v", playerID, err)
		return err
	}
	return nil
}

// BroadcastToMembers 给房间成员集合广播
func (d *Dispatcher) BroadcastToMembers(playerIDs []string, v interface{}) {
	for _, id := range playerIDs {
		s, exists := d.sessionManager.Get(id)
		if !exists {
			continue
		}
		if err := s.Send(v); err != nil {
			logger.Log.Warnf("broadcast to %s failed: %v", id, err)
			continue
		}
	}
}

// BroadcastToAll 给所有在线连接广播（公共房间列表用）
func (d *Dispatcher) BroadcastToAll(v interface{}) {
	for _, s := range d.sessionManager.All() {
		if err := s.Send(v); err != nil {
			logger.Log.Warnf("broadcast to %s failed: %v", s.GetID(), err)
			continue
		}
	}
}
