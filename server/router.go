// server/router.go
//
// 消息路由：解析入站信封，从连接注册表解析发送者，分发到控制器操作。
// 领域错误只回给发起者，不广播；非法信封记日志丢弃，绝不影响其他连接。
package server

import (
	"encoding/json"
	"time"

	"github.com/amenassefagashaye/epiphany/logger"
	"github.com/amenassefagashaye/epiphany/protocol"
	"github.com/amenassefagashaye/epiphany/session"
)

func (s *GameServer) handleMessage(sess *session.Session, data []byte) {
	start := time.Now()
	if s.monitor != nil {
		s.monitor.IncMessagesReceived()
		defer func() {
			s.monitor.ObserveMessageLatency(time.Since(start))
		}()
	}

	var inbound protocol.Inbound
	if err := json.Unmarshal(data, &inbound); err != nil {
		logger.Log.Warnf("malformed envelope from session %s: %v", sess.GetID(), err)
		return
	}

	switch inbound.Type {
	case protocol.TypeCreateRoom:
		s.handleCreateRoom(sess, data)
	case protocol.TypeJoinRoom:
		s.handleJoinRoom(sess, data)
	case protocol.TypeLeaveRoom:
		s.handleLeaveRoom(sess)
	case protocol.TypeStartGame:
		s.handleStartGame(sess)
	case protocol.TypeCallNumber:
		s.handleCallNumber(sess)
	case protocol.TypeClaimWin:
		s.handleClaimWin(sess, data)
	case protocol.TypeChatMessage:
		s.handleChat(sess, data)
	case protocol.TypeGetRooms:
		sess.Send(protocol.NewRoomsList(s.controller.RoomSummaries()))
	case protocol.TypeAutoCall:
		s.handleAutoCall(sess, data)
	default:
		logger.Log.Warnf("unknown message type %q from session %s", inbound.Type, sess.GetID())
	}
}

// sendError 领域错误只回给发起者
func (s *GameServer) sendError(sess *session.Session, err error) {
	sess.Send(protocol.NewError(err.Error()))
}

func (s *GameServer) handleCreateRoom(sess *session.Session, data []byte) {
	var req protocol.CreateRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.PlayerName == "" {
		logger.Log.Warnf("malformed create_room from session %s", sess.GetID())
		return
	}
	if sess.GetRoomCode() != "" {
		sess.Send(protocol.NewError("already in a room"))
		return
	}

	sess.SetName(req.PlayerName)
	snapshot, err := s.controller.CreateRoom(sess.GetID(), req.PlayerName, req.GameType)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	sess.SetRoomCode(snapshot.Code)
	sess.Send(protocol.NewRoomCreated(snapshot.Code, snapshot))
	if s.monitor != nil {
		s.monitor.SetActiveRooms(s.roomManager.Count())
	}
	logger.Log.Infof("Session %s created room %s", sess.GetID(), snapshot.Code)
}

func (s *GameServer) handleJoinRoom(sess *session.Session, data []byte) {
	var req protocol.JoinRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.PlayerName == "" || req.RoomCode == "" {
		logger.Log.Warnf("malformed join_room from session %s", sess.GetID())
		return
	}
	if sess.GetRoomCode() != "" {
		sess.Send(protocol.NewError("already in a room"))
		return
	}

	sess.SetName(req.PlayerName)
	snapshot, err := s.controller.Join(req.RoomCode, sess.GetID(), req.PlayerName)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	sess.SetRoomCode(snapshot.Code)
	sess.Send(protocol.NewRoomJoined(snapshot.Code, snapshot))
	logger.Log.Infof("Session %s joined room %s", sess.GetID(), snapshot.Code)
}

func (s *GameServer) handleLeaveRoom(sess *session.Session) {
	// 所在房间以服务端记录为准，不采信信封里的房间码
	code := sess.GetRoomCode()
	if code == "" {
		sess.Send(protocol.NewError("not in a room"))
		return
	}

	if err := s.controller.Leave(code, sess.GetID()); err != nil {
		s.sendError(sess, err)
		return
	}
	sess.SetRoomCode("")
	if s.monitor != nil {
		s.monitor.SetActiveRooms(s.roomManager.Count())
	}
}

func (s *GameServer) handleStartGame(sess *session.Session) {
	code := sess.GetRoomCode()
	if code == "" {
		sess.Send(protocol.NewError("not in a room"))
		return
	}
	if err := s.controller.StartGame(code, sess.GetID()); err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) handleCallNumber(sess *session.Session) {
	code := sess.GetRoomCode()
	if code == "" {
		sess.Send(protocol.NewError("not in a room"))
		return
	}
	if err := s.controller.CallNumber(code, sess.GetID()); err != nil {
		s.sendError(sess, err)
		return
	}
	if s.monitor != nil {
		s.monitor.IncNumbersCalled()
	}
}

func (s *GameServer) handleClaimWin(sess *session.Session, data []byte) {
	var req protocol.ClaimWinRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Pattern == "" {
		logger.Log.Warnf("malformed claim_win from session %s", sess.GetID())
		return
	}
	code := sess.GetRoomCode()
	if code == "" {
		sess.Send(protocol.NewError("not in a room"))
		return
	}

	// 身份取自连接注册表，忽略信封里的 playerId
	if err := s.controller.ClaimWin(code, sess.GetID(), req.Pattern); err != nil {
		s.sendError(sess, err)
		return
	}
	if s.monitor != nil {
		s.monitor.IncWinsClaimed()
		s.monitor.SetActiveRooms(s.roomManager.Count())
	}
}

func (s *GameServer) handleChat(sess *session.Session, data []byte) {
	var req protocol.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Log.Warnf("malformed chat_message from session %s", sess.GetID())
		return
	}
	code := sess.GetRoomCode()
	if code == "" {
		sess.Send(protocol.NewError("not in a room"))
		return
	}
	if err := s.controller.Chat(code, sess.GetID(), req.Message); err != nil {
		s.sendError(sess, err)
	}
}

func (s *GameServer) handleAutoCall(sess *session.Session, data []byte) {
	var req protocol.AutoCallRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logger.Log.Warnf("malformed auto_call from session %s", sess.GetID())
		return
	}
	code := sess.GetRoomCode()
	if code == "" {
		sess.Send(protocol.NewError("not in a room"))
		return
	}
	if err := s.controller.SetAutoCall(code, sess.GetID(), req.Enabled); err != nil {
		s.sendError(sess, err)
	}
}
