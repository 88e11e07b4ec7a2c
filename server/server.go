// server/server.go
package server

import (
	"net/http"
	"net/rpc"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/amenassefagashaye/epiphany/broadcast"
	"github.com/amenassefagashaye/epiphany/config"
	"github.com/amenassefagashaye/epiphany/logger"
	"github.com/amenassefagashaye/epiphany/monitor"
	"github.com/amenassefagashaye/epiphany/network"
	"github.com/amenassefagashaye/epiphany/persistence"
	"github.com/amenassefagashaye/epiphany/protocol"
	"github.com/amenassefagashaye/epiphany/room"
	epiphanyrpc "github.com/amenassefagashaye/epiphany/rpc"
	"github.com/amenassefagashaye/epiphany/services"
	"github.com/amenassefagashaye/epiphany/session"
	"github.com/amenassefagashaye/epiphany/state"
	"github.com/amenassefagashaye/epiphany/timer"
)

const heartbeatInterval = 60 * time.Second

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	roomManager    *room.Manager
	dispatcher     *broadcast.Dispatcher
	controller     *state.Controller
	records        *services.RecordService
	timers         *timer.Manager
	monitor        *monitor.Monitor
	rpcServer      *epiphanyrpc.Server
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	s := &GameServer{
		cfg:            cfg,
		sessionManager: session.NewManager(),
		roomManager:    room.NewManager(cfg.Room.CodeLength),
		timers:         timer.NewManager(),
		records:        services.NewRecordService(db),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器与房间控制器
	s.dispatcher = broadcast.NewDispatcher(s.sessionManager)
	s.controller = state.NewController(s.roomManager, s.dispatcher, s.timers, s.records, state.Config{
		MaxMembers:       cfg.Room.MaxPlayers,
		AutoCallInterval: cfg.Game.AutoCallInterval,
		ChatMaxLength:    cfg.Game.ChatMaxLength,
		Prizes:           cfg.Game.Prizes,
	})

	return s
}

func (s *GameServer) Start() error {
	s.monitor = monitor.NewMonitor("epiphany")
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	// 初始化RPC服务器
	rpcServer, err := epiphanyrpc.NewServer(s.cfg.Server.RPCAddress)
	if err != nil {
		return err
	}
	s.rpcServer = rpcServer
	rpc.Register(epiphanyrpc.NewAdminService(s.roomManager, s.sessionManager, s.records))
	go s.rpcServer.Start()

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	wsConn.SetHeartbeat(heartbeatInterval)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncOnlinePlayers()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
	sess.Send(protocol.NewPlayerConnected(sess.GetID()))

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		// 断线等价于显式离开：成员清理与房主移交走同一条路径
		if code := sess.GetRoomCode(); code != "" {
			if err := s.controller.Leave(code, sess.GetID()); err != nil {
				logger.Log.Warnf("cleanup leave for session %s failed: %v", sess.GetID(), err)
			}
		}
		s.sessionManager.Remove(sess.GetID())
		if s.monitor != nil {
			s.monitor.DecOnlinePlayers()
			s.monitor.SetActiveRooms(s.roomManager.Count())
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			data, err := wsConn.ReadMessage()
			if err != nil {
				return
			}
			s.handleMessage(sess, data)
		}
	}
}
