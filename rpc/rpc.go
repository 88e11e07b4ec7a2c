// rpc/rpc.go
package rpc

import (
	"net"
	"net/rpc"

	"github.com/amenassefagashaye/epiphany/logger"
	"github.com/amenassefagashaye/epiphany/models"
	"github.com/amenassefagashaye/epiphany/room"
	"github.com/amenassefagashaye/epiphany/services"
	"github.com/amenassefagashaye/epiphany/session"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc.
// Methods follow the net/rpc signature: exported method, exported
// arguments, second argument is a pointer, return type is error.
type AdminService struct {
	rooms    *room.Manager
	sessions *session.Manager
	records  *services.RecordService
}

func NewAdminService(rooms *room.Manager, sessions *session.Manager, records *services.RecordService) *AdminService {
	return &AdminService{rooms: rooms, sessions: sessions, records: records}
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Rooms []models.RoomSummary
}

func (a *AdminService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	reply.Rooms = a.rooms.Summaries()
	return nil
}

type StatsArgs struct{}

type StatsReply struct {
	OnlinePlayers int
	ActiveRooms   int
}

func (a *AdminService) Stats(args *StatsArgs, reply *StatsReply) error {
	reply.OnlinePlayers = a.sessions.Count()
	reply.ActiveRooms = a.rooms.Count()
	return nil
}

type PlayerWinsArgs struct {
	PlayerName string
}

type PlayerWinsReply struct {
	Wins int64
}

func (a *AdminService) PlayerWins(args *PlayerWinsArgs, reply *PlayerWinsReply) error {
	wins, err := a.records.CountWins(args.PlayerName)
	if err != nil {
		return err
	}
	reply.Wins = wins
	return nil
}
