package main

import (
	"bufio"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
)

// 简易命令行测试客户端：
//   create <name> <gameType> / join <code> <name> / start / call /
//   claim <pattern> / chat <text...> / rooms / auto on|off / leave

func send(c *websocket.Conn, v map[string]interface{}) error {
	return c.WriteJSON(v)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			log.Printf("<- RECV: %s", string(message))
		}
	}()

	log.Println("Client started. Commands: create/join/start/call/claim/chat/rooms/auto/leave")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		default:
		}

		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		var msg map[string]interface{}
		switch fields[0] {
		case "create":
			if len(fields) < 3 {
				log.Println("usage: create <name> <gameType>")
				continue
			}
			msg = map[string]interface{}{"type": "create_room", "playerName": fields[1], "gameType": fields[2]}
		case "join":
			if len(fields) < 3 {
				log.Println("usage: join <code> <name>")
				continue
			}
			msg = map[string]interface{}{"type": "join_room", "roomCode": fields[1], "playerName": fields[2]}
		case "start":
			msg = map[string]interface{}{"type": "start_game"}
		case "call":
			msg = map[string]interface{}{"type": "call_number"}
		case "claim":
			if len(fields) < 2 {
				log.Println("usage: claim <pattern>")
				continue
			}
			msg = map[string]interface{}{"type": "claim_win", "pattern": fields[1]}
		case "chat":
			msg = map[string]interface{}{"type": "chat_message", "message": strings.Join(fields[1:], " ")}
		case "rooms":
			msg = map[string]interface{}{"type": "get_rooms"}
		case "auto":
			msg = map[string]interface{}{"type": "auto_call", "enabled": len(fields) > 1 && fields[1] == "on"}
		case "leave":
			msg = map[string]interface{}{"type": "leave_room"}
		default:
			log.Printf("unknown command %q", fields[0])
			continue
		}

		if err := send(c, msg); err != nil {
			log.Println("Write error:", err)
			return
		}
	}
}
