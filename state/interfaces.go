// state/interfaces.go
package state

// Broadcaster 控制器对外投递的最小接口，具体实现在 broadcast 包。
// 在这里定义以避免 state 与 broadcast 的循环依赖。
type Broadcaster interface {
	SendTo(playerID string, v interface{}) error
	BroadcastToMembers(playerIDs []string, v interface{})
	BroadcastToAll(v interface{})
}
