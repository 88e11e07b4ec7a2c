// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/amenassefagashaye/epiphany/models"
)

// PostgreSQL 不带 ORM 的 database/sql 实现
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            room_code TEXT NOT NULL,
            game_type TEXT NOT NULL,
            players JSONB NOT NULL,
            winners JSONB NOT NULL,
            numbers_called INT NOT NULL DEFAULT 0,
            duration INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS win_records (
            id SERIAL PRIMARY KEY,
            room_code TEXT NOT NULL,
            game_type TEXT NOT NULL,
            player_name TEXT NOT NULL,
            pattern TEXT NOT NULL,
            prize TEXT,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_win_records_player ON win_records (player_name)`)
	return err
}

func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	players, err := json.Marshal(record.Players)
	if err != nil {
		return err
	}
	winners, err := json.Marshal(record.Winners)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(`
        INSERT INTO game_records (room_code, game_type, players, winners, numbers_called, duration)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		record.RoomCode, record.GameType, players, winners, record.NumbersCalled, record.Duration)
	return err
}

func (p *PostgreSQL) SaveWin(roomCode, gameType, playerName, pattern, prize string) error {
	_, err := p.db.Exec(`
        INSERT INTO win_records (room_code, game_type, player_name, pattern, prize)
        VALUES ($1, $2, $3, $4, $5)`,
		roomCode, gameType, playerName, pattern, prize)
	return err
}

func (p *PostgreSQL) CountWins(playerName string) (int64, error) {
	var count int64
	err := p.db.QueryRow(`SELECT COUNT(*) FROM win_records WHERE player_name = $1`, playerName).Scan(&count)
	return count, err
}

func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
