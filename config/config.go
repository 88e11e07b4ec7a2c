package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Room     RoomConfig     `mapstructure:"room"`
	Game     GameConfig     `mapstructure:"game"`
	Database DatabaseConfig `mapstructure:"database"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type RoomConfig struct {
	MaxPlayers int `mapstructure:"max_players"`
	CodeLength int `mapstructure:"code_length"`
}

type GameConfig struct {
	AutoCallInterval time.Duration     `mapstructure:"auto_call_interval"`
	ChatMaxLength    int               `mapstructure:"chat_max_length"`
	Prizes           map[string]string `mapstructure:"prizes"`
}

type DatabaseConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9090")
	viper.SetDefault("room.max_players", 10)
	viper.SetDefault("room.code_length", 6)
	viper.SetDefault("game.auto_call_interval", 5*time.Second)
	viper.SetDefault("game.chat_max_length", 500)
	viper.SetDefault("database.enabled", false)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// 没有配置文件时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
