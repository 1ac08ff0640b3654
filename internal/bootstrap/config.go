package bootstrap

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type Config struct {
	ServerPort      string `mapstructure:"SERVER_PORT"`
	EnginePath      string `mapstructure:"ENGINE_PATH"`
	EngineMoveTime  int    `mapstructure:"ENGINE_MOVETIME_MS"`
	EngineTimeout   int    `mapstructure:"ENGINE_TIMEOUT_MS"`
	StorageBackend  string `mapstructure:"STORAGE_BACKEND"`
	RedisUrl        string `mapstructure:"REDIS_URL"`
	MongoUri        string `mapstructure:"MONGO_URI"`
	MongoDatabase   string `mapstructure:"MONGO_DATABASE"`
	IsLocalCors     bool   `mapstructure:"LOCAL_CORS"`
	HistoryPageSize int    `mapstructure:"HISTORY_PAGE_SIZE"`
}

// MoveTime is the search budget handed to the engine with "go movetime".
func (c Config) MoveTime() time.Duration {
	return time.Duration(c.EngineMoveTime) * time.Millisecond
}

// Timeout is the hard deadline of a single engine session.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.EngineTimeout) * time.Millisecond
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("ENGINE_PATH", "stockfish")
	v.SetDefault("ENGINE_MOVETIME_MS", 100)
	v.SetDefault("ENGINE_TIMEOUT_MS", 10000)
	v.SetDefault("STORAGE_BACKEND", StorageMemory)
	v.SetDefault("REDIS_URL", "localhost:6379")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "chesslab")
	v.SetDefault("LOCAL_CORS", true)
	v.SetDefault("HISTORY_PAGE_SIZE", 50)
}

// Setup reads cfgPath (a dotenv file) on top of the defaults. Environment
// variables win over both; a missing file only leaves the defaults in place.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetConfigFile(cfgPath)

	err := v.ReadInConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config

	err = v.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}
