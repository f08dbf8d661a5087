package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// 环境变量前缀
const envPrefix = "BOUNCEBALL_"

// Config 进程级配置；游戏数值见 game.Tuning
type Config struct {
	Addr           string
	LogFile        string
	ScoresFile     string
	StaticDir      string
	ScoresURL      string
	DefaultRoom    string
	Codec          string
	TickRate       int
	BroadcastEvery int
	Seed           int64
	ShutdownWait   time.Duration
}

// Default 默认配置
func Default() Config {
	return Config{
		Addr:           ":8080",
		LogFile:        "bounceball.log",
		ScoresFile:     "data/leaderboard.json",
		StaticDir:      "./static",
		DefaultRoom:    "room-1",
		Codec:          "json",
		TickRate:       60,
		BroadcastEvery: 2,
		ShutdownWait:   5 * time.Second,
	}
}

// Load 依次读取 .env 文件（不存在则跳过）与 BOUNCEBALL_* 环境变量
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// 已存在的环境变量优先，不会被文件覆盖
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// GetEnvVariable 读取单个变量，空值视为缺失
func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}
	return b, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"ADDR":         &c.Addr,
		"LOG_FILE":     &c.LogFile,
		"SCORES_FILE":  &c.ScoresFile,
		"STATIC_DIR":   &c.StaticDir,
		"SCORES_URL":   &c.ScoresURL,
		"DEFAULT_ROOM": &c.DefaultRoom,
		"CODEC":        &c.Codec,
	}
	for key, dst := range strs {
		if v, err := GetEnvVariable(envPrefix + key); err == nil {
			*dst = v
		}
	}
	ints := map[string]*int{
		"TICK_RATE":       &c.TickRate,
		"BROADCAST_EVERY": &c.BroadcastEvery,
	}
	for key, dst := range ints {
		v, err := GetEnvVariable(envPrefix + key)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, key, err)
		}
		*dst = n
	}
	if v, err := GetEnvVariable(envPrefix + "SEED"); err == nil {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sSEED: %w", envPrefix, err)
		}
		c.Seed = n
	}
	if v, err := GetEnvVariable(envPrefix + "SHUTDOWN_WAIT"); err == nil {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sSHUTDOWN_WAIT: %w", envPrefix, err)
		}
		c.ShutdownWait = d
	}
	return nil
}

// Validate 检查取值范围
func (c Config) Validate() error {
	switch {
	case c.TickRate < 1 || c.TickRate > 240:
		return fmt.Errorf("tick rate out of range: %d", c.TickRate)
	case c.BroadcastEvery < 1:
		return fmt.Errorf("broadcast interval must be >= 1: %d", c.BroadcastEvery)
	case c.Codec != "json" && c.Codec != "msgpack":
		return fmt.Errorf("unknown codec %q", c.Codec)
	case c.DefaultRoom == "":
		return fmt.Errorf("default room must not be empty")
	}
	return nil
}
