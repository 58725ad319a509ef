package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Watch  WatchConfig  `toml:"watch"`
	Stats  StatsConfig  `toml:"stats"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir       string `toml:"data_dir"`
	RetentionDays int    `toml:"retention_days"`
}

// WatchConfig 下载目录监听配置
type WatchConfig struct {
	DownloadsDir string `toml:"downloads_dir"`
	TimeoutMs    int    `toml:"timeout_ms"`
}

// StatsConfig 物料统计业务参数
type StatsConfig struct {
	ProcPrefix         string `toml:"proc_prefix"`
	CutoffHour         int    `toml:"cutoff_hour"`
	StdCycleLimitDays  int    `toml:"std_cycle_limit_days"`
	ProcCycleLimitDays int    `toml:"proc_cycle_limit_days"`
}

// 归档子目录，按来源报表分类存放
const (
	ScheduleSubdir = "生产排程"
	MaterialSubdir = "物料明细"
	HoursSubdir    = "工时统计"
)

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	home, _ := os.UserHomeDir()
	return &AppConfig{
		Server: ServerConfig{
			Port:    3210,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir:       "data",
			RetentionDays: 30,
		},
		Watch: WatchConfig{
			DownloadsDir: filepath.Join(home, "Downloads"),
			TimeoutMs:    60000,
		},
		Stats: StatsConfig{
			ProcPrefix:         "7.",
			CutoffHour:         15,
			StdCycleLimitDays:  10,
			ProcCycleLimitDays: 7,
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下，不存在时使用默认配置
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if config.Watch.DownloadsDir == "" {
		home, _ := os.UserHomeDir()
		config.Watch.DownloadsDir = filepath.Join(home, "Downloads")
	}

	return config, nil
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录及归档子目录存在
// 数据目录位于可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{ScheduleSubdir, MaterialSubdir, HoursSubdir}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
