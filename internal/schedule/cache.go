package schedule

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Janwang88/KIMD/internal/model"
)

const cacheFile = "work_orders.json"

// Snapshot 工单缓存的持久化形态
type Snapshot struct {
	Data       []model.WorkOrder `json:"data"`
	UpdateTime string            `json:"updateTime"`
	Source     string            `json:"source"`
	SourceFile string            `json:"sourceFile,omitempty"`
}

// Cache 生产排程工单缓存
// 常驻内存供查询，同时落盘到归档目录，重启后自动恢复
type Cache struct {
	mu   sync.RWMutex
	snap Snapshot
	dir  string
}

// NewCache 创建工单缓存并从磁盘恢复历史数据
func NewCache(dir string) *Cache {
	c := &Cache{dir: dir}
	if err := c.load(); err != nil {
		log.Printf("恢复工单缓存失败: %v", err)
	}
	return c
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFile)
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to parse work order cache: %w", err)
	}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()
	return nil
}

// Replace 用新一批排程工单整体替换缓存并持久化
func (c *Cache) Replace(orders []model.WorkOrder, source, sourceFile string) error {
	snap := Snapshot{
		Data:       orders,
		UpdateTime: time.Now().Format(time.RFC3339),
		Source:     source,
		SourceFile: sourceFile,
	}
	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal work orders: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create schedule dir: %w", err)
	}
	if err := os.WriteFile(c.path(), data, 0644); err != nil {
		return fmt.Errorf("failed to persist work orders: %w", err)
	}
	return nil
}

// All 返回缓存中全部工单的副本
func (c *Cache) All() []model.WorkOrder {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.WorkOrder, len(c.snap.Data))
	copy(out, c.snap.Data)
	return out
}

// Get 返回当前快照
func (c *Cache) Get() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := c.snap
	snap.Data = append([]model.WorkOrder{}, c.snap.Data...)
	return snap
}
