package watcher

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Candidate 下载目录中一个符合条件的导出文件
type Candidate struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// Watcher 轮询下载目录，捕获 KIMD 刚导出的报表文件
// 浏览器下载完成的时机不可预知，只能按修改时间加大小稳定性判断
type Watcher struct {
	Dir      string
	Interval time.Duration // 轮询间隔
	Grace    time.Duration // 允许文件早于基准时间多少出现
}

// New 创建目录监听器，使用默认轮询参数
func New(dir string) *Watcher {
	return &Watcher{
		Dir:      dir,
		Interval: time.Second,
		Grace:    5 * time.Second,
	}
}

// isExcel 只认 xlsx/xls，跳过 Office 的 ~$ 临时锁文件
func isExcel(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}

// matchPatterns 文件名包含任一关键词即命中，不区分大小写；patterns 为空时全部命中
func matchPatterns(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if p != "" && strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// scan 列出目录中命中的 Excel 文件
func (w *Watcher) scan(patterns []string) ([]Candidate, error) {
	entries, err := os.ReadDir(w.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read watch dir: %w", err)
	}

	var out []Candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !isExcel(name) || !matchPatterns(name, patterns) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Candidate{
			Name:    name,
			Path:    filepath.Join(w.Dir, name),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return out, nil
}

// FindLatest 返回目录中命中关键词的最新文件，没有则返回 nil
func (w *Watcher) FindLatest(patterns []string) (*Candidate, error) {
	candidates, err := w.scan(patterns)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	latest := candidates[0]
	for _, c := range candidates[1:] {
		if c.ModTime.After(latest.ModTime) {
			latest = c
		}
	}
	return &latest, nil
}

// WaitForNew 等待基准时间之后出现的新文件
// 文件必须在连续两次轮询中路径和大小都不变才算下载完成；
// 超时或 ctx 取消时返回 (nil, nil)，由调用方决定提示文案。
func (w *Watcher) WaitForNew(ctx context.Context, patterns []string, since time.Time, timeout time.Duration) (*Candidate, error) {
	interval := w.Interval
	if interval <= 0 {
		interval = time.Second
	}
	deadline := time.Now().Add(timeout)
	cutoff := since.Add(-w.Grace)

	var prev *Candidate
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		candidates, err := w.scan(patterns)
		if err != nil {
			return nil, err
		}

		var newest *Candidate
		for i := range candidates {
			c := &candidates[i]
			if !c.ModTime.After(cutoff) {
				continue
			}
			if newest == nil || c.ModTime.After(newest.ModTime) {
				newest = c
			}
		}

		if newest != nil {
			if prev != nil && prev.Path == newest.Path && prev.Size == newest.Size {
				return newest, nil
			}
			prev = newest
		} else {
			prev = nil
		}

		if time.Now().After(deadline) {
			return nil, nil
		}

		select {
		case <-ctx.Done():
			return nil, nil
		case <-ticker.C:
		}
	}
}

// MoveFile 将捕获的文件移动到归档目录并改名
// 跨盘 rename 会失败，回退为复制后删除；目标已存在时先覆盖
func MoveFile(src, dstDir, newName string) (string, error) {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive dir: %w", err)
	}
	dst := filepath.Join(dstDir, newName)

	if _, err := os.Stat(dst); err == nil {
		if err := os.Remove(dst); err != nil {
			log.Printf("删除旧归档文件失败: %v", err)
		}
	}

	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}

	if err := copyFile(src, dst); err != nil {
		return "", fmt.Errorf("failed to archive file: %w", err)
	}
	if err := os.Remove(src); err != nil {
		log.Printf("删除源文件失败: %v", err)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
