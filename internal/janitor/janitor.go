package janitor

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// CleanOldFiles 删除目录下超过保留期的归档文件
// 递归进入子目录，清理后顺带删掉空子目录；单个文件失败只记日志
func CleanOldFiles(dir string, retentionDays int) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	cleanDir(dir, dir, cutoff)
}

func cleanDir(root, dir string, cutoff time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("清理归档目录失败 %s: %v", dir, err)
		return
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			cleanDir(root, path, cutoff)
			// 空子目录一并清理，根目录保留
			if path != root {
				if rest, err := os.ReadDir(path); err == nil && len(rest) == 0 {
					if err := os.Remove(path); err != nil {
						log.Printf("删除空目录失败 %s: %v", path, err)
					}
				}
			}
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil {
				log.Printf("删除过期文件失败 %s: %v", path, err)
			} else {
				log.Printf("已清理过期归档: %s", path)
			}
		}
	}
}

// Start 启动每日定时清理
// 启动时先跑一次，之后每天凌晨两点执行
func Start(dir string, retentionDays int) {
	go func() {
		CleanOldFiles(dir, retentionDays)
		for {
			time.Sleep(untilNextRun(time.Now()))
			CleanOldFiles(dir, retentionDays)
		}
	}()
}

// untilNextRun 距下一个凌晨 02:00 的时长
func untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), 2, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
