package server

import (
	"log"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Janwang88/KIMD/internal/config"
	"github.com/Janwang88/KIMD/internal/excel"
	"github.com/Janwang88/KIMD/internal/stats"
	"github.com/Janwang88/KIMD/internal/watcher"
)

// 默认监控词：KIMD 导出的物料类文件名不稳定，宽词提高捕获率
var defaultMaterialPatterns = []string{"物料", "Material", "Export", "进度", "清单", "工单", "PPBOM"}

var unsafeNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

func sanitizeFileName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// normalizePatterns 请求中的 pattern 兼容字符串和数组两种写法
func normalizePatterns(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// sinceTime 前端传入的毫秒时间戳，未传则取当前时刻
func sinceTime(ms float64) time.Time {
	if ms > 0 {
		return time.UnixMilli(int64(ms))
	}
	return time.Now()
}

func timeoutDuration(ms int, def time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

type waitStatsRequest struct {
	Pattern   any     `json:"pattern"`
	Since     float64 `json:"since"`
	TimeoutMs int     `json:"timeoutMs"`
	WorkOrder string  `json:"workOrder"`
}

// handleExcelWaitStats 等待新导出的物料明细 Excel，归档后统计
func (s *Server) handleExcelWaitStats(c *gin.Context) {
	// 请求体可选
	var req waitStatsRequest
	_ = c.ShouldBindJSON(&req)

	patterns := normalizePatterns(req.Pattern)
	if len(patterns) == 0 {
		patterns = append(patterns, defaultMaterialPatterns...)
	}
	// 工单号本身也作为监控词，KIMD 常用工单号命名导出文件
	if req.WorkOrder != "" {
		if parts := stats.SplitWorkOrders(req.WorkOrder); len(parts) > 0 {
			woPart := parts[0]
			found := false
			for _, p := range patterns {
				if p == woPart {
					found = true
					break
				}
			}
			if !found {
				patterns = append(patterns, woPart)
			}
		}
	}

	since := sinceTime(req.Since)
	log.Printf("[ExcelWait] 监控已启动: 工单=%s, 特征词=[%s], 起始时间=%s",
		orUnknown(req.WorkOrder), strings.Join(patterns, ", "), since.Format("2006-01-02 15:04:05"))

	latest, err := s.watch.WaitForNew(c.Request.Context(), patterns, since, timeoutDuration(req.TimeoutMs, 120*time.Second))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "等待超时，未检测到新导出的Excel"})
		return
	}

	targetPath := latest.Path
	savedAs := ""
	if req.WorkOrder != "" {
		newName := sanitizeFileName(req.WorkOrder) + "_" + time.Now().Format("20060102") + ".xlsx"
		newPath, err := watcher.MoveFile(latest.Path, filepath.Join(s.dataDir, config.MaterialSubdir), newName)
		if err != nil {
			log.Printf("[ExcelWait] 归档失败，使用原始路径: %v", err)
		} else {
			targetPath = newPath
			savedAs = newName
		}
	}

	log.Printf("[Stats] 开始解析 Excel: %s", targetPath)
	sheet, err := excel.ReadFirstSheet(targetPath)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Excel 文件解析失败，可能格式不兼容: " + err.Error()})
		return
	}
	result := stats.Compute(sheet.Records, sheet.Grid, s.statsOptions())
	log.Printf("[Stats] 解析完成: %s, 行数: %d", targetPath, result.Rows)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"file":     filepath.Base(targetPath),
		"filePath": targetPath,
		"savedAs":  orNil(savedAs),
		"stats":    result,
	})
}

type materialStatsRequest struct {
	Pattern any `json:"pattern"`
}

// handleMaterialStats 直接统计下载目录中最新的物料 Excel，不等待
func (s *Server) handleMaterialStats(c *gin.Context) {
	// 请求体可选
	var req materialStatsRequest
	_ = c.ShouldBindJSON(&req)

	patterns := normalizePatterns(req.Pattern)
	if len(patterns) == 0 {
		patterns = []string{"物料"}
	}

	latest, err := s.watch.FindLatest(patterns)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "未找到最新的Excel文件（请先在KIMD导出）"})
		return
	}

	sheet, err := excel.ReadFirstSheet(latest.Path)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Excel 文件解析失败，可能格式不兼容: " + err.Error()})
		return
	}
	result := stats.Compute(sheet.Records, sheet.Grid, s.statsOptions())

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"file":     latest.Name,
		"filePath": latest.Path,
		"stats":    result,
	})
}

// handleHoursWaitStats 等待新导出的工时明细 Excel，归档后统计
// 工时文件名由 KIMD 决定且不含固定关键词，只靠时间戳识别本次导出
func (s *Server) handleHoursWaitStats(c *gin.Context) {
	var req waitStatsRequest
	_ = c.ShouldBindJSON(&req)

	since := sinceTime(req.Since)
	log.Printf("[HoursWait] 监控启动: 工单=%s, 起始时间=%s, 策略=时间戳匹配(不限文件名)",
		orUnknown(req.WorkOrder), since.Format("2006-01-02 15:04:05"))

	latest, err := s.watch.WaitForNew(c.Request.Context(), nil, since, timeoutDuration(req.TimeoutMs, 180*time.Second))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "等待超时，未检测到导出的工时Excel"})
		return
	}

	targetPath := latest.Path
	savedAs := ""
	if req.WorkOrder != "" {
		newName := sanitizeFileName(req.WorkOrder) + "_工时明细_" + time.Now().Format("20060102") + ".xlsx"
		newPath, err := watcher.MoveFile(latest.Path, filepath.Join(s.dataDir, config.HoursSubdir), newName)
		if err != nil {
			log.Printf("[HoursWait] 归档失败，使用原始路径: %v", err)
		} else {
			targetPath = newPath
			savedAs = newName
		}
	}

	sheet, err := excel.ReadFirstSheet(targetPath)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Excel 文件解析失败，可能格式不兼容: " + err.Error()})
		return
	}

	result, err := stats.ComputeHours(sheet.Grid)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"message": err.Error(),
			"file":    filepath.Base(targetPath),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"file":     filepath.Base(targetPath),
		"filePath": targetPath,
		"savedAs":  orNil(savedAs),
		"stats":    result,
	})
}

func orUnknown(s string) string {
	if s == "" {
		return "未知"
	}
	return s
}

// orNil 空串序列化为 null，与前端约定一致
func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
