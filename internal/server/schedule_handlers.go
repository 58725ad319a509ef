package server

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Janwang88/KIMD/internal/config"
	"github.com/Janwang88/KIMD/internal/excel"
	"github.com/Janwang88/KIMD/internal/stats"
	"github.com/Janwang88/KIMD/internal/watcher"
)

type scheduleExportRequest struct {
	Since     float64 `json:"since"`
	TimeoutMs int     `json:"timeoutMs"`
}

// handleWatchScheduleExport 等待生产排程导出文件，归档并导入工单缓存
func (s *Server) handleWatchScheduleExport(c *gin.Context) {
	var req scheduleExportRequest
	_ = c.ShouldBindJSON(&req)

	since := sinceTime(req.Since)
	latest, err := s.watch.WaitForNew(c.Request.Context(), []string{"排程"}, since, timeoutDuration(req.TimeoutMs, 120*time.Second))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "等待超时，未检测到新导出的 Excel"})
		return
	}

	newFilename := "生产排程+" + time.Now().Format("2006-01-02") + ".xlsx"
	fileToRead := latest.Path
	if dest, err := watcher.MoveFile(latest.Path, filepath.Join(s.dataDir, config.ScheduleSubdir), newFilename); err != nil {
		log.Printf("[AutoImport] 归档排程文件失败: %v", err)
	} else {
		fileToRead = dest
	}

	sheet, err := excel.ReadFirstSheet(fileToRead)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "自动导入失败: " + err.Error()})
		return
	}
	if len(sheet.Grid) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Excel 文件为空"})
		return
	}

	orders, err := stats.ParseSchedule(sheet.Grid)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := s.cache.Replace(orders, "excel_auto_import", newFilename); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	log.Printf("[AutoImport] 自动抓取并导入 %d 条数据，归档为: %s", len(orders), newFilename)
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(orders), "file": newFilename})
}

type importWorkOrdersRequest struct {
	FileContent string `json:"fileContent"` // Base64 编码的 Excel
}

// handleImportWorkOrders 手动上传排程 Excel 导入工单缓存
func (s *Server) handleImportWorkOrders(c *gin.Context) {
	var req importWorkOrdersRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FileContent == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "未接收到文件内容"})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.FileContent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "文件内容解码失败"})
		return
	}

	sheet, err := excel.ReadFirstSheetFrom(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Excel 解析失败: " + err.Error()})
		return
	}
	if len(sheet.Grid) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Excel 文件为空"})
		return
	}

	orders, err := stats.ParseSchedule(sheet.Grid)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := s.cache.Replace(orders, "excel_manual_import", ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"message": fmt.Sprintf("成功导入 %d 条工单数据", len(orders)),
	})
}

// handleWorkOrders 返回缓存中的全部工单
func (s *Server) handleWorkOrders(c *gin.Context) {
	snap := s.cache.Get()
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       snap.Data,
		"updateTime": orNil(snap.UpdateTime),
		"source":     orNil(snap.Source),
		"sourceFile": orNil(snap.SourceFile),
	})
}

// handleMilestones 查询指定工单的排程时间节点
func (s *Server) handleMilestones(c *gin.Context) {
	target := strings.TrimSpace(c.Query("workOrder"))
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing workOrder"})
		return
	}

	orders := s.cache.All()
	if len(orders) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "暂无缓存数据，无法显示时间节点"})
		return
	}

	matched, ok := stats.MatchWorkOrder(orders, target)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "WorkOrder not found in schedule cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"milestones": gin.H{
			"assemblyStart": matched.AssemblyStart,
			"assemblyEnd":   matched.AssemblyEnd,
			"debugStart":    matched.DebugStart,
			"debugEnd":      matched.DebugEnd,
			"shipStart":     matched.ShipStart,
		},
	})
}
