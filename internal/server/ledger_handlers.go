package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Janwang88/KIMD/internal/model"
	"github.com/Janwang88/KIMD/internal/stats"
)

// handleOutsourceHours 外协工时对账：按工单汇总本地台账
func (s *Server) handleOutsourceHours(c *gin.Context) {
	raw := c.Query("workOrder")
	if strings.TrimSpace(raw) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "请提供工单号"})
		return
	}

	targets := stats.SplitWorkOrders(raw)
	if len(targets) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "total": 0})
		return
	}

	outsourceRows, err := s.store.HoursByWorkOrders(targets, "外协")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	kimdRows, err := s.store.HoursByWorkOrders(targets, "KIMD")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	result := stats.Reconcile(outsourceRows, kimdRows)
	c.JSON(http.StatusOK, gin.H{
		"success":                  true,
		"total":                    result.Total,
		"assembly":                 result.Assembly,
		"mixed":                    result.Mixed,
		"wiring":                   result.Wiring,
		"uncategorized":            result.Uncategorized,
		"processBreakdown":         result.ProcessBreakdown,
		"kimdBreakdown":            result.KimdBreakdown,
		"detailedProcessBreakdown": result.DetailedProcessBreakdown,
	})
}

// handleListRecords 分页查询台账记录
func (s *Server) handleListRecords(c *gin.Context) {
	keyword := c.Query("keyword")
	searchDate := c.Query("searchDate")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "100"))

	records, total, err := s.store.ListManpower(keyword, searchDate, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "total": total, "data": records})
}

// handleAddRecord 新增台账记录
func (s *Server) handleAddRecord(c *gin.Context) {
	var r model.ManpowerRecord
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	id, err := s.store.InsertManpower(&r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "添加成功", "id": id})
}

// handleUpdateRecord 更新台账记录
func (s *Server) handleUpdateRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "无效的ID"})
		return
	}

	var r model.ManpowerRecord
	if err := c.ShouldBindJSON(&r); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	r.ID = id
	if r.Category == "" {
		r.Category = "外协"
	}

	if err := s.store.UpdateManpower(&r); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "未找到对应记录"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "更新成功"})
}

// handleDeleteRecord 删除台账记录
func (s *Server) handleDeleteRecord(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "无效的ID"})
		return
	}

	found, err := s.store.DeleteManpower(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "未找到对应记录"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "删除成功"})
}

type batchDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

// handleBatchDelete 批量删除台账记录
func (s *Server) handleBatchDelete(c *gin.Context) {
	var req batchDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "请提供有效的ID列表"})
		return
	}

	n, err := s.store.BatchDeleteManpower(req.IDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("成功删除 %d 条记录", n)})
}

type batchUpdateRequest struct {
	IDs     []int64 `json:"ids"`
	Content *string `json:"content"`
	Remark1 *string `json:"remark1"`
}

// handleBatchUpdate 批量更新工艺名称/备注
func (s *Server) handleBatchUpdate(c *gin.Context) {
	var req batchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "请提供有效的ID列表"})
		return
	}
	if req.Content == nil && req.Remark1 == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "没有提供需要更新的字段"})
		return
	}

	n, err := s.store.BatchUpdateManpower(req.IDs, req.Content, req.Remark1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": fmt.Sprintf("成功更新 %d 条记录", n)})
}

type importRecordsRequest struct {
	Records []model.ManpowerRecord `json:"records"`
}

// handleImportRecords 批量导入台账记录
func (s *Server) handleImportRecords(c *gin.Context) {
	var req importRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Records == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "无效的数据格式"})
		return
	}

	count, err := s.store.ImportManpower(req.Records)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "导入过程中发生错误: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("成功导入 %d 条记录", count),
		"count":   count,
	})
}
