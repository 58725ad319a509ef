package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Janwang88/KIMD/internal/model"
)

type addReviewRequest struct {
	Content   string `json:"content"`
	Milestone string `json:"milestone"`
	UserID    string `json:"user_id"`
}

// handleAddReview 新增进度评论
func (s *Server) handleAddReview(c *gin.Context) {
	var req addReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "内容不能为空"})
		return
	}

	r := model.Review{
		UserID:    req.UserID,
		Content:   req.Content,
		Milestone: req.Milestone,
	}
	id, err := s.store.AddReview(&r)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "无法保存记录"})
		return
	}
	r.ID = id

	c.JSON(http.StatusOK, gin.H{"success": true, "data": r})
}

// handleListReviews 查询进度评论
func (s *Server) handleListReviews(c *gin.Context) {
	milestone := c.Query("milestone")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, err := s.store.ListReviews(milestone, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "查询记录失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
}

// handleDeleteReview 删除进度评论
func (s *Server) handleDeleteReview(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "无效的ID"})
		return
	}

	found, err := s.store.DeleteReview(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "删除失败"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "未找到该记录"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "记录已删除"})
}
