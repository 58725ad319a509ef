package server

import (
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Janwang88/KIMD/internal/config"
	"github.com/Janwang88/KIMD/internal/schedule"
	"github.com/Janwang88/KIMD/internal/stats"
	"github.com/Janwang88/KIMD/internal/store"
	"github.com/Janwang88/KIMD/internal/watcher"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	cfg     *config.AppConfig
	store   *store.Store
	cache   *schedule.Cache
	watch   *watcher.Watcher
	dataDir string
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig) *Server {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "kimd.db")
	sqliteStore, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	s := &Server{
		router:  gin.Default(),
		cfg:     cfg,
		store:   sqliteStore,
		cache:   schedule.NewCache(filepath.Join(dataDir, config.ScheduleSubdir)),
		watch:   watcher.New(cfg.Watch.DownloadsDir),
		dataDir: dataDir,
	}

	s.setupRoutes()

	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api := s.router.Group("/api")
	{
		// 物料/工时统计
		api.POST("/excel-wait-stats", s.handleExcelWaitStats)
		api.POST("/excel-material-stats", s.handleMaterialStats)
		api.POST("/hours-wait-stats", s.handleHoursWaitStats)

		// 生产排程
		api.POST("/watch-schedule-export", s.handleWatchScheduleExport)
		api.POST("/import-work-orders", s.handleImportWorkOrders)
		api.GET("/work-orders", s.handleWorkOrders)
		api.GET("/milestones", s.handleMilestones)

		// 外协工时台账
		api.GET("/outsource-hours", s.handleOutsourceHours)
		api.GET("/outsource-records", s.handleListRecords)
		api.POST("/outsource-record", s.handleAddRecord)
		api.PUT("/outsource-record/:id", s.handleUpdateRecord)
		api.DELETE("/outsource-record/:id", s.handleDeleteRecord)
		api.POST("/outsource-record/batch-delete", s.handleBatchDelete)
		api.POST("/outsource-record/batch-update", s.handleBatchUpdate)
		api.POST("/outsource-record/import", s.handleImportRecords)

		// 进度评论
		api.POST("/reviews", s.handleAddReview)
		api.GET("/reviews", s.handleListReviews)
		api.DELETE("/reviews/:id", s.handleDeleteReview)
	}
}

// statsOptions 从配置构建统计参数
func (s *Server) statsOptions() stats.Options {
	opts := stats.DefaultOptions()
	if s.cfg.Stats.ProcPrefix != "" {
		opts.ProcPrefix = s.cfg.Stats.ProcPrefix
	}
	if s.cfg.Stats.CutoffHour > 0 {
		opts.CutoffHour = s.cfg.Stats.CutoffHour
	}
	if s.cfg.Stats.StdCycleLimitDays > 0 {
		opts.StdCycleLimit = s.cfg.Stats.StdCycleLimitDays
	}
	if s.cfg.Stats.ProcCycleLimitDays > 0 {
		opts.ProcCycleLimit = s.cfg.Stats.ProcCycleLimitDays
	}
	return opts
}

// Run 启动服务器
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close 释放持有的资源
func (s *Server) Close() error {
	return s.store.Close()
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}

// DataDir 返回解析后的数据目录绝对路径
func (s *Server) DataDir() string {
	return s.dataDir
}
