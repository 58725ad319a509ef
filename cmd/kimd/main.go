package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Janwang88/KIMD/internal/config"
	"github.com/Janwang88/KIMD/internal/janitor"
	"github.com/Janwang88/KIMD/internal/server"
)

var (
	port      = flag.Int("port", 0, "服务端口 (覆盖配置文件)")
	devMode   = flag.Bool("dev", false, "开发模式")
	dataDir   = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	downloads = flag.String("downloads", "", "下载目录 (覆盖配置文件)")
)

func main() {
	flag.Parse()

	fmt.Println("==========================================")
	fmt.Println("  KIMD - 物料执行情况查询工具")
	fmt.Println("==========================================")

	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *downloads != "" {
		cfg.Watch.DownloadsDir = *downloads
	}

	// 创建服务器（内部负责创建数据目录）
	srv := server.NewServer(cfg)
	fmt.Printf("数据目录: %s\n", srv.DataDir())
	fmt.Printf("下载目录: %s\n", cfg.Watch.DownloadsDir)

	// 启动归档清理任务
	janitor.Start(srv.DataDir(), cfg.Data.RetentionDays)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	go func() {
		fmt.Printf("服务启动中，监听端口 %d ...\n", cfg.Server.Port)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	fmt.Printf("服务已启动: http://localhost:%d\n", cfg.Server.Port)
	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	if err := srv.Close(); err != nil {
		log.Printf("关闭存储失败: %v", err)
	}
}
