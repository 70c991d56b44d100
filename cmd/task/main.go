package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cafe_task/internal/app"
	"cafe_task/internal/scrape"
	"cafe_task/internal/sdk"
	"cafe_task/internal/shared/config"
	"cafe_task/internal/shared/logger"
	"cafe_task/internal/shared/types"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode(err))
}

// exitCode 把 run 的结果映射为进程退出码: 成功 0，其余 (包括失败载荷已推送的情况) 1。
func exitCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("task", flag.ContinueOnError)
	configPath := fs.String("config", "configs/task.ini", "Path to the task ini file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// .env 是可选的，找不到时忽略
	_ = godotenv.Load()

	// 1. 加载配置 (ini + 环境变量)
	cfg := types.DefaultConfig()
	if err := config.Load(cfg, *configPath); err != nil {
		// logger 尚未初始化
		fmt.Fprintf(os.Stderr, "Fatal: Failed to load config file '%s': %v\n", *configPath, err)
		return err
	}

	// 1.1 初始化日志系统
	if err := logger.Init(cfg.LogConf); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: Failed to initialize logger: %v\n", err)
		return err
	}

	// 2. 连接宿主 SDK 服务 (懒连接，首次调用时才真正建立)
	conn, err := sdk.Dial(cfg.RPCConf)
	if err != nil {
		logger.Error().Err(err).Msgf("Failed to create channel to '%s'", cfg.RPCConf.Address)
		return err
	}
	defer conn.Close()
	client := sdk.New(conn, cfg.RPCConf.ServicePackage)

	// 3. 组装任务
	task, err := app.NewTaskFromConfig(cfg, client, scrape.NewPageScraper(cfg.ScrapeConf))
	if err != nil {
		logger.Error().Err(err).Msg("Invalid task configuration")
		return err
	}

	// 4. 运行；失败时 Run 已经推送了失败载荷
	if err := task.Run(ctx); err != nil {
		logger.Error().Err(err).Str("invocation", task.InvocationID()).Msg("Task failed")
		return err
	}
	return nil
}
