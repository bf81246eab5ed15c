package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/play/doudizhu/pkg/compile"
	"github.com/play/doudizhu/pkg/config"
	"github.com/play/doudizhu/pkg/logger"
)

// settings 由 setup 写入
var settings *viper.Viper

const usage = `usage: doudizhu <command> [flags]

commands:
  simulate   在本进程内自动打若干局并输出统计
  check      连接 Redis，走一遍牌桌服务的完整流程
  version    打印版本信息
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "simulate":
		err = runSimulate(ctx, args)
	case "check":
		err = runCheck(ctx, args)
	case "version", "-v", "--version":
		compile.Print()
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setup 解析公共参数并初始化配置和日志
func setup(fs *flag.FlagSet, args []string) error {
	path := fs.String("config", "", "配置文件路径，为空时只使用默认值和 DOUDIZHU_ 环境变量")
	level := fs.String("log-level", "", "覆盖 log.level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v, err := config.Load(*path)
	if err != nil {
		return err
	}
	if *level != "" {
		v.Set("log.level", *level)
	}
	logger.Setup(v)
	compile.Log()
	settings = v
	return nil
}
