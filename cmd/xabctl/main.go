// xabctl 是实验配置的本地调试工具。
//
// 用法:
//
//	xabctl <命令> [命令参数]
//
// 命令:
//
//	validate <file>                              校验配置文件并打印实验概要
//	variation --settings f --campaign k --user u 计算单个用户的分流结果
//	simulate --settings f --campaign k --users N 模拟 N 个用户并打印各变体占比
//
// 退出码:
//
//	0: 成功
//	1: 配置无效或执行失败
//	2: 参数错误
//
// 示例:
//
//	xabctl validate experiments.yaml
//	xabctl variation -s experiments.yaml -c checkout -u user-42
//	xabctl simulate -s experiments.yaml -c checkout -n 100000
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

// usageError 参数错误，退出码 2
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args, os.Stdout, os.Stderr))
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xabctl",
		Usage:     "实验配置本地调试工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Commands:  createCommands(),
		// 由 run 统一映射退出码，不让 cli 直接 os.Exit
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createApp(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) || isCLIUsageError(err) {
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

// isCLIUsageError 识别 cli 框架自身的解析错误
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, s := range []string{
		"flag provided but not defined",
		"invalid value",
		"No help topic for",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
