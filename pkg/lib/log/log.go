// Package log 提供按子系统划分的日志记录器
//
// 每个包在包级变量中声明自己的记录器：
//
//	var logger = log.Logger("dsn/register")
//
// 记录器不持有 handler，每次调用都使用当前的 slog 默认 logger，
// 因此 SetDefault 或 SetOutput 之后已声明的记录器立即切换输出。
package log

import (
	"context"
	"io"
	"log/slog"
)

// SubsystemKey 子系统名称的属性键
const SubsystemKey = "subsystem"

// LazyLogger 子系统记录器
type LazyLogger struct {
	subsystem string
}

// Logger 返回子系统记录器
func Logger(subsystem string) *LazyLogger {
	return &LazyLogger{subsystem: subsystem}
}

// Subsystem 返回子系统名称
func (l *LazyLogger) Subsystem() string {
	return l.subsystem
}

func (l *LazyLogger) log(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	def := slog.Default()
	if !def.Enabled(ctx, level) {
		return
	}
	def.Log(ctx, level, msg, append([]any{SubsystemKey, l.subsystem}, args...)...)
}

// Debug 输出 Debug 级别日志
func (l *LazyLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }

// Info 输出 Info 级别日志
func (l *LazyLogger) Info(msg string, args ...any) { l.log(slog.LevelInfo, msg, args) }

// Warn 输出 Warn 级别日志
func (l *LazyLogger) Warn(msg string, args ...any) { l.log(slog.LevelWarn, msg, args) }

// Error 输出 Error 级别日志
func (l *LazyLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

// SetDefault 替换默认 logger
func SetDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// SetOutput 把默认 logger 重定向到 w，低于 level 的记录被丢弃
func SetOutput(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
