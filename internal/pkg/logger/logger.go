// Package logger is a context-aware facade over zap used by every service.
package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	global *zap.Logger
	mu     sync.RWMutex
)

func init() {
	global = zap.Must(zap.NewProduction())
}

// Init replaces the global logger, e.g. with a development config from main.
func Init(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

func get() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func Debugf(_ context.Context, format string, args ...interface{}) {
	get().Debug(fmt.Sprintf(format, args...))
}

func Info(_ context.Context, msg string) {
	get().Info(msg)
}

func Infof(_ context.Context, format string, args ...interface{}) {
	get().Info(fmt.Sprintf(format, args...))
}

func Warn(_ context.Context, msg string) {
	get().Warn(msg)
}

func Warnf(_ context.Context, format string, args ...interface{}) {
	get().Warn(fmt.Sprintf(format, args...))
}

func Error(_ context.Context, msg string) {
	get().Error(msg)
}

func Errorf(_ context.Context, format string, args ...interface{}) {
	get().Error(fmt.Sprintf(format, args...))
}

func Fatal(_ context.Context, err error) {
	if err == nil {
		return
	}
	get().Fatal(err.Error())
}
