/*
pkg/log 是 nexuscore/log 的门面包，目的有两个：
1. 让业务代码只依赖本包，未来替换底层日志实现时不用改动业务代码；
2. 补充 L(ctx) 方法，把请求级上下文（请求ID等）自动带入日志字段，
实现一次请求内所有日志的关联追踪。
*/

package log

import (
	"context"
	"fmt"

	"github.com/maxiaolu1981/cretem/nexuscore/log"
)

// 上下文键，middleware.Context() 负责写入
const (
	KeyRequestID = "requestID"
	KeyUsername  = "username"
)

type (
	Field   = log.Field
	Level   = log.Level
	Logger  = log.Logger
	Options = log.Options
)

// 常用 zap 字段构造函数的再导出
var (
	Any      = log.Any
	Bool     = log.Bool
	Duration = log.Duration
	Err      = log.Err
	Float64  = log.Float64
	Int      = log.Int
	Int64    = log.Int64
	String   = log.String
	Strings  = log.Strings
	Time     = log.Time
	Uint     = log.Uint
)

func NewOptions() *Options { return log.NewOptions() }

func Init(opts *Options) { log.Init(opts) }

func Flush() { log.Flush() }

func Debug(msg string, fields ...Field) { log.Debug(msg, fields...) }

func Debugf(format string, v ...interface{}) { log.Debugf(format, v...) }

func Debugw(msg string, keysAndValues ...interface{}) { log.Debugw(msg, keysAndValues...) }

func Info(msg string, fields ...Field) { log.Info(msg, fields...) }

func Infof(format string, v ...interface{}) { log.Infof(format, v...) }

func Infow(msg string, keysAndValues ...interface{}) { log.Infow(msg, keysAndValues...) }

func Warn(msg string, fields ...Field) { log.Warn(msg, fields...) }

func Warnf(format string, v ...interface{}) { log.Warnf(format, v...) }

func Warnw(msg string, keysAndValues ...interface{}) { log.Warnw(msg, keysAndValues...) }

func Error(msg string, fields ...Field) { log.Error(msg, fields...) }

func Errorf(format string, v ...interface{}) { log.Errorf(format, v...) }

func Errorw(msg string, keysAndValues ...interface{}) { log.Errorw(msg, keysAndValues...) }

func Fatalf(format string, v ...interface{}) { log.Fatalf(format, v...) }

func WithValues(keysAndValues ...interface{}) Logger { return log.WithValues(keysAndValues...) }

func WithName(name string) Logger { return log.WithName(name) }

// CtxLogger 请求级日志器：持有从上下文提取的链路字段，
// 输出时追加到每条日志上。底层 Logger 接口只有 Infof/Errorf 两种
// 格式化形态，这里补齐各级别的 f/w 形态，委托给包级函数。
type CtxLogger struct {
	kv []interface{}
}

// L 返回带请求上下文字段的日志器。
// gin.Context 实现了 context.Context，c.Set 写入的键可以直接用 Value 读出，
// 因此控制器里 log.L(ctx) 即可拿到带请求ID的日志器。
func L(ctx context.Context) *CtxLogger {
	l := &CtxLogger{}
	if ctx == nil {
		return l
	}
	if rid := ctx.Value(KeyRequestID); rid != nil {
		l.kv = append(l.kv, KeyRequestID, rid)
	}
	if username := ctx.Value(KeyUsername); username != nil {
		l.kv = append(l.kv, KeyUsername, username)
	}
	return l
}

func (l *CtxLogger) Debugf(format string, v ...interface{}) {
	log.Debugw(fmt.Sprintf(format, v...), l.kv...)
}

func (l *CtxLogger) Infof(format string, v ...interface{}) {
	log.Infow(fmt.Sprintf(format, v...), l.kv...)
}

func (l *CtxLogger) Warnf(format string, v ...interface{}) {
	log.Warnw(fmt.Sprintf(format, v...), l.kv...)
}

func (l *CtxLogger) Errorf(format string, v ...interface{}) {
	log.Errorw(fmt.Sprintf(format, v...), l.kv...)
}

func (l *CtxLogger) Debugw(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, append(keysAndValues, l.kv...)...)
}

func (l *CtxLogger) Infow(msg string, keysAndValues ...interface{}) {
	log.Infow(msg, append(keysAndValues, l.kv...)...)
}

func (l *CtxLogger) Warnw(msg string, keysAndValues ...interface{}) {
	log.Warnw(msg, append(keysAndValues, l.kv...)...)
}

func (l *CtxLogger) Errorw(msg string, keysAndValues ...interface{}) {
	log.Errorw(msg, append(keysAndValues, l.kv...)...)
}
