package log

import (
	"context"
	"testing"
)

func TestLCollectsContextFields(t *testing.T) {
	tests := []struct {
		name   string
		ctx    context.Context
		wantKV []interface{}
	}{
		{
			name:   "空上下文",
			ctx:    nil,
			wantKV: nil,
		},
		{
			name:   "无链路字段",
			ctx:    context.Background(),
			wantKV: nil,
		},
		{
			name:   "带请求ID",
			ctx:    context.WithValue(context.Background(), KeyRequestID, "req-1"), //nolint:staticcheck
			wantKV: []interface{}{KeyRequestID, "req-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := L(tt.ctx)
			if len(l.kv) != len(tt.wantKV) {
				t.Fatalf("L(ctx) 捕获字段数 = %d, want %d", len(l.kv), len(tt.wantKV))
			}
			for i := range tt.wantKV {
				if l.kv[i] != tt.wantKV[i] {
					t.Errorf("kv[%d] = %v, want %v", i, l.kv[i], tt.wantKV[i])
				}
			}
		})
	}
}

// 各级别的 f/w 形态都必须可用且不 panic，底层 Logger 接口本身不提供这些方法
func TestCtxLoggerLevels(t *testing.T) {
	ctx := context.WithValue(context.Background(), KeyRequestID, "req-2") //nolint:staticcheck
	l := L(ctx)

	l.Debugf("debug %s", "msg")
	l.Infof("info %s", "msg")
	l.Warnf("warn %s", "msg")
	l.Errorf("error %s", "msg")
	l.Debugw("debug", "k", "v")
	l.Infow("info", "k", "v")
	l.Warnw("warn", "k", "v")
	l.Errorw("error", "k", "v")
}
