package options

import (
	"testing"
	"time"
)

func TestUpstreamOptionsValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*UpstreamOptions)
		wantErrs int
	}{
		{
			name:     "合法配置",
			mutate:   func(o *UpstreamOptions) { o.BaseURL = "https://sandbox.example.com" },
			wantErrs: 0,
		},
		{
			name:     "缺少基础地址",
			mutate:   func(o *UpstreamOptions) {},
			wantErrs: 1,
		},
		{
			name:     "非http协议",
			mutate:   func(o *UpstreamOptions) { o.BaseURL = "ftp://example.com" },
			wantErrs: 1,
		},
		{
			name: "超时为负",
			mutate: func(o *UpstreamOptions) {
				o.BaseURL = "https://sandbox.example.com"
				o.RequestTimeout = -1 * time.Second
			},
			wantErrs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewUpstreamOptions()
			tt.mutate(o)
			if errs := o.Validate(); len(errs) != tt.wantErrs {
				t.Errorf("Validate() = %v, want %d 个错误", errs, tt.wantErrs)
			}
		})
	}
}

func TestUpstreamOptionsComplete(t *testing.T) {
	o := &UpstreamOptions{BaseURL: "https://sandbox.example.com"}
	o.Complete()
	if o.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", o.RequestTimeout)
	}
	if o.RateLimitQPS != 10 || o.RateLimitBurst != 20 {
		t.Errorf("限速默认值 = %v/%v, want 10/20", o.RateLimitQPS, o.RateLimitBurst)
	}
}

func TestInsecureServingOptionsValidate(t *testing.T) {
	tests := []struct {
		name     string
		addr     string
		port     int
		wantErrs int
	}{
		{name: "默认值合法", addr: "127.0.0.1", port: 8080, wantErrs: 0},
		{name: "端口为零表示禁用", addr: "127.0.0.1", port: 0, wantErrs: 0},
		{name: "地址为空", addr: "", port: 8080, wantErrs: 1},
		{name: "非法IP", addr: "not-an-ip", port: 8080, wantErrs: 1},
		{name: "端口越界", addr: "127.0.0.1", port: 70000, wantErrs: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &InsecureServingOptions{BindAddress: tt.addr, BindPort: tt.port}
			if errs := o.Validate(); len(errs) != tt.wantErrs {
				t.Errorf("Validate() = %v, want %d 个错误", errs, tt.wantErrs)
			}
		})
	}
}

func TestVerificationOptionsDefaults(t *testing.T) {
	o := NewVerificationOptions()
	if !o.Enabled {
		t.Error("核验默认应开启")
	}
	if o.DefaultDelay != 2*time.Second {
		t.Errorf("DefaultDelay = %v, want 2s", o.DefaultDelay)
	}
}

func TestRedisOptionsCompleteBuildsAddrs(t *testing.T) {
	o := NewRedisOptions()
	o.Host = "10.0.0.5"
	o.Port = 6380
	o.Complete()
	if len(o.Addrs) != 1 || o.Addrs[0] != "10.0.0.5:6380" {
		t.Errorf("Addrs = %v, want [10.0.0.5:6380]", o.Addrs)
	}
	if o.EnableTokenCache {
		t.Error("令牌缓存默认应关闭")
	}
}
