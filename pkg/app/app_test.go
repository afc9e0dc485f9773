package app

import (
	"runtime"
	"testing"

	"github.com/spf13/pflag"
)

func TestFormatBaseName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "小写化", in: "DPS-Probe", want: "dps-probe"},
		{name: "原样保留", in: "dps-probe", want: "dps-probe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBaseName(tt.in); got != tt.want {
				t.Errorf("FormatBaseName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if runtime.GOOS == "windows" {
		if got := FormatBaseName("dps-probe.exe"); got != "dps-probe" {
			t.Errorf("FormatBaseName(dps-probe.exe) = %q, want dps-probe", got)
		}
	}
}

func TestPrintFlagsVisitsAllFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("upstream.base-url", "https://sandbox.example.com", "")
	fs.Int("insecure.bind-port", 8080, "")

	// 不依赖任何外部打印助手，逐个访问即可输出
	printFlags(fs)

	visited := 0
	fs.VisitAll(func(f *pflag.Flag) { visited++ })
	if visited != 2 {
		t.Errorf("标志数 = %d, want 2", visited)
	}
}

func TestAddHelpCommandFlag(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addHelpCommandFlag("dps-probe [flags]", fs)

	f := fs.Lookup(flagHelp)
	if f == nil {
		t.Fatal("应注册 --help 标志")
	}
	if f.Shorthand != flagHelpShorthand {
		t.Errorf("help 短选项 = %q, want %q", f.Shorthand, flagHelpShorthand)
	}
}
