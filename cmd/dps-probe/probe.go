package main

import (
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/maxiaolu1981/cretem/nexuscore/component-base/version"

	"github.com/tenancykit/dps-probe/internal/probe"
	_ "github.com/tenancykit/dps-probe/internal/pkg/code"
)

func main() {
	rand.Seed(time.Now().UTC().UnixNano())
	if len(os.Getenv("GOMAXPROCS")) == 0 {
		runtime.GOMAXPROCS(runtime.NumCPU())
	}

	version.CheckVersionAndExit()
	probe.NewApp("dps-probe").Run()
}
