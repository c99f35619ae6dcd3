// main is the entry point for the gitpick CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/gitpick/cmd"
	"github.com/huangsam/gitpick/internal/contract"
	"github.com/huangsam/gitpick/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Cannot stop profiling", stopErr)
	}
	iocache.CloseCaching()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, contract.ErrorColor.Sprint(err))
		os.Exit(1)
	}
}
