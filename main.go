// Package main is the entry point of the topsis CLI.
package main

import (
	"github.com/huangsam/topsis/cmd"
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
