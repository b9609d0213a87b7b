// main is the entry point for the newslog CLI.
package main

import (
	"github.com/huangsam/newslog/cmd"
	"github.com/huangsam/newslog/internal/contract"
	"github.com/huangsam/newslog/internal/iostore"
)

func main() {
	err := cmd.Execute()
	iostore.CloseStores()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
