package main

import (
	"fmt"
	"os"

	"fjacquet/revenue-dash/cmd/batch"
	"fjacquet/revenue-dash/cmd/prepare"
	"fjacquet/revenue-dash/cmd/root"
	"fjacquet/revenue-dash/cmd/summary"
	"fjacquet/revenue-dash/cmd/synonyms"
	"fjacquet/revenue-dash/internal/config"
)

func init() {
	// Environment first so viper sees REVDASH_* and GEMINI_API_KEY from .env.
	config.LoadEnv(nil)

	root.Init()

	root.Cmd.AddCommand(prepare.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(synonyms.Cmd)
}

func main() {
	err := root.Cmd.Execute()
	root.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
