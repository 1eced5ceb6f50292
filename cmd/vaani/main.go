// Vaani is a multilingual assistant service. It answers temperature
// questions for named cities from OpenWeatherMap and everything else from
// a persona-primed chat completion backend, in Punjabi, Marathi, Gujarati,
// Hindi or English.
//
// Usage:
//
//	vaani [serve] [--config /path/to/vaani.yaml]
//	vaani ask --language hindi "What is taapmaan in Mumbai?"
//	vaani ask --server localhost:50051 --language english
//
// @title       vaani API
// @version     1.0
// @description Multilingual assistant: live temperature answers for named cities, persona-primed chat for everything else.
// @BasePath    /
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:           "vaani",
		Short:         "Multilingual weather and chat assistant",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configFile)
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "path to config file (e.g. configs/vaani.yaml)")

	root.AddCommand(newServeCmd(&configFile), newAskCmd(&configFile))
	return root
}
