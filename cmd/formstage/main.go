package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

type rootFlags struct {
	config   string
	form     string
	logLevel string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "formstage",
		Short: "Progressive multi-stage forms served over HTMX",
		Long: `formstage renders a staged application form whose Next buttons unlock
only when every required field of the stage is filled in and valid.

The same engine serves the web form, renders static pages and drives a
terminal walkthrough.`,
		Version:       version + " (" + commit + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&flags.form, "form", "f", "", "form schema (YAML or JSON) merged over the built-in form")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		serveCmd(flags),
		renderCmd(flags),
		walkCmd(flags),
		validateCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
