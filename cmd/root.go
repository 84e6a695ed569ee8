/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mpdscribble",
	Short: "An MPD scrobbler for AudioScrobbler 1.2 services",
	Long: `mpdscribble watches an MPD music player and reports what's playing to
one or more AudioScrobbler 1.2 services (Last.fm and compatible servers).

It runs as a foreground daemon: it watches MPD over its idle protocol,
decides when a play qualifies as a scrobble, and submits it with the
protocol's handshake/session/backoff rules, journaling anything it
couldn't deliver yet so a restart doesn't lose queued plays.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("conf", "c", "", "path to the config file (default: XDG config path)")
}
