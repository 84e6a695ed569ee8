package cmd

import (
	"fmt"
	"syscall"

	"github.com/mpdscribble-go/mpdscribble/internal/config"
	"github.com/mpdscribble-go/mpdscribble/internal/pidfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// submitNowCmd is a CLI convenience for spec §4.4's admin "submit now"
// override, equivalent to `kill -USR1 $(cat pidfile)` but locating the
// running daemon's pidfile the same way the daemon itself resolves it.
var submitNowCmd = &cobra.Command{
	Use:   "submit-now",
	Short: "Tell a running daemon to submit immediately",
	Long: `Send the admin override signal (SIGUSR1) to a running mpdscribble
daemon, resetting every configured scrobbler's backoff interval to 1
second so queued plays and any pending now-playing notification go out
right away.`,
	RunE: runSubmitNow,
}

func init() {
	rootCmd.AddCommand(submitNowCmd)
	submitNowCmd.Flags().String("pidfile", "", "pidfile of the running daemon (default: same as `daemon`'s)")
}

func runSubmitNow(cmd *cobra.Command, args []string) error {
	confPath, _ := cmd.Flags().GetString("conf")
	pidPath, _ := cmd.Flags().GetString("pidfile")

	if pidPath == "" {
		if confPath == "" {
			confPath = config.DefaultPaths().ConfigFile
		}
		cfg, err := config.Load(confPath, viper.New())
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		pidPath = cfg.Settings.PidFile
	}
	if pidPath == "" {
		return fmt.Errorf("no pidfile configured or given with --pidfile")
	}

	pid, err := pidfile.Read(pidPath)
	if err != nil {
		return err
	}
	if err := syscall.Kill(pid, syscall.SIGUSR1); err != nil {
		return fmt.Errorf("signaling pid %d: %w", pid, err)
	}
	return nil
}
