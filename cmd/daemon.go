package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mpdscribble-go/mpdscribble/internal/config"
	"github.com/mpdscribble-go/mpdscribble/internal/daemonlog"
	"github.com/mpdscribble-go/mpdscribble/internal/engine"
	"github.com/mpdscribble-go/mpdscribble/internal/pidfile"
	"github.com/mpdscribble-go/mpdscribble/internal/player"
	"github.com/mpdscribble-go/mpdscribble/internal/scrobbler"
	"github.com/mpdscribble-go/mpdscribble/internal/transport"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch MPD and scrobble what plays",
	Long: `Run the scrobbling daemon in the foreground.

The daemon will:
- Connect to MPD and idle-watch its "player" and "message" subsystems
- Decide when a play qualifies as a scrobble (240s elapsed, or half its
  duration for tracks 30s or longer)
- Handshake, submit and now-playing-notify every configured service,
  with the protocol's exponential backoff on failure
- Journal anything it couldn't deliver yet so a restart doesn't lose it
- Handle SIGTERM/SIGINT for graceful shutdown and SIGUSR1 to force an
  immediate submit`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().Bool("no-daemon", true, "run in the foreground (always true; kept for CLI compatibility)")
	daemonCmd.Flags().Int("verbose", 1, "log verbosity: 0=error, 1=warning, 2=info, 3+=debug")
	daemonCmd.Flags().String("pidfile", "", "write the daemon's pid to this path")
	daemonCmd.Flags().String("daemon-user", "", "drop privileges to this user after startup")
	daemonCmd.Flags().String("log", "", `log destination: a file path, "syslog", or "-" for stderr`)
	daemonCmd.Flags().String("host", "", "MPD host (overrides MPD_HOST)")
	daemonCmd.Flags().Int("port", 0, "MPD port (overrides MPD_PORT)")
	daemonCmd.Flags().String("proxy", "", "HTTP proxy URI for outbound scrobble requests")
	daemonCmd.Flags().Int("journal-interval", 0, "seconds between periodic journal flushes")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	confPath, _ := cmd.Flags().GetString("conf")
	if confPath == "" {
		confPath = config.DefaultPaths().ConfigFile
	}

	cfg, err := config.Load(confPath, viper.New())
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	config.ApplyFlagOverrides(&cfg.Settings, cmd.Flags())

	logSetup, err := daemonlog.New(cfg.Settings.Log, daemonlog.LevelFromVerbosity(cfg.Settings.Verbose))
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logSetup.Close()
	logger := logSetup.Logger()

	if err := pidfile.DropPrivileges(cfg.Settings.DaemonUser); err != nil {
		return fmt.Errorf("dropping privileges: %w", err)
	}
	if err := pidfile.Write(cfg.Settings.PidFile); err != nil {
		return fmt.Errorf("writing pidfile: %w", err)
	}
	defer pidfile.Remove(cfg.Settings.PidFile)

	logger.Info().Str("version", version).Msg("starting mpdscribble")

	loop := engine.NewLoop()

	scrobblers, err := buildScrobblers(cfg, loop.Post, logger)
	if err != nil {
		return fmt.Errorf("configuring scrobblers: %w", err)
	}
	if len(scrobblers) == 0 {
		return fmt.Errorf("no scrobblers configured: set a username/password in the config file's default section, or add a [section]")
	}

	connector := &player.Connector{
		Network: mpdNetwork(cfg.Settings.Host),
		Address: mpdAddress(cfg.Settings.Host, cfg.Settings.Port),
		Logger:  logger,
	}

	multi := scrobbler.NewMultiScrobbler(scrobblers, cfg.Settings.JournalInterval, loop.Post, logger)
	inst := engine.New(loop, connector, multi, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go inst.Run(ctx)

	pidfile.Watch(ctx, logger, pidfile.Actions{
		Shutdown: func() {
			inst.Shutdown()
			cancel()
		},
		SubmitNow: inst.SubmitNow,
		Reopen:    func() { logSetup.Reopen() },
	})

	logger.Info().Msg("mpdscribble stopped")
	return nil
}

func buildScrobblers(cfg *config.Config, post func(func()), logger zerolog.Logger) ([]scrobbler.Scrobbler, error) {
	out := make([]scrobbler.Scrobbler, 0, len(cfg.Scrobblers))
	tp := transport.New(cfg.Settings.Proxy, 30*time.Second)
	for _, sc := range cfg.Scrobblers {
		if sc.IsFileMode() {
			out = append(out, scrobbler.NewFileScrobbler(sc, logger))
			continue
		}
		out = append(out, scrobbler.NewNetworkScrobbler(sc, tp, post, logger))
	}
	return out, nil
}

func mpdNetwork(host string) string {
	if len(host) > 0 && host[0] == '/' {
		return "unix"
	}
	return "tcp"
}

func mpdAddress(host string, port int) string {
	if len(host) > 0 && host[0] == '/' {
		return host
	}
	return fmt.Sprintf("%s:%d", host, port)
}
