// Package config loads the daemon's settings: top-level daemon options
// via viper (defaults, environment, config file), with CLI flags applied
// on top afterwards by ApplyFlagOverrides, and the ordered, repeating per-scrobbler
// INI sections via gopkg.in/ini.v1, since viper's typed settings model
// can't represent arbitrary, order-significant section names (spec §6).
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/mpdscribble-go/mpdscribble/internal/scrobbler"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Settings holds the top-level daemon options recognized in the config
// file's default section, as flags, or as environment variables (§6).
type Settings struct {
	PidFile         string
	DaemonUser      string
	Log             string
	Host            string
	Port            int
	Proxy           string
	JournalInterval time.Duration
	Verbose         int
}

// Config is everything Load resolves: the daemon settings plus the
// ordered list of configured scrobblers.
type Config struct {
	Settings   Settings
	Scrobblers []scrobbler.Config
}

// topLevelKeys are the only keys Load reads out of the config file's
// default section into Settings; everything else in that section is
// either the historic Last.fm shortcut (see loadScrobblers) or ignored.
var topLevelKeys = []string{
	"pidfile", "daemon_user", "log", "host", "port", "proxy",
	"journal_interval", "cache_interval", "verbose",
}

// ApplyFlagOverrides applies only the flags the caller actually passed,
// on top of an already-Loaded Settings, giving flags top precedence over
// the config file and environment (spec §6: "CLI > config file > env >
// default"). Checking Changed explicitly rather than binding flags into
// viper sidesteps viper's flag-default-counts-as-set behavior, which
// would otherwise make an unset flag's zero value win over the config
// file unconditionally.
func ApplyFlagOverrides(s *Settings, flags *pflag.FlagSet) {
	if flags.Changed("pidfile") {
		s.PidFile, _ = flags.GetString("pidfile")
	}
	if flags.Changed("daemon-user") {
		s.DaemonUser, _ = flags.GetString("daemon-user")
	}
	if flags.Changed("log") {
		s.Log, _ = flags.GetString("log")
	}
	if flags.Changed("host") {
		s.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		s.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("proxy") {
		s.Proxy, _ = flags.GetString("proxy")
	}
	if flags.Changed("journal-interval") {
		n, _ := flags.GetInt("journal-interval")
		s.JournalInterval = time.Duration(n) * time.Second
	}
	if flags.Changed("verbose") {
		s.Verbose, _ = flags.GetInt("verbose")
	}
}

// Load reads confPath (an INI file) and resolves both the top-level
// daemon Settings and the configured Scrobblers. A blank confPath is not
// an error: defaults, flags and environment variables still apply,
// matching a from-scratch daemon run with everything set on the CLI.
func Load(confPath string, v *viper.Viper) (*Config, error) {
	// A missing .env is fine; this is a development convenience, not a
	// supported deployment mechanism.
	_ = godotenv.Load()

	setDefaults(v)
	v.SetEnvPrefix("scribble")
	v.AutomaticEnv()
	v.BindEnv("host", "MPD_HOST")
	v.BindEnv("port", "MPD_PORT")
	v.BindEnv("proxy", "http_proxy")

	var file *ini.File
	if confPath != "" {
		loaded, err := ini.LoadSources(ini.LoadOptions{Loose: true, AllowShadows: true}, confPath)
		if err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", confPath, err)
		}
		file = loaded
		applyDefaultSection(v, file.Section(ini.DefaultSection))
	}

	settings := Settings{
		PidFile:         v.GetString("pidfile"),
		DaemonUser:      v.GetString("daemon_user"),
		Log:             v.GetString("log"),
		Host:            v.GetString("host"),
		Port:            v.GetInt("port"),
		Proxy:           v.GetString("proxy"),
		JournalInterval: time.Duration(v.GetInt("journal_interval")) * time.Second,
		Verbose:         v.GetInt("verbose"),
	}

	var scrobblers []scrobbler.Config
	if file != nil {
		var err error
		scrobblers, err = loadScrobblers(file, confPath)
		if err != nil {
			return nil, err
		}
	}

	return &Config{Settings: settings, Scrobblers: scrobblers}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pidfile", "")
	v.SetDefault("daemon_user", "")
	v.SetDefault("log", "-")
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 6600)
	v.SetDefault("proxy", "")
	v.SetDefault("journal_interval", 600)
	v.SetDefault("verbose", 1)
}

// applyDefaultSection layers the config file's default-section keys over
// viper's defaults and environment values; CLI flags still win, since
// ApplyFlagOverrides runs after Load.
func applyDefaultSection(v *viper.Viper, def *ini.Section) {
	for _, key := range topLevelKeys {
		if !def.HasKey(key) {
			continue
		}
		name := key
		if name == "cache_interval" {
			name = "journal_interval"
		}
		v.Set(name, def.Key(key).String())
	}
}
