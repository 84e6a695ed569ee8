package config

import (
	"github.com/mpdscribble-go/mpdscribble/internal/scrobbler"
	"gopkg.in/ini.v1"
)

// loadScrobblers builds one scrobbler.Config per non-default section, in
// file order, plus the historic Last.fm shortcut if the default section
// carries a username (spec §6).
func loadScrobblers(file *ini.File, confPath string) ([]scrobbler.Config, error) {
	var out []scrobbler.Config

	if shortcut, ok, err := lastFMShortcut(file.Section(ini.DefaultSection), confPath); err != nil {
		return nil, err
	} else if ok {
		out = append(out, shortcut)
	}

	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection {
			continue
		}
		cfg, err := sectionToConfig(sec, confPath)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

func lastFMShortcut(def *ini.Section, confPath string) (scrobbler.Config, bool, error) {
	if !def.HasKey("username") {
		return scrobbler.Config{}, false, nil
	}
	cfg := scrobbler.Config{
		Name:        "last.fm",
		URL:         "https://post.audioscrobbler.com/",
		Username:    def.Key("username").String(),
		Password:    def.Key("password").String(),
		JournalPath: resolveJournalPath(def, confPath, "last.fm"),
	}
	ignoreList, err := loadIgnoreList(def)
	if err != nil {
		return scrobbler.Config{}, false, err
	}
	cfg.IgnoreList = ignoreList
	if err := cfg.Validate(); err != nil {
		return scrobbler.Config{}, false, err
	}
	return cfg, true, nil
}

func sectionToConfig(sec *ini.Section, confPath string) (scrobbler.Config, error) {
	cfg := scrobbler.Config{
		Name:     sec.Name(),
		URL:      sec.Key("url").String(),
		Username: sec.Key("username").String(),
		Password: sec.Key("password").String(),
		File:     sec.Key("file").String(),
	}
	if !cfg.IsFileMode() {
		cfg.JournalPath = resolveJournalPath(sec, confPath, sec.Name())
	}
	ignoreList, err := loadIgnoreList(sec)
	if err != nil {
		return scrobbler.Config{}, err
	}
	cfg.IgnoreList = ignoreList
	if err := cfg.Validate(); err != nil {
		return scrobbler.Config{}, err
	}
	return cfg, nil
}

// resolveJournalPath honors an explicit journal/cache key, falling back
// to a per-scrobbler file derived from the config file's own location.
func resolveJournalPath(sec *ini.Section, confPath, name string) string {
	for _, key := range []string{"journal", "cache"} {
		if sec.HasKey(key) {
			return sec.Key(key).String()
		}
	}
	if confPath == "" {
		return ""
	}
	return confPath + "." + name + ".journal"
}
