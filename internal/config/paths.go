package config

import (
	"os"
	"path/filepath"
)

// packageName names the per-user config/cache subdirectory and the
// bare-HOME dotfile, mirroring the original mpdscribble's XdgBaseDirectory
// resolution (spec §6).
const packageName = "mpdscribble"

// Paths resolves the default config and journal (cache) file locations
// per the POSIX XDG Base Directory rules spec §6 specifies, falling back
// to a dotfile under $HOME and finally a system path.
type Paths struct {
	ConfigFile string
	CacheFile  string
}

// DefaultPaths resolves Paths from the process environment.
func DefaultPaths() Paths {
	return Paths{
		ConfigFile: defaultConfigFile(),
		CacheFile:  defaultCacheFile(),
	}
}

func defaultConfigFile() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, packageName, packageName+".conf")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, "."+packageName, packageName+".conf")
	}
	return filepath.Join("/etc", packageName+".conf")
}

func defaultCacheFile() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, packageName, packageName+".cache")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, "."+packageName, packageName+".cache")
	}
	return filepath.Join("/var/cache", packageName, packageName+".cache")
}
