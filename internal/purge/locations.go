package purge

import (
	"os"
	"path/filepath"

	"github.com/Ning0612/pcclean/internal/domain"
)

// Environment supplies the variables temp locations are derived from
type Environment struct {
	Getenv  func(key string) string
	HomeDir func() (string, error)
}

// SystemEnvironment reads the real process environment
func SystemEnvironment() Environment {
	return Environment{Getenv: os.Getenv, HomeDir: os.UserHomeDir}
}

// ResolveLocations returns the default temp locations for family, in purge order.
// Entries whose variable or home directory cannot be resolved are left out,
// and an unknown family yields nil.
func ResolveLocations(family domain.OSFamily, env Environment) []string {
	home, err := env.HomeDir()
	if err != nil {
		home = ""
	}

	var locations []string
	add := func(path string) {
		if path != "" {
			locations = append(locations, path)
		}
	}
	underHome := func(elem ...string) string {
		if home == "" {
			return ""
		}
		return filepath.Join(append([]string{home}, elem...)...)
	}

	switch family {
	case domain.OSWindows:
		add(env.Getenv("TEMP"))
		if appData := env.Getenv("APPDATA"); appData != "" {
			add(filepath.Join(appData, "Microsoft", "Windows", "Recent"))
		}
	case domain.OSLinux:
		add("/tmp")
		add(underHome(".cache"))
	case domain.OSDarwin:
		add(underHome("Library", "Caches"))
		add("/private/var/tmp")
	}

	return locations
}
