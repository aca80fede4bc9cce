package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Dir returns the harmonia configuration directory.
// Respects XDG_CONFIG_HOME on Unix, APPDATA on Windows.
func Dir() string {
	var base string

	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(base, "harmonia")
}

// File returns the path to the settings file.
func File() string {
	return filepath.Join(Dir(), "harmonia.yaml")
}

// Duration unmarshals human-friendly YAML strings like "5ms".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: bad duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Settings holds everything a player invocation needs outside the script
// itself.
type Settings struct {
	// Port is a substring of the MIDI output port to play on. Empty
	// selects the first available port.
	Port string `yaml:"port"`

	// Velocity is the note-on velocity (1-127). Zero selects the default.
	Velocity uint8 `yaml:"velocity"`

	// RegionDir is the namespace for shared clock regions. Empty selects
	// the platform default (/dev/shm).
	RegionDir string `yaml:"region_dir"`

	// Region is the default shared clock region name for the clock
	// publisher subcommand.
	Region string `yaml:"region"`

	// PublishInterval is how often the clock publisher refreshes its
	// region.
	PublishInterval Duration `yaml:"publish_interval"`

	// Debug enables debug-level logging.
	Debug bool `yaml:"debug"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Velocity:        100,
		Region:          "harmonia-clock",
		PublishInterval: Duration(5 * time.Millisecond),
	}
}

// Load reads settings from path, falling back to defaults when the file
// does not exist. Unset fields keep their default values.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return s, nil
}
