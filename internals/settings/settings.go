// Package settings reads the global configuration from the config file and MCINSTALL_* env variables
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys
const EnvPrefix = "MCINSTALL"

// Kind is the type of a config value
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
)

// Entry describes a config key
type Entry struct {
	Kind Kind
	Help string
}

// Entries are all known config keys
var Entries = map[string]Entry{
	"concurrency": {KindInt, "parallel downloads per group"},
	"memory":      {KindInt, "max java heap in MiB (0 guesses)"},
	"locale":      {KindString, "game language, for example en_us"},
	"globaldir":   {KindString, "directory for versions, libraries and assets"},
	"throttle":    {KindFloat, "max download requests per second (0 is unlimited)"},
	"java":        {KindString, "java executable used to launch"},
	"player":      {KindString, "player name of offline accounts"},
}

// Settings are the resolved config values
type Settings struct {
	Concurrency int
	MemoryMiB   int
	Locale      string
	GlobalDir   string
	Throttle    float64
	Java        string
	Player      string
}

// DefaultGlobalDir is used if "globaldir" is not set
func DefaultGlobalDir() string {
	return filepath.Join(xdg.DataHome, "mcinstall")
}

// ConfigFile returns the default config file location
func ConfigFile() string {
	return filepath.Join(xdg.ConfigHome, "mcinstall", "config.toml")
}

// Init sets defaults and reads the config file. A missing file is not an error
func Init(v *viper.Viper, cfgFile string) error {
	v.SetDefault("concurrency", 6)
	v.SetDefault("memory", 0)
	v.SetDefault("locale", "en_us")
	v.SetDefault("globaldir", DefaultGlobalDir())
	v.SetDefault("throttle", 0)
	v.SetDefault("java", "java")
	v.SetDefault("player", "Player")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		cfgFile = ConfigFile()
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(cfgFile); os.IsNotExist(statErr) {
			return nil
		}
		return fmt.Errorf("could not read config file %s: %w", cfgFile, err)
	}
	return nil
}

// Load returns the current settings of v
func Load(v *viper.Viper) *Settings {
	return &Settings{
		Concurrency: v.GetInt("concurrency"),
		MemoryMiB:   v.GetInt("memory"),
		Locale:      v.GetString("locale"),
		GlobalDir:   v.GetString("globaldir"),
		Throttle:    v.GetFloat64("throttle"),
		Java:        v.GetString("java"),
		Player:      v.GetString("player"),
	}
}

// Keys returns all known config keys sorted
func Keys() []string {
	keys := make([]string, 0, len(Entries))
	for k := range Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse converts a string into the type of the config key
func Parse(key string, value string) (interface{}, error) {
	entry, ok := Entries[key]
	if !ok {
		return nil, fmt.Errorf("config key %q does not exist", key)
	}

	switch entry.Kind {
	case KindBool:
		return parseBool(value)
	case KindInt:
		return strconv.Atoi(value)
	case KindFloat:
		return strconv.ParseFloat(value, 64)
	default:
		return value, nil
	}
}

// Set validates and sets a key and writes the config file
func Set(v *viper.Viper, key string, value string) error {
	parsed, err := Parse(key, value)
	if err != nil {
		return err
	}
	v.Set(key, parsed)

	file := v.ConfigFileUsed()
	if file == "" {
		file = ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(file), os.ModePerm); err != nil {
		return err
	}
	return v.WriteConfigAs(file)
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a valid boolean", s)
}
