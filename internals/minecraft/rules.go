package minecraft

import (
	"regexp"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// Rule is a rule that can be applied to an argument or library.
// It can be used to determine if the argument or library should be applied to a specific OS.
type Rule struct {
	Action   string          `json:"action"`
	OS       OS              `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

// OS defines the feature of an OS that can be used in a [Rule] to determine if it should be applied.
type OS struct {
	Name string `json:"name,omitempty"`
	// Version of the os (can be a regex string)
	Version string `json:"version,omitempty"`
	// Arch of the system
	Arch string `json:"arch,omitempty"`
}

// Environment is what rules are checked against
type Environment struct {
	// OS uses the manifest names: "windows", "osx" or "linux"
	OS string
	// Arch uses the manifest names: "x64", "x86", "arm64" …
	Arch string
	// OSVersion is matched against the version regex of rules
	OSVersion string
	// Features are launcher features like "is_demo_user" or "has_custom_resolution"
	Features map[string]bool
}

// NewEnvironment returns an Environment for the given go os and arch names
func NewEnvironment(goos string, goarch string) *Environment {
	return &Environment{
		OS:       osName(goos),
		Arch:     archName(goarch),
		Features: map[string]bool{},
	}
}

// CurrentEnvironment returns the Environment of the running system
func CurrentEnvironment() *Environment {
	env := NewEnvironment(runtime.GOOS, runtime.GOARCH)
	// the version is only used for a few windows & osx rules, so errors are not fatal
	if version, err := host.KernelVersion(); err == nil {
		env.OSVersion = version
	}
	return env
}

// WithFeature returns a copy of the environment with the feature set
func (e *Environment) WithFeature(name string, enabled bool) *Environment {
	features := make(map[string]bool, len(e.Features)+1)
	for k, v := range e.Features {
		features[k] = v
	}
	features[name] = enabled
	copied := *e
	copied.Features = features
	return &copied
}

func osName(goos string) string {
	if goos == "darwin" {
		return "osx"
	}
	return goos
}

func archName(arch string) string {
	switch arch {
	case "amd64", "x86_64":
		return "x64"
	case "386", "i386":
		return "x86"
	case "arm":
		return "arm32"
	}
	// note: we don't know how other platforms are named
	return arch
}

// matches reports if every condition of the rule is met by env
func (r Rule) matches(env *Environment) bool {
	if r.OS.Name != "" && r.OS.Name != env.OS {
		return false
	}
	if r.OS.Arch != "" && r.OS.Arch != env.Arch {
		return false
	}
	if r.OS.Version != "" {
		re, err := regexp.Compile(r.OS.Version)
		if err != nil || !re.MatchString(env.OSVersion) {
			return false
		}
	}
	for feature, wanted := range r.Features {
		if env.Features[feature] != wanted {
			return false
		}
	}
	return true
}

// Rules is a list of rules. The last matching rule decides
type Rules []Rule

// Allowed reports if something guarded by these rules should be used in env.
// No rules means allowed, otherwise it is disallowed until a rule allows it
func (rs Rules) Allowed(env *Environment) bool {
	if len(rs) == 0 {
		return true
	}
	allowed := false
	for _, r := range rs {
		if r.matches(env) {
			allowed = strings.EqualFold(r.Action, "allow")
		}
	}
	return allowed
}
