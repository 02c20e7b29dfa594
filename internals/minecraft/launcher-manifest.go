package minecraft

import (
	"encoding/json"
	"fmt"
)

// LaunchManifest is a version.json manifest that is used to launch minecraft instances
type LaunchManifest struct {
	ID string `json:"id"`
	// InheritsFrom is set by loader profiles that only contain the differences to a vanilla version
	InheritsFrom string `json:"inheritsFrom,omitempty"`
	Type         string `json:"type,omitempty"`
	MainClass    string `json:"mainClass"`
	// MinecraftArguments are used before 1.13
	MinecraftArguments string `json:"minecraftArguments,omitempty"`
	// Arguments is the new (complicated) system
	Arguments   Arguments     `json:"arguments,omitempty"`
	Libraries   Libraries     `json:"libraries"`
	Jar         string        `json:"jar,omitempty"`
	Assets      string        `json:"assets,omitempty"`
	AssetIndex  AssetIndexRef `json:"assetIndex,omitempty"`
	Downloads   Downloads     `json:"downloads,omitempty"`
	JavaVersion JavaVersion   `json:"javaVersion,omitempty"`
}

// Arguments are the game and jvm argument templates
type Arguments struct {
	Game []Argument `json:"game,omitempty"`
	JVM  []Argument `json:"jvm,omitempty"`
}

// Downloads are the game jars of a version
type Downloads struct {
	Client Artifact `json:"client,omitempty"`
	Server Artifact `json:"server,omitempty"`
}

// JavaVersion is the java runtime a version wants
type JavaVersion struct {
	Component    string `json:"component,omitempty"`
	MajorVersion int    `json:"majorVersion,omitempty"`
}

// defaultJVMArgs are used by manifests that do not define jvm arguments (pre 1.13)
var defaultJVMArgs = []Argument{
	Literal("-Djava.library.path=${natives_directory}"),
	Literal("-cp"),
	Literal("${classpath}"),
}

// ParseLaunchManifest parses a version json
func ParseLaunchManifest(data []byte) (*LaunchManifest, error) {
	manifest := &LaunchManifest{}
	if err := json.Unmarshal(data, manifest); err != nil {
		return nil, fmt.Errorf("invalid launch manifest: %w", err)
	}
	if manifest.ID == "" {
		return nil, fmt.Errorf("invalid launch manifest: missing id")
	}
	return manifest, nil
}

// MinecraftVersion returns the minecraft version this manifest is for
func (l *LaunchManifest) MinecraftVersion() string {
	if l.InheritsFrom != "" {
		return l.InheritsFrom
	}
	return l.ID
}

// JarName returns the name of the client jar
func (l *LaunchManifest) JarName() string {
	if l.Jar != "" {
		return l.Jar + ".jar"
	}
	return l.MinecraftVersion() + ".jar"
}

// GameArgs returns the game argument templates. Legacy manifests are split into literals
func (l *LaunchManifest) GameArgs() []Argument {
	if len(l.Arguments.Game) == 0 && l.MinecraftArguments != "" {
		return SplitLegacyArguments(l.MinecraftArguments)
	}
	return l.Arguments.Game
}

// JVMArgs returns the jvm argument templates. Manifests without any get the defaults
func (l *LaunchManifest) JVMArgs() []Argument {
	if len(l.Arguments.JVM) == 0 {
		return append([]Argument(nil), defaultJVMArgs...)
	}
	return l.Arguments.JVM
}

// Clone returns a deep copy of the manifest
func (l *LaunchManifest) Clone() *LaunchManifest {
	clone := *l
	clone.Arguments.Game = cloneArgs(l.Arguments.Game)
	clone.Arguments.JVM = cloneArgs(l.Arguments.JVM)
	if l.Libraries != nil {
		clone.Libraries = make(Libraries, len(l.Libraries))
		copy(clone.Libraries, l.Libraries)
	}
	return &clone
}

func cloneArgs(args []Argument) []Argument {
	if len(args) == 0 {
		return nil
	}
	out := make([]Argument, len(args))
	for i, arg := range args {
		out[i] = Argument{
			Value: append(stringSlice(nil), arg.Value...),
			Rules: append(Rules(nil), arg.Rules...),
		}
	}
	return out
}

// MergeParent returns the manifest with everything missing taken from parent.
// Libraries of the child come first, arguments of the parent come first.
// Neither manifest is modified
func (l *LaunchManifest) MergeParent(parent *LaunchManifest) *LaunchManifest {
	merged := l.Clone()
	merged.InheritsFrom = ""

	merged.Libraries = append(append(Libraries{}, l.Libraries...), parent.Libraries...)

	if merged.MainClass == "" {
		merged.MainClass = parent.MainClass
	}
	if merged.Type == "" {
		merged.Type = parent.Type
	}
	if merged.Assets == "" {
		merged.Assets = parent.Assets
	}
	if merged.AssetIndex.ID == "" {
		merged.AssetIndex = parent.AssetIndex
	}
	if merged.Downloads.Client.URL == "" {
		merged.Downloads = parent.Downloads
	}
	if merged.JavaVersion.MajorVersion == 0 {
		merged.JavaVersion = parent.JavaVersion
	}
	if merged.Jar == "" {
		merged.Jar = parent.Jar
		if merged.Jar == "" {
			merged.Jar = parent.ID
		}
	}

	// a child with legacy arguments replaces the parents legacy arguments
	if l.MinecraftArguments == "" {
		merged.MinecraftArguments = parent.MinecraftArguments
	}
	merged.Arguments.Game = append(cloneArgs(parent.Arguments.Game), merged.Arguments.Game...)
	merged.Arguments.JVM = append(cloneArgs(parent.Arguments.JVM), merged.Arguments.JVM...)

	return merged
}
