package minecraft

import (
	"path"
	"strings"
)

// DefaultLibraryRepository is used for libraries that do not define a download url
const DefaultLibraryRepository = "https://libraries.minecraft.net/"

// Libraries as a collection of minecraft libs
type Libraries []Library

// Required returns only the required library files for env (matching rules and natives)
func (l Libraries) Required(env *Environment) Libraries {
	required := make(Libraries, 0, len(l))
	for _, lib := range l {
		if lib.Required(env) {
			required = append(required, lib)
		}
	}
	return required
}

// Library is a minecraft library
type Library struct {
	// Name is the maven coordinate of the library (group:artifact:version[:classifier][@ext])
	Name      string           `json:"name"`
	Downloads LibraryDownloads `json:"downloads,omitempty"`
	// URL is the maven repository this library can be found in. Mostly used by loaders
	URL string `json:"url,omitempty"`
	// Rules is a list of rules that determine whether this library should be included.
	// If no rules are specified, the library is included by default.
	Rules Rules `json:"rules,omitempty"`
	// Natives is a map of OS names to native classifier names.
	// This field is no longer used after 1.19
	// Newer library versions extract the native library from a jar at runtime.
	Natives map[string]string `json:"natives,omitempty"`
	// Extract lists files to exclude when extracting natives
	Extract *struct {
		Exclude []string `json:"exclude,omitempty"`
	} `json:"extract,omitempty"`
	// Sha1 and Size are set by some loader metas that don't use `downloads`
	Sha1 string `json:"sha1,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// LibraryDownloads lists the downloadable files of a library
type LibraryDownloads struct {
	Artifact *Artifact `json:"artifact,omitempty"`
	// Classifiers is a list of additional artifacts.
	// It is used to download native libraries.
	// The `Natives` field is used to determine which classifier to use.
	Classifiers map[string]Artifact `json:"classifiers,omitempty"`
}

// Coordinate parses the Name of this library
func (l *Library) Coordinate() Coordinate {
	return ParseCoordinate(l.Name)
}

// Required reports if this library is needed in env
func (l *Library) Required(env *Environment) bool {
	if !l.Rules.Allowed(env) {
		return false
	}
	// skip native not available for this platform
	if len(l.Natives) != 0 {
		if _, ok := l.Natives[env.OS]; !ok {
			return false
		}
	}
	return true
}

// IsNative reports if this library ships native code for env that has to be extracted
func (l *Library) IsNative(env *Environment) bool {
	if l.NativeClassifier(env) != "" {
		return true
	}
	// 1.19+ style: natives are their own library with a "natives-os" classifier
	return strings.HasPrefix(l.Coordinate().Classifier, "natives-")
}

// NativeClassifier returns the classifier used for natives in env or an empty string
func (l *Library) NativeClassifier(env *Environment) string {
	classifier := l.Natives[env.OS]
	if classifier == "" {
		return ""
	}
	bits := "64"
	if env.Arch == "x86" || env.Arch == "arm32" {
		bits = "32"
	}
	return strings.ReplaceAll(classifier, "${arch}", bits)
}

// ArtifactFor returns the artifact to download for env. Path and URL are always set
func (l *Library) ArtifactFor(env *Environment) Artifact {
	if classifier := l.NativeClassifier(env); classifier != "" {
		if native, ok := l.Downloads.Classifiers[classifier]; ok {
			if native.Path == "" {
				native.Path = l.Coordinate().WithClassifier(classifier).Path()
			}
			return native
		}
		c := l.Coordinate().WithClassifier(classifier)
		return Artifact{Path: c.Path(), URL: l.repository() + c.Path()}
	}

	var a Artifact
	if l.Downloads.Artifact != nil {
		a = *l.Downloads.Artifact
	}
	if a.Path == "" {
		a.Path = l.Coordinate().Path()
	}
	if a.URL == "" {
		a.URL = l.repository() + a.Path
	}
	if a.Sha1 == "" {
		a.Sha1 = l.Sha1
	}
	if a.Size == 0 {
		a.Size = l.Size
	}
	return a
}

// Filepath returns the target filepath for this library relative to the libraries folder
// (always using forward slashes)
func (l *Library) Filepath(env *Environment) string {
	return l.ArtifactFor(env).Path
}

// DownloadURL returns the Download URL this library
func (l *Library) DownloadURL(env *Environment) string {
	return l.ArtifactFor(env).URL
}

func (l *Library) repository() string {
	if l.URL == "" {
		return DefaultLibraryRepository
	}
	if !strings.HasSuffix(l.URL, "/") {
		return l.URL + "/"
	}
	return l.URL
}

// Coordinate is a parsed maven coordinate
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	// Extension defaults to "jar"
	Extension string
}

// ParseCoordinate parses "group:artifact:version[:classifier][@ext]".
// Missing parts are left empty
func ParseCoordinate(name string) Coordinate {
	c := Coordinate{Extension: "jar"}
	if at := strings.LastIndex(name, "@"); at != -1 {
		c.Extension = name[at+1:]
		name = name[:at]
	}
	parts := strings.Split(name, ":")
	fields := []*string{&c.Group, &c.Artifact, &c.Version, &c.Classifier}
	for i, part := range parts {
		if i >= len(fields) {
			break
		}
		*fields[i] = part
	}
	return c
}

// Key identifies the library independent of its version
func (c Coordinate) Key() string {
	key := c.Group + ":" + c.Artifact
	if c.Classifier != "" {
		key += ":" + c.Classifier
	}
	return key
}

// WithClassifier returns a copy using the given classifier
func (c Coordinate) WithClassifier(classifier string) Coordinate {
	c.Classifier = classifier
	return c
}

// Path returns the maven repository path of this coordinate
// example: org/ow2/asm/asm/9.3/asm-9.3.jar
func (c Coordinate) Path() string {
	file := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		file += "-" + c.Classifier
	}
	file += "." + c.Extension
	return path.Join(strings.ReplaceAll(c.Group, ".", "/"), c.Artifact, c.Version, file)
}

func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Extension != "jar" {
		s += "@" + c.Extension
	}
	return s
}
