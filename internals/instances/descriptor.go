package instances

import (
	"os"
	"path/filepath"
	"time"

	"github.com/minepkg/mcinstall/internals/reconcile"
	"github.com/pelletier/go-toml"
)

// DescriptorFile is the name of the version descriptor inside the instance directory
const DescriptorFile = "mcinstall.toml"

// VersionDescriptor records what was installed into an instance.
// It is only written after an installation finished without missing files
type VersionDescriptor struct {
	Version       string `toml:"version"`
	Loader        string `toml:"loader"`
	LoaderVersion string `toml:"loaderVersion,omitempty"`
	ManifestID    string `toml:"manifest"`
	Server        bool   `toml:"server,omitempty"`
	// Java is the executable of the installed java runtime, if one was installed
	Java        string        `toml:"java,omitempty"`
	Build       int           `toml:"build"`
	InstalledAt time.Time     `toml:"installedAt"`
	Content     []ContentLock `toml:"content,omitempty"`
}

// ContentLock is one installed content entry
type ContentLock struct {
	ID       string   `toml:"id"`
	Provider string   `toml:"provider,omitempty"`
	Type     string   `toml:"type"`
	Files    []string `toml:"files"`
}

// LockContent converts descriptors into content locks
func LockContent(descriptors []reconcile.Descriptor) []ContentLock {
	locks := make([]ContentLock, 0, len(descriptors))
	for _, d := range descriptors {
		files := make([]string, 0, len(d.Files))
		for _, f := range d.Files {
			files = append(files, f.Filename)
		}
		locks = append(locks, ContentLock{ID: d.ID, Provider: d.Provider, Type: d.Type, Files: files})
	}
	return locks
}

// DescriptorPath returns the path of the version descriptor
func (i *Instance) DescriptorPath() string {
	return filepath.Join(i.Directory, DescriptorFile)
}

// ReadVersionDescriptor reads a version descriptor file
func ReadVersionDescriptor(p string) (*VersionDescriptor, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	desc := &VersionDescriptor{}
	if err := toml.Unmarshal(raw, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// WriteVersionDescriptor writes desc to p
func WriteVersionDescriptor(p string, desc *VersionDescriptor) error {
	raw, err := toml.Marshal(desc)
	if err != nil {
		return err
	}
	return writeFile(p, raw)
}

// nextBuild returns the build number following the one at p
func nextBuild(p string) int {
	prev, err := ReadVersionDescriptor(p)
	if err != nil {
		return 1
	}
	return prev.Build + 1
}
