package instances

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minepkg/mcinstall/internals/launchargs"
	"github.com/minepkg/mcinstall/internals/logging"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/rs/zerolog"
	strcase "github.com/stoewer/go-strcase"
)

var (
	// ErrNoInstance is returned if the directory does not contain an installed instance
	ErrNoInstance = errors.New("no installed instance found")
	// ErrIncomplete is returned if required files could not be downloaded.
	// The installation is not marked as done and running it again resumes it
	ErrIncomplete = errors.New("installation incomplete")
)

// Instance describes a locally installed minecraft instance
type Instance struct {
	// Name is used for the directory if Directory is not set
	Name string
	// Directory is the game directory containing the content folders
	Directory string
	// GlobalDir is the directory containing everything shared between instances.
	// this includes the libraries, assets & versions folder
	GlobalDir string
	IsServer  bool
	// Env defaults to the running system
	Env    *minecraft.Environment
	Logger zerolog.Logger
}

// New returns an instance called name inside the instances directory of globalDir
func New(globalDir string, name string) *Instance {
	i := &Instance{
		Name:      name,
		GlobalDir: globalDir,
		Logger:    logging.Get("instances"),
	}
	i.Directory = filepath.Join(i.InstancesDir(), DirName(name))
	return i
}

// NewInDirectory returns an instance using dir as its game directory
func NewInDirectory(globalDir string, dir string) *Instance {
	return &Instance{
		Name:      filepath.Base(dir),
		Directory: dir,
		GlobalDir: globalDir,
		Logger:    logging.Get("instances"),
	}
}

// DirName returns the directory name used for an instance name
func DirName(name string) string {
	return strcase.KebabCase(name)
}

// VersionsDir returns the path to the versions directory
func (i *Instance) VersionsDir() string {
	return filepath.Join(i.GlobalDir, "versions")
}

// AssetsDir returns the path to the assets directory
func (i *Instance) AssetsDir() string {
	return filepath.Join(i.GlobalDir, "assets")
}

// LibrariesDir returns the path to the libraries directory
func (i *Instance) LibrariesDir() string {
	return filepath.Join(i.GlobalDir, "libraries")
}

// JavaDir returns the path to the java runtimes directory
func (i *Instance) JavaDir() string {
	return filepath.Join(i.GlobalDir, "java")
}

// InstancesDir returns the path to the instances directory
func (i *Instance) InstancesDir() string {
	return filepath.Join(i.GlobalDir, "instances")
}

// Paths returns the directory layout used to build launch commands
func (i *Instance) Paths() launchargs.Paths {
	return launchargs.NewPaths(i.GlobalDir, i.Directory)
}

// Manifests returns the manifest store of the global directory
func (i *Instance) Manifests() *ManifestStore {
	return &ManifestStore{Dir: i.VersionsDir()}
}

func (i *Instance) env() *minecraft.Environment {
	if i.Env != nil {
		return i.Env
	}
	return minecraft.CurrentEnvironment()
}

// Installed returns the version descriptor and the merged manifest of an installed instance
func (i *Instance) Installed() (*VersionDescriptor, *minecraft.LaunchManifest, error) {
	desc, err := ReadVersionDescriptor(i.DescriptorPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNoInstance
		}
		return nil, nil, err
	}

	man, err := i.Manifests().Merged(desc.ManifestID)
	if err != nil {
		return nil, nil, fmt.Errorf("manifest of %s is missing, install again: %w", desc.ManifestID, err)
	}
	return desc, man, nil
}

// Desc returns a one-liner summary of this instance
func (i *Instance) Desc() string {
	desc, err := ReadVersionDescriptor(i.DescriptorPath())
	if err != nil {
		return fmt.Sprintf("%s (not installed)", i.Name)
	}
	loader := desc.Loader
	if desc.LoaderVersion != "" {
		loader += " " + desc.LoaderVersion
	}
	return fmt.Sprintf("%s: minecraft %s, %s, %d content, build %d", i.Name, desc.Version, loader, len(desc.Content), desc.Build)
}
