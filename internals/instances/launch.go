package instances

import (
	"errors"

	"github.com/minepkg/mcinstall/internals/launchargs"
	"github.com/minepkg/mcinstall/internals/minecraft"
)

// ErrServerLaunch is returned when launch arguments are requested for a server instance
var ErrServerLaunch = errors.New("launch arguments can only be built for client instances")

// LaunchOptions are options for building the launch command
type LaunchOptions struct {
	// Auth may be nil to start in demo mode
	Auth minecraft.LaunchAuthData
	// Java defaults to the installed java runtime or "java"
	Java string
	// MemoryMiB of 0 picks a value by content count and system memory
	MemoryMiB    int
	Width        int
	Height       int
	ExtraJVMArgs []string
	// ExtractNatives unpacks natives into a new directory below the versions directory
	ExtractNatives bool
}

// LaunchContext returns everything needed to build the launch command of an installed instance
func (i *Instance) LaunchContext(opts *LaunchOptions) (*launchargs.Context, error) {
	if opts == nil {
		opts = &LaunchOptions{}
	}
	desc, man, err := i.Installed()
	if err != nil {
		return nil, err
	}
	if desc.Server {
		return nil, ErrServerLaunch
	}

	env := i.env()
	paths := i.Paths()
	paths.NativesDir = launchargs.NewNativesDir(paths.Versions, man.ID)
	if opts.ExtractNatives {
		if err := launchargs.ExtractNatives(man, env, paths.Libraries, paths.NativesDir); err != nil {
			return nil, err
		}
	}

	javaBin := opts.Java
	if javaBin == "" {
		javaBin = desc.Java
	}

	return &launchargs.Context{
		Manifest:     man,
		Env:          env,
		Paths:        paths,
		Auth:         opts.Auth,
		Java:         javaBin,
		MemoryMiB:    opts.MemoryMiB,
		ContentCount: len(desc.Content),
		Width:        opts.Width,
		Height:       opts.Height,
		ExtraJVMArgs: opts.ExtraJVMArgs,
	}, nil
}
