package loader

import (
	"context"

	"github.com/minepkg/mcinstall/internals/minecraft"
)

// Vanilla is the resolver for unmodified instances. Its patch changes nothing
type Vanilla struct{}

// Loader returns "vanilla"
func (Vanilla) Loader() string { return minecraft.LoaderVanilla }

// Versions returns nothing, vanilla has no loader versions
func (Vanilla) Versions(ctx context.Context, gameVersion string) ([]Version, error) {
	return nil, nil
}

// Patch returns an empty patch
func (Vanilla) Patch(ctx context.Context, gameVersion string, loaderVersion string) (*minecraft.LoaderPatch, error) {
	return &minecraft.LoaderPatch{Loader: minecraft.LoaderVanilla, GameVersion: gameVersion}, nil
}
