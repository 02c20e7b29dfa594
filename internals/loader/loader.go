// Package loader resolves mod loader versions and turns them into patches
// for the vanilla launch manifest.
package loader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/ownhttp"
	"golang.org/x/exp/slices"
)

var (
	// ErrUnknownLoader is returned by New for unsupported loader names
	ErrUnknownLoader = errors.New("unknown loader")
	// ErrNoLoaderVersion is returned if no loader version matches the requirement
	ErrNoLoaderVersion = errors.New("no matching loader version found")
)

// Version is one available loader version
type Version struct {
	Version string `json:"version"`
	Stable  bool   `json:"stable"`
}

// Resolver knows the versions of one loader family and how to build their patches
type Resolver interface {
	// Loader returns the loader family name (one of the minecraft.Loader* constants)
	Loader() string
	// Versions lists all loader versions available for gameVersion, newest first
	Versions(ctx context.Context, gameVersion string) ([]Version, error)
	// Patch returns the patch for an exact loader version
	Patch(ctx context.Context, gameVersion string, loaderVersion string) (*minecraft.LoaderPatch, error)
}

// ResolutionError is returned when a manifest or loader patch could not be obtained
type ResolutionError struct {
	Loader        string
	GameVersion   string
	LoaderVersion string
	Err           error
}

func (r *ResolutionError) Error() string {
	target := "minecraft " + r.GameVersion
	if r.Loader != "" && r.Loader != minecraft.LoaderVanilla {
		version := r.LoaderVersion
		if version == "" {
			version = "latest"
		}
		target = fmt.Sprintf("%s %s for %s", r.Loader, version, target)
	}
	return fmt.Sprintf("could not resolve %s: %s", target, r.Err)
}

func (r *ResolutionError) Unwrap() error {
	return r.Err
}

// New returns the resolver for the loader name. An empty name is vanilla
func New(name string, client *http.Client) (Resolver, error) {
	if client == nil {
		client = ownhttp.New()
	}
	switch name {
	case "", minecraft.LoaderVanilla:
		return Vanilla{}, nil
	case minecraft.LoaderFabric:
		return NewFabric(client), nil
	case minecraft.LoaderQuilt:
		return NewQuilt(client), nil
	case minecraft.LoaderForge:
		return NewForge(client), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownLoader, name)
}

// Resolve picks the loader version matching requirement and returns its patch.
// Exact versions are looked up in the cache first, so no network is needed for them.
// cache may be nil
func Resolve(ctx context.Context, r Resolver, cache *Cache, gameVersion string, requirement string) (*minecraft.LoaderPatch, error) {
	wrap := func(version string, err error) error {
		return &ResolutionError{Loader: r.Loader(), GameVersion: gameVersion, LoaderVersion: version, Err: err}
	}

	if r.Loader() == minecraft.LoaderVanilla {
		return r.Patch(ctx, gameVersion, "")
	}

	if cache != nil && isLiteral(requirement) {
		if patch, ok := cache.Get(r.Loader(), gameVersion, requirement); ok {
			return patch, nil
		}
	}

	loaderVersion := requirement
	if !IsExact(requirement) {
		versions, err := r.Versions(ctx, gameVersion)
		if err != nil {
			return nil, wrap(requirement, err)
		}
		selected, err := Select(versions, requirement)
		if err != nil {
			return nil, wrap(requirement, err)
		}
		loaderVersion = selected.Version
	}

	if cache != nil && loaderVersion != requirement {
		if patch, ok := cache.Get(r.Loader(), gameVersion, loaderVersion); ok {
			return patch, nil
		}
	}

	patch, err := r.Patch(ctx, gameVersion, loaderVersion)
	if err != nil {
		return nil, wrap(loaderVersion, err)
	}

	if cache != nil {
		if err := cache.Put(patch); err != nil {
			cache.Logger.Warn().Err(err).Str("loader", r.Loader()).Msg("could not cache loader patch")
		}
	}
	return patch, nil
}

// IsExact reports if requirement is a single version and not a range or alias
func IsExact(requirement string) bool {
	_, err := semver.StrictNewVersion(requirement)
	return err == nil
}

// isLiteral reports if requirement names one version, including versions
// that are not semver like "14.23.5.2860"
func isLiteral(requirement string) bool {
	if requirement == "" || requirement == "latest" {
		return false
	}
	if strings.ContainsAny(requirement, "^~<>=!*|, ") {
		return false
	}
	for _, part := range strings.Split(requirement, ".") {
		if part == "x" || part == "X" {
			return false
		}
	}
	return true
}

// Select returns the newest version matching requirement.
// An empty requirement or "latest" selects the newest stable version
func Select(versions []Version, requirement string) (*Version, error) {
	sorted := append([]Version(nil), versions...)
	slices.SortStableFunc(sorted, func(a, b Version) bool {
		return minecraft.CompareVersions(a.Version, b.Version) > 0
	})

	if requirement == "" || requirement == "latest" {
		for i := range sorted {
			if sorted[i].Stable {
				return &sorted[i], nil
			}
		}
		if len(sorted) != 0 {
			return &sorted[0], nil
		}
		return nil, ErrNoLoaderVersion
	}

	// versions that are not semver can only be picked by their exact name
	for i := range sorted {
		if sorted[i].Version == requirement {
			return &sorted[i], nil
		}
	}

	constraint, err := semver.NewConstraint(requirement)
	if err != nil {
		return nil, fmt.Errorf("invalid loader requirement %q: %w", requirement, err)
	}
	for i := range sorted {
		v, err := semver.NewVersion(sorted[i].Version)
		// skip unparsable loader versions
		if err != nil {
			continue
		}
		if constraint.Check(v) {
			return &sorted[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoLoaderVersion, requirement)
}
