package instances

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/minepkg/mcinstall/internals/loader"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mojang"
)

// ManifestStore keeps version manifests in the versions directory.
// Vanilla manifests are stored as they were fetched in <id>/<id>.json,
// merged manifests in <id>/merged.json
type ManifestStore struct {
	Dir string
}

// VanillaPath returns the location of the vanilla manifest for id
func (s *ManifestStore) VanillaPath(id string) string {
	return filepath.Join(s.Dir, id, id+".json")
}

// MergedPath returns the location of the merged manifest for id
func (s *ManifestStore) MergedPath(id string) string {
	return filepath.Join(s.Dir, id, "merged.json")
}

// Vanilla returns the manifest of the minecraft version id. Cached manifests are used
// unless they can not be parsed. Aliases like "latest" always ask the version list
func (s *ManifestStore) Vanilla(ctx context.Context, client *mojang.Client, id string) (*minecraft.LaunchManifest, error) {
	wrap := func(err error) error {
		return &loader.ResolutionError{Loader: minecraft.LoaderVanilla, GameVersion: id, Err: err}
	}

	if !isAlias(id) {
		if man, err := readManifest(s.VanillaPath(id)); err == nil {
			return man, nil
		}
	}

	releases, err := client.Releases(ctx)
	if err != nil {
		return nil, wrap(err)
	}
	release, err := releases.Find(id)
	if err != nil {
		return nil, wrap(err)
	}

	// the alias might point to a version we already have
	if release.ID != id {
		if man, err := readManifest(s.VanillaPath(release.ID)); err == nil {
			return man, nil
		}
	}

	man, raw, err := client.LaunchManifest(ctx, release)
	if err != nil {
		return nil, wrap(err)
	}
	if err := writeFile(s.VanillaPath(man.ID), raw); err != nil {
		return nil, err
	}
	return man, nil
}

// SaveMerged persists a merged manifest
func (s *ManifestStore) SaveMerged(man *minecraft.LaunchManifest) error {
	raw, err := json.MarshalIndent(man, "", "  ")
	if err != nil {
		return err
	}
	return writeFile(s.MergedPath(man.ID), raw)
}

// Merged reads a merged manifest
func (s *ManifestStore) Merged(id string) (*minecraft.LaunchManifest, error) {
	return readManifest(s.MergedPath(id))
}

func isAlias(id string) bool {
	return id == "" || id == "latest" || id == "latest-snapshot"
}

func readManifest(p string) (*minecraft.LaunchManifest, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return minecraft.ParseLaunchManifest(raw)
}

// writeFile writes to a temporary file first, so readers never see half written files
func writeFile(p string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, content, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}
