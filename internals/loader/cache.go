package loader

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/minepkg/mcinstall/internals/logging"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/rs/zerolog"
)

// Cache stores loader patches on disk, one per (loader, game version, loader version)
type Cache struct {
	// Dir usually is the versions directory
	Dir    string
	Logger zerolog.Logger
}

// NewCache returns a cache storing patches in dir
func NewCache(dir string) *Cache {
	return &Cache{Dir: dir, Logger: logging.Get("loader")}
}

// Path returns the location of a cached patch
func (c *Cache) Path(loader string, gameVersion string, loaderVersion string) string {
	id := (&minecraft.LoaderPatch{Loader: loader, GameVersion: gameVersion, LoaderVersion: loaderVersion}).ID()
	return filepath.Join(c.Dir, id, "patch.json")
}

// Get returns the cached patch. Missing or unparsable patches are reported as not found
func (c *Cache) Get(loader string, gameVersion string, loaderVersion string) (*minecraft.LoaderPatch, bool) {
	p := c.Path(loader, gameVersion, loaderVersion)
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}

	patch := &minecraft.LoaderPatch{}
	if err := json.Unmarshal(raw, patch); err != nil {
		c.Logger.Debug().Err(err).Str("path", p).Msg("ignoring unparsable cached patch")
		return nil, false
	}
	if patch.Loader != loader || patch.LoaderVersion != loaderVersion {
		return nil, false
	}
	return patch, true
}

// Put writes the patch to the cache
func (c *Cache) Put(patch *minecraft.LoaderPatch) error {
	p := c.Path(patch.Loader, patch.GameVersion, patch.LoaderVersion)
	if err := os.MkdirAll(filepath.Dir(p), os.ModePerm); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(patch, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, raw, 0644)
}
