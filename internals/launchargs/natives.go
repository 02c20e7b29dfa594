package launchargs

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dchest/uniuri"
	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"
	"github.com/minepkg/mcinstall/internals/minecraft"
)

// NewNativesDir returns a new unique natives directory below base
func NewNativesDir(base string, versionID string) string {
	return filepath.Join(base, versionID+"-natives-"+strings.ToLower(uniuri.NewLen(8)))
}

// ExtractNatives unpacks the native libraries of man into dir.
// META-INF and files excluded by the library are skipped
func ExtractNatives(man *minecraft.LaunchManifest, env *minecraft.Environment, librariesDir string, dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	for _, lib := range man.Libraries.Required(env) {
		if !lib.IsNative(env) {
			continue
		}
		excludes := []string{"META-INF/"}
		if lib.Extract != nil {
			excludes = append(excludes, lib.Extract.Exclude...)
		}

		src := filepath.Join(librariesDir, filepath.FromSlash(lib.Filepath(env)))
		if err := extractNative(src, dir, excludes); err != nil {
			return err
		}
	}
	return nil
}

func extractNative(src string, dir string, excludes []string) error {
	return archiver.NewZip().Walk(src, func(f archiver.File) error {
		if f.IsDir() {
			return nil
		}
		name := f.Name()
		if header, ok := f.Header.(zip.FileHeader); ok {
			name = header.Name
		}
		for _, exclude := range excludes {
			if strings.HasPrefix(name, exclude) {
				return nil
			}
		}

		// natives are always flat in the natives directory
		target, err := os.Create(filepath.Join(dir, path.Base(name)))
		if err != nil {
			return err
		}
		defer target.Close()

		_, err = io.Copy(target, f)
		return err
	})
}
