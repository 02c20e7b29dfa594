// Package java downloads java runtimes matching the java version a game version wants
package java

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	archiver "github.com/mholt/archiver/v3"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/ownhttp"
)

// DefaultFeatureVersion is used for manifests that do not name a java version
const DefaultFeatureVersion = 8

// ErrNoRuntime is returned if there is no build for the wanted version and platform
var ErrNoRuntime = errors.New("no java runtime available")

// Downloader runs download items
type Downloader interface {
	Run(ctx context.Context, items []downloadmgr.Item) (*downloadmgr.Result, error)
}

// Factory finds installed runtimes and looks up new ones
type Factory struct {
	// BaseDir contains one directory per runtime
	BaseDir string
	HTTP    *http.Client
	// APIURL defaults to AdoptiumAPI
	APIURL string
	GOOS   string
	GOARCH string
}

// NewFactory returns a factory for the running system
func NewFactory(baseDir string) *Factory {
	return &Factory{
		BaseDir: baseDir,
		HTTP:    ownhttp.New(),
		APIURL:  AdoptiumAPI,
		GOOS:    runtime.GOOS,
		GOARCH:  runtime.GOARCH,
	}
}

// FeatureVersion returns the java major version wanted by a manifest
func FeatureVersion(v minecraft.JavaVersion) int {
	if v.MajorVersion <= 0 {
		return DefaultFeatureVersion
	}
	return v.MajorVersion
}

// Runtime returns the runtime for the feature version. Installed runtimes are
// used without asking the api
func (f *Factory) Runtime(ctx context.Context, featureVersion int) (*Runtime, error) {
	dir, err := filepath.Abs(filepath.Join(f.BaseDir, fmt.Sprintf("%d-jre", featureVersion)))
	if err != nil {
		return nil, err
	}

	if asset, err := readAssetFile(filepath.Join(dir, "asset.json")); err == nil {
		return &Runtime{Dir: dir, Asset: asset, goos: f.GOOS, installed: true}, nil
	}

	assets, err := f.getAssets(ctx, &assetRequest{
		featureVersion: featureVersion,
		architecture:   archName(f.GOARCH),
		os:             osName(f.GOOS),
	})
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 || len(assets[0].Binaries) == 0 {
		return nil, fmt.Errorf("%w: java %d for %s %s", ErrNoRuntime, featureVersion, f.GOOS, f.GOARCH)
	}

	return &Runtime{Dir: dir, Asset: &assets[0], goos: f.GOOS}, nil
}

// Runtime is one java installation
type Runtime struct {
	Dir       string
	Asset     *Asset
	goos      string
	installed bool
}

// Bin returns the java executable
func (r *Runtime) Bin() string {
	var bin string
	switch r.goos {
	case "windows":
		bin = "bin/java.exe"
	case "darwin": // macOS
		bin = "Contents/Home/bin/java"
	default:
		bin = "bin/java"
	}

	return filepath.Join(r.Dir, filepath.FromSlash(bin))
}

// Installed reports if the runtime is ready to use
func (r *Runtime) Installed() bool {
	return r.installed
}

// Item returns the download of the runtime archive
func (r *Runtime) Item() downloadmgr.Item {
	pkg := r.Asset.Binaries[0].Package
	return downloadmgr.Item{
		URL:    pkg.Link,
		Target: filepath.Join(filepath.Dir(r.Dir), pkg.Name),
		Group:  "java",
		Size:   pkg.Size,
	}
}

// Install downloads and unpacks the runtime
func (r *Runtime) Install(ctx context.Context, dl Downloader) error {
	item := r.Item()
	res, err := dl.Run(ctx, []downloadmgr.Item{item})
	if err != nil {
		return err
	}
	if !res.OK() {
		return res.Err()
	}
	defer os.Remove(item.Target)

	tmp := r.Dir + ".tmp"
	os.RemoveAll(tmp)
	if err := os.RemoveAll(r.Dir); err != nil {
		return err
	}
	if err := archiver.Unarchive(item.Target, tmp); err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	// archives contain one root directory like "jdk-17.0.5+8-jre"
	root, err := singleRoot(tmp)
	if err != nil {
		return err
	}
	if err := os.Rename(root, r.Dir); err != nil {
		return err
	}

	asset, err := json.Marshal(r.Asset)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.Dir, "asset.json"), asset, 0644); err != nil {
		return err
	}
	r.installed = true
	return nil
}

// singleRoot returns the only directory inside dir or dir itself
func singleRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}

func readAssetFile(file string) (*Asset, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	asset := &Asset{}
	if err := json.Unmarshal(raw, asset); err != nil {
		return nil, err
	}
	return asset, nil
}
