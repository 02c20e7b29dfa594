package instances

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/java"
	"github.com/minepkg/mcinstall/internals/launchargs"
	"github.com/minepkg/mcinstall/internals/loader"
	"github.com/minepkg/mcinstall/internals/logging"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/mojang"
	"github.com/minepkg/mcinstall/internals/reconcile"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/afero"
)

// Download groups of an installation. They are downloaded in this order
const (
	GroupClient    = "client"
	GroupServer    = "server"
	GroupLibraries = "libraries"
	GroupAssets    = "assets"
)

// InstallOptions configure Install
type InstallOptions struct {
	// GameVersion is a minecraft version, "latest" or "latest-snapshot". Empty means latest
	GameVersion string
	// Loader is one of the minecraft.Loader* names. Empty means vanilla
	Loader string
	// LoaderVersion is an exact version or a semver constraint. Empty means the latest stable one
	LoaderVersion string
	// Content is the wanted content of the instance
	Content []reconcile.Descriptor
	// ContentTypes are reconciled even if Content has nothing of that type,
	// so all content of these types can be removed
	ContentTypes []string

	// Mojang defaults to mojang.New()
	Mojang *mojang.Client
	// Resolver overwrites the resolver picked by Loader
	Resolver loader.Resolver
	// Downloader defaults to a downloadmgr.DownloadManager
	Downloader *downloadmgr.DownloadManager
	// AssetsURL defaults to minecraft.AssetsURL
	AssetsURL string

	// JavaRuntime also installs the java version the game wants
	JavaRuntime bool
	// Java defaults to a factory using the "java" folder of the global directory
	Java *java.Factory
}

// InstallResult is returned by Install, also when it failed after downloads started
type InstallResult struct {
	Manifest   *minecraft.LaunchManifest
	Patch      *minecraft.LoaderPatch
	Downloads  *downloadmgr.Result
	Plans      []*reconcile.Plan
	Content    *reconcile.ApplyResult
	Descriptor *VersionDescriptor
	// Warnings are problems that did not stop the installation
	Warnings []string
}

// Install downloads everything needed to run the instance:
// the manifest, the loader patch, libraries, the game jar, assets and content.
// The version descriptor is only written if nothing is missing
func (i *Instance) Install(ctx context.Context, opts *InstallOptions) (*InstallResult, error) {
	if opts == nil {
		opts = &InstallOptions{}
	}
	done := logging.LogOperationStart(i.Logger, "install")
	defer done()

	env := i.env()
	store := i.Manifests()

	client := opts.Mojang
	if client == nil {
		client = mojang.New()
	}
	base, err := store.Vanilla(ctx, client, opts.GameVersion)
	if err != nil {
		return nil, err
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver, err = loader.New(opts.Loader, nil)
		if err != nil {
			return nil, &loader.ResolutionError{Loader: opts.Loader, GameVersion: base.ID, LoaderVersion: opts.LoaderVersion, Err: err}
		}
	}
	patch, err := loader.Resolve(ctx, resolver, loader.NewCache(i.VersionsDir()), base.ID, opts.LoaderVersion)
	if err != nil {
		return nil, err
	}

	merged := minecraft.MergePatch(base, patch)
	if err := store.SaveMerged(merged); err != nil {
		return nil, err
	}
	i.Logger.Info().Str("id", merged.ID).Int("libraries", len(merged.Libraries)).Msg("manifest ready")

	res := &InstallResult{Manifest: merged, Patch: patch, Downloads: &downloadmgr.Result{}}
	if n := len(patch.Generated); n != 0 {
		i.Logger.Warn().Strs("libraries", patch.Generated).Msg("loader installer steps are not supported")
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%s %s needs %d libraries generated by its installer, the game will probably not start",
			patch.Loader, patch.LoaderVersion, n,
		))
	}
	dl := opts.Downloader
	if dl == nil {
		dl = downloadmgr.New()
	}

	items, err := i.runtimeItems(merged, env)
	if err != nil {
		return nil, err
	}
	if !i.IsServer {
		assets, err := i.assetItems(ctx, dl, merged, opts.AssetsURL)
		if err != nil {
			return res, err
		}
		items = append(items, assets...)
	}
	i.checkDiskSpace(items)

	downloads, err := dl.Run(ctx, items)
	if err != nil {
		return res, err
	}
	res.Downloads = downloads
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !downloads.OK() {
		return res, fmt.Errorf("%w: %s", ErrIncomplete, downloads.Err())
	}

	rec := reconcile.New(i.Directory)
	rec.Server = i.IsServer
	rec.Types = opts.ContentTypes
	fs := afero.NewOsFs()

	plans, err := rec.Plan(opts.Content, fs)
	if err != nil {
		return res, err
	}
	res.Plans = plans
	i.Logger.Info().Str("content", reconcile.Summarize(plans).String()).Msg("content planned")

	applied, err := rec.Apply(ctx, fs, plans, dl)
	if err != nil {
		return res, err
	}
	res.Content = applied
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !applied.Downloads.OK() {
		return res, fmt.Errorf("%w: %s", ErrIncomplete, applied.Downloads.Err())
	}

	javaBin := ""
	if opts.JavaRuntime {
		javaBin, err = i.installJava(ctx, opts, dl, merged)
		if err != nil {
			return res, err
		}
	}

	desc := &VersionDescriptor{
		Version:       base.ID,
		Loader:        patch.Loader,
		LoaderVersion: patch.LoaderVersion,
		ManifestID:    merged.ID,
		Server:        i.IsServer,
		Java:          javaBin,
		Build:         nextBuild(i.DescriptorPath()),
		InstalledAt:   time.Now().UTC(),
		Content:       LockContent(opts.Content),
	}
	if err := WriteVersionDescriptor(i.DescriptorPath(), desc); err != nil {
		return res, err
	}
	res.Descriptor = desc
	return res, nil
}

// installJava makes sure the java version wanted by man is installed and returns its executable
func (i *Instance) installJava(ctx context.Context, opts *InstallOptions, dl *downloadmgr.DownloadManager, man *minecraft.LaunchManifest) (string, error) {
	factory := opts.Java
	if factory == nil {
		factory = java.NewFactory(i.JavaDir())
	}
	version := java.FeatureVersion(man.JavaVersion)

	rt, err := factory.Runtime(ctx, version)
	if err != nil {
		return "", fmt.Errorf("could not find java %d: %w", version, err)
	}
	if !rt.Installed() {
		i.Logger.Info().Int("version", version).Str("release", rt.Asset.ReleaseName).Msg("installing java")
		if err := rt.Install(ctx, dl); err != nil {
			return "", fmt.Errorf("%w: java %d: %s", ErrIncomplete, version, err)
		}
	}
	return rt.Bin(), nil
}

// runtimeItems returns the game jar and all required libraries
func (i *Instance) runtimeItems(man *minecraft.LaunchManifest, env *minecraft.Environment) ([]downloadmgr.Item, error) {
	c := newItemCollector()

	if i.IsServer {
		server := man.Downloads.Server
		if server.URL == "" {
			return nil, fmt.Errorf("minecraft %s has no server download", man.MinecraftVersion())
		}
		c.add(downloadmgr.Item{
			URL:    server.URL,
			Target: i.ServerJar(man),
			Group:  GroupServer,
			Sha1:   server.Sha1,
			Size:   server.Size,
		})
	} else {
		client := man.Downloads.Client
		if client.URL == "" {
			return nil, fmt.Errorf("minecraft %s has no client download", man.MinecraftVersion())
		}
		c.add(downloadmgr.Item{
			URL:    client.URL,
			Target: launchargs.ClientJar(man, i.VersionsDir()),
			Group:  GroupClient,
			Sha1:   client.Sha1,
			Size:   client.Size,
		})
	}

	for _, lib := range man.Libraries.Required(env) {
		artifact := lib.ArtifactFor(env)
		c.add(downloadmgr.Item{
			URL:    artifact.URL,
			Target: filepath.Join(i.LibrariesDir(), filepath.FromSlash(artifact.Path)),
			Group:  GroupLibraries,
			Sha1:   artifact.Sha1,
			Size:   artifact.Size,
		})
	}
	return c.items, nil
}

// assetItems downloads the asset index and returns an item for every object in it
func (i *Instance) assetItems(ctx context.Context, dl *downloadmgr.DownloadManager, man *minecraft.LaunchManifest, baseURL string) ([]downloadmgr.Item, error) {
	ref := man.AssetIndex
	if ref.URL == "" {
		i.Logger.Warn().Str("id", man.ID).Msg("manifest has no asset index")
		return nil, nil
	}
	if baseURL == "" {
		baseURL = minecraft.AssetsURL
	}

	indexPath := filepath.Join(i.AssetsDir(), "indexes", ref.ID+".json")
	res, err := dl.Run(ctx, []downloadmgr.Item{{
		URL:    ref.URL,
		Target: indexPath,
		Group:  GroupAssets,
		Sha1:   ref.Sha1,
		Size:   ref.Size,
	}})
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, fmt.Errorf("%w: %s", ErrIncomplete, res.Err())
	}

	raw, err := os.ReadFile(indexPath)
	if err != nil {
		return nil, err
	}
	index := minecraft.AssetIndex{}
	if err := json.Unmarshal(raw, &index); err != nil {
		return nil, fmt.Errorf("invalid asset index %s: %w", ref.ID, err)
	}
	if index.Virtual || index.MapToResources {
		i.Logger.Warn().Str("index", ref.ID).Msg("legacy asset layouts are not supported, the game might miss sounds")
	}

	c := newItemCollector()
	for _, object := range index.Objects {
		c.add(downloadmgr.Item{
			URL:    baseURL + object.UnixPath(),
			Target: filepath.Join(i.AssetsDir(), "objects", filepath.FromSlash(object.UnixPath())),
			Group:  GroupAssets,
			Sha1:   object.Hash,
			Size:   object.Size,
		})
	}
	return c.items, nil
}

// ServerJar returns the location of the server jar
func (i *Instance) ServerJar(man *minecraft.LaunchManifest) string {
	version := man.MinecraftVersion()
	return filepath.Join(i.VersionsDir(), version, version+"-server.jar")
}

// checkDiskSpace warns if the items will not fit on the disk
func (i *Instance) checkDiskSpace(items []downloadmgr.Item) {
	var needed uint64
	for _, item := range items {
		if item.Size > 0 {
			needed += uint64(item.Size)
		}
	}

	dir := i.GlobalDir
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return
	}
	usage, err := disk.Usage(dir)
	if err != nil {
		i.Logger.Debug().Err(err).Msg("could not check free disk space")
		return
	}
	if usage.Free < needed {
		i.Logger.Warn().
			Str("needed", humanize.Bytes(needed)).
			Str("free", humanize.Bytes(usage.Free)).
			Msg("not enough free disk space, downloads will probably fail")
	}
}

// itemCollector skips items with a target that was already added.
// Libraries of different loaders may resolve to the same file
type itemCollector struct {
	items []downloadmgr.Item
	seen  map[string]struct{}
}

func newItemCollector() *itemCollector {
	return &itemCollector{seen: make(map[string]struct{})}
}

func (c *itemCollector) add(item downloadmgr.Item) {
	if _, ok := c.seen[item.Target]; ok {
		return
	}
	c.seen[item.Target] = struct{}{}
	c.items = append(c.items, item)
}
