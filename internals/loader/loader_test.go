package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fabricProfile = `{
	"id": "fabric-loader-0.14.9-1.19.2",
	"inheritsFrom": "1.19.2",
	"type": "release",
	"mainClass": "net.fabricmc.loader.impl.launch.knot.KnotClient",
	"arguments": {"game": [], "jvm": ["-DFabricMcEmu= net.minecraft.client.main.Main "]},
	"libraries": [
		{"name": "net.fabricmc:tiny-mappings-parser:0.3.0+build.17", "url": "https://maven.fabricmc.net/"},
		{"name": "org.ow2.asm:asm:9.3", "url": "https://maven.fabricmc.net/"},
		{"name": "net.fabricmc:fabric-loader:0.14.9", "url": "https://maven.fabricmc.net/"}
	]
}`

func fabricServer(t *testing.T, calls *int32) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		switch r.URL.Path {
		case "/versions/loader/1.19.2":
			w.Write([]byte(`[
				{"loader": {"version": "0.14.10-beta.1", "stable": false}},
				{"loader": {"version": "0.14.9", "stable": true}},
				{"loader": {"version": "0.14.8", "stable": true}}
			]`))
		case "/versions/loader/1.19.2/0.14.9/profile/json":
			w.Write([]byte(fabricProfile))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSelect(t *testing.T) {
	versions := []Version{
		{Version: "0.14.8", Stable: true},
		{Version: "0.14.10-beta.1", Stable: false},
		{Version: "0.14.9", Stable: true},
		{Version: "0.13.3", Stable: true},
	}

	tests := []struct {
		requirement string
		want        string
		wantErr     bool
	}{
		{"", "0.14.9", false},
		{"latest", "0.14.9", false},
		{"^0.13", "0.13.3", false},
		{"~0.14.8", "0.14.9", false},
		{"<0.14.9", "0.14.8", false},
		{"^1.0.0", "", true},
		{"not a constraint", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.requirement, func(t *testing.T) {
			got, err := Select(versions, tt.requirement)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Version)
		})
	}
}

func TestSelect_NotSemver(t *testing.T) {
	versions := []Version{
		{Version: "14.23.5.2859", Stable: true},
		{Version: "14.23.5.2860", Stable: true},
	}

	got, err := Select(versions, "14.23.5.2860")
	require.NoError(t, err)
	assert.Equal(t, "14.23.5.2860", got.Version)

	_, err = Select(versions, "14.23.5.9999")
	assert.Error(t, err)
}

func TestResolve_NotSemverFromCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	forge := NewForge(srv.Client())
	forge.MavenURL = srv.URL
	cache := NewCache(t.TempDir())
	require.NoError(t, cache.Put(&minecraft.LoaderPatch{
		Loader:        minecraft.LoaderForge,
		GameVersion:   "1.12.2",
		LoaderVersion: "14.23.5.2860",
		MainClass:     "net.minecraft.launchwrapper.Launch",
	}))

	patch, err := Resolve(context.Background(), forge, cache, "1.12.2", "14.23.5.2860")
	require.NoError(t, err)
	assert.Equal(t, "net.minecraft.launchwrapper.Launch", patch.MainClass)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestIsExact(t *testing.T) {
	assert.True(t, IsExact("0.14.9"))
	assert.True(t, IsExact("43.1.1"))
	assert.False(t, IsExact(""))
	assert.False(t, IsExact("latest"))
	assert.False(t, IsExact("^0.14"))
	assert.False(t, IsExact("14.23.5.2860"))
}

func TestIsLiteral(t *testing.T) {
	assert.True(t, isLiteral("0.14.9"))
	assert.True(t, isLiteral("14.23.5.2860"))
	assert.False(t, isLiteral(""))
	assert.False(t, isLiteral("latest"))
	assert.False(t, isLiteral("^0.14"))
	assert.False(t, isLiteral(">= 1.0, < 2.0"))
	assert.False(t, isLiteral("0.14.x"))
}

func TestResolve_Fabric(t *testing.T) {
	var calls int32
	srv := fabricServer(t, &calls)

	fabric := NewFabric(srv.Client())
	fabric.BaseURL = srv.URL
	cache := NewCache(t.TempDir())
	ctx := context.Background()

	patch, err := Resolve(ctx, fabric, cache, "1.19.2", "latest")
	require.NoError(t, err)
	assert.Equal(t, minecraft.LoaderFabric, patch.Loader)
	assert.Equal(t, "0.14.9", patch.LoaderVersion)
	assert.Equal(t, "1.19.2", patch.GameVersion)
	assert.Equal(t, "net.fabricmc.loader.impl.launch.knot.KnotClient", patch.MainClass)
	assert.Len(t, patch.Libraries, 3)
	assert.Equal(t, []string{"org.ow2.asm:"}, patch.DedupPrefixes)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	_, err = os.Stat(cache.Path(minecraft.LoaderFabric, "1.19.2", "0.14.9"))
	require.NoError(t, err)

	// exact versions come from the cache without any request
	cached, err := Resolve(ctx, fabric, cache, "1.19.2", "0.14.9")
	require.NoError(t, err)
	assert.Equal(t, patch, cached)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResolve_CorruptCache(t *testing.T) {
	var calls int32
	srv := fabricServer(t, &calls)

	fabric := NewFabric(srv.Client())
	fabric.BaseURL = srv.URL
	cache := NewCache(t.TempDir())

	p := cache.Path(minecraft.LoaderFabric, "1.19.2", "0.14.9")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), os.ModePerm))
	require.NoError(t, os.WriteFile(p, []byte("{not json"), 0644))

	patch, err := Resolve(context.Background(), fabric, cache, "1.19.2", "0.14.9")
	require.NoError(t, err)
	assert.Equal(t, "0.14.9", patch.LoaderVersion)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, ok := cache.Get(minecraft.LoaderFabric, "1.19.2", "0.14.9")
	assert.True(t, ok)
}

func TestResolve_Error(t *testing.T) {
	var calls int32
	srv := fabricServer(t, &calls)

	fabric := NewFabric(srv.Client())
	fabric.BaseURL = srv.URL

	_, err := Resolve(context.Background(), fabric, nil, "1.19.2", "^2.0.0")
	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, minecraft.LoaderFabric, resErr.Loader)
	assert.True(t, errors.Is(err, ErrNoLoaderVersion))

	_, err = Resolve(context.Background(), fabric, nil, "1.0.0", "0.1.0")
	require.True(t, errors.As(err, &resErr))
	assert.Contains(t, err.Error(), "fabric 0.1.0 for minecraft 1.0.0")
}

func TestQuilt_Stability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"loader": {"version": "0.18.1-beta.2"}}, {"loader": {"version": "0.17.6"}}]`))
	}))
	defer srv.Close()

	quilt := NewQuilt(srv.Client())
	quilt.BaseURL = srv.URL

	versions, err := quilt.Versions(context.Background(), "1.19.2")
	require.NoError(t, err)
	assert.Equal(t, []Version{{"0.18.1-beta.2", false}, {"0.17.6", true}}, versions)
}

func TestVanilla(t *testing.T) {
	r, err := New("", nil)
	require.NoError(t, err)

	patch, err := Resolve(context.Background(), r, nil, "1.19.2", "")
	require.NoError(t, err)
	assert.Equal(t, minecraft.LoaderVanilla, patch.Loader)
	assert.Equal(t, "1.19.2", patch.ID())

	_, err = New("liteloader", nil)
	assert.True(t, errors.Is(err, ErrUnknownLoader))
}

func forgeInstaller(t *testing.T) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	w, err := zw.Create("version.json")
	require.NoError(t, err)
	_, err = w.Write([]byte(`{
		"id": "1.19.2-forge-43.1.1",
		"inheritsFrom": "1.19.2",
		"mainClass": "cpw.mods.bootstraplauncher.BootstrapLauncher",
		"arguments": {"game": ["--launchTarget", "forgeclient"]},
		"libraries": [
			{"name": "cpw.mods:securejarhandler:2.1.4", "downloads": {"artifact": {"path": "cpw/mods/securejarhandler/2.1.4/securejarhandler-2.1.4.jar", "url": "https://maven.minecraftforge.net/cpw/mods/securejarhandler/2.1.4/securejarhandler-2.1.4.jar", "sha1": "abc", "size": 1}}},
			{"name": "net.minecraftforge:forge:1.19.2-43.1.1:client", "downloads": {"artifact": {"path": "net/minecraftforge/forge/1.19.2-43.1.1/forge-1.19.2-43.1.1-client.jar", "url": ""}}}
		]
	}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestForge(t *testing.T) {
	installer := forgeInstaller(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/net/minecraftforge/forge/maven-metadata.json":
			w.Write([]byte(`{"1.19.2": ["1.19.2-43.0.0", "1.19.2-43.1.1"], "1.18.2": ["1.18.2-40.1.0"]}`))
		case "/net/minecraftforge/forge/1.19.2-43.1.1/forge-1.19.2-43.1.1-installer.jar":
			w.Write(installer)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	forge := NewForge(srv.Client())
	forge.MavenURL = srv.URL

	patch, err := Resolve(context.Background(), forge, nil, "1.19.2", "")
	require.NoError(t, err)
	assert.Equal(t, "43.1.1", patch.LoaderVersion)
	assert.Equal(t, "cpw.mods.bootstraplauncher.BootstrapLauncher", patch.MainClass)
	require.Len(t, patch.Libraries, 1)
	assert.Equal(t, "cpw.mods:securejarhandler:2.1.4", patch.Libraries[0].Name)
	assert.Len(t, patch.Game, 2)
	assert.Contains(t, patch.DedupPrefixes, "org.ow2.asm:")
	assert.Equal(t, []string{"net.minecraftforge:forge:1.19.2-43.1.1:client"}, patch.Generated)
	assert.False(t, patch.ReplaceGameArgs)
}
