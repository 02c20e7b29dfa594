package java

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runtimeArchive(t *testing.T) []byte {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	f, err := w.Create("jdk-17.0.5+8-jre/bin/java")
	require.NoError(t, err)
	_, err = f.Write([]byte("#!/bin/sh\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newAPI(t *testing.T, apiCalls *int32) *httptest.Server {
	archive := runtimeArchive(t)
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/assets/feature_releases/17/ga":
			atomic.AddInt32(apiCalls, 1)
			assert.Equal(t, "x64", r.URL.Query().Get("architecture"))
			assert.Equal(t, "linux", r.URL.Query().Get("os"))
			fmt.Fprintf(w, `[{"release_name":"jdk-17.0.5+8","binaries":[{"package":{"link":"%s/jre.zip","name":"jre.zip","size":%d}}]}]`, srv.URL, len(archive))
		case "/assets/feature_releases/99/ga":
			atomic.AddInt32(apiCalls, 1)
			fmt.Fprint(w, `[]`)
		case "/jre.zip":
			w.Write(archive)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testFactory(t *testing.T, srv *httptest.Server) *Factory {
	f := NewFactory(t.TempDir())
	f.APIURL = srv.URL
	f.HTTP = srv.Client()
	f.GOOS, f.GOARCH = "linux", "amd64"
	return f
}

func TestRuntime_Install(t *testing.T) {
	var calls int32
	f := testFactory(t, newAPI(t, &calls))

	rt, err := f.Runtime(context.Background(), 17)
	require.NoError(t, err)
	assert.False(t, rt.Installed())
	assert.Equal(t, "jdk-17.0.5+8", rt.Asset.ReleaseName)

	require.NoError(t, rt.Install(context.Background(), downloadmgr.New()))
	assert.True(t, rt.Installed())
	assert.Equal(t, filepath.Join(f.BaseDir, "17-jre", "bin", "java"), rt.Bin())
	assert.FileExists(t, rt.Bin())
	assert.NoFileExists(t, rt.Item().Target)

	again, err := f.Runtime(context.Background(), 17)
	require.NoError(t, err)
	assert.True(t, again.Installed())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRuntime_NotAvailable(t *testing.T) {
	var calls int32
	f := testFactory(t, newAPI(t, &calls))

	_, err := f.Runtime(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNoRuntime)
}

func TestFeatureVersion(t *testing.T) {
	assert.Equal(t, 8, FeatureVersion(minecraft.JavaVersion{}))
	assert.Equal(t, 17, FeatureVersion(minecraft.JavaVersion{Component: "java-runtime-gamma", MajorVersion: 17}))
}

func TestRuntime_Bin(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", filepath.Join("/rt", "bin", "java")},
		{"windows", filepath.Join("/rt", "bin", "java.exe")},
		{"darwin", filepath.Join("/rt", "Contents", "Home", "bin", "java")},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			rt := &Runtime{Dir: "/rt", goos: tt.goos}
			assert.Equal(t, tt.want, rt.Bin())
		})
	}
}

func TestArchName(t *testing.T) {
	assert.Equal(t, "aarch64", archName("arm64"))
	assert.Equal(t, "x64", archName("amd64"))
	assert.Equal(t, "ppc64le", archName("ppc64le"))
}
