package mojang

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Releases(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/manifest.json":
			w.Write([]byte(`{
				"latest": {"release": "1.19.2", "snapshot": "22w42a"},
				"versions": [
					{"id": "22w42a", "type": "snapshot", "url": "` + srv.URL + `/22w42a.json"},
					{"id": "1.19.2", "type": "release", "url": "` + srv.URL + `/1.19.2.json"}
				]
			}`))
		case "/1.19.2.json":
			w.Write([]byte(`{"id": "1.19.2", "mainClass": "net.minecraft.client.main.Main", "arguments": {"game": ["--demo"]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	client := NewWithClient(srv.Client())
	client.ManifestURL = srv.URL + "/manifest.json"
	ctx := context.Background()

	releases, err := client.Releases(ctx)
	require.NoError(t, err)
	require.Len(t, releases.Versions, 2)

	latest, err := releases.Find("latest")
	require.NoError(t, err)
	assert.Equal(t, "1.19.2", latest.ID)

	snapshot, err := releases.Find("latest-snapshot")
	require.NoError(t, err)
	assert.Equal(t, TypeSnapshot, snapshot.Type)

	_, err = releases.Find("1.0.0")
	assert.True(t, errors.Is(err, ErrVersionNotFound))

	manifest, raw, err := client.LaunchManifest(ctx, latest)
	require.NoError(t, err)
	assert.Equal(t, "net.minecraft.client.main.Main", manifest.MainClass)
	assert.NotEmpty(t, raw)

	_, _, err = client.LaunchManifest(ctx, snapshot)
	assert.True(t, errors.Is(err, ErrorNotFound))
}
