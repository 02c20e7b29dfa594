// Package mojang fetches the version list and version manifests from Mojangs launcher meta
package mojang

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/minepkg/mcinstall/internals/ownhttp"
)

// VersionManifestURL lists all released minecraft versions
const VersionManifestURL = "https://launchermeta.mojang.com/mc/game/version_manifest_v2.json"

var (
	// ErrorNotFound gets returned when a 404 occurred
	ErrorNotFound = errors.New("resource not found")
	// ErrVersionNotFound is returned if the version list does not contain the wanted version
	ErrVersionNotFound = errors.New("minecraft version not found")
)

var (
	// TypeSnapshot is a snapshot release
	TypeSnapshot = "snapshot"
	// TypeRelease is a full "normal" release
	TypeRelease = "release"
	// TypeOldBeta is a "old_beta" release
	TypeOldBeta = "old_beta"
	// TypeOldAlpha is a "old_alpha" release
	TypeOldAlpha = "old_alpha"
)

// Client talks to the mojang launcher meta
type Client struct {
	// HTTP is the internal http client
	HTTP *http.Client
	// ManifestURL defaults to VersionManifestURL
	ManifestURL string
}

// New returns a new Client
func New() *Client {
	return NewWithClient(ownhttp.New())
}

// NewWithClient returns a new Client using a custom http client
// supplied as a first parameter
func NewWithClient(client *http.Client) *Client {
	return &Client{
		HTTP:        client,
		ManifestURL: VersionManifestURL,
	}
}

// Release is a released minecraft version
type Release struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Time        string `json:"time"`
	ReleaseTime string `json:"releaseTime"`
	Sha1        string `json:"sha1,omitempty"`
}

// ReleaseList is the version list returned by the launcher meta
type ReleaseList struct {
	Latest struct {
		Release  string `json:"release"`
		Snapshot string `json:"snapshot"`
	} `json:"latest"`
	Versions []Release `json:"versions"`
}

// Find returns the release with the given id. "latest" and "latest-snapshot" are supported aliases
func (r *ReleaseList) Find(id string) (*Release, error) {
	switch id {
	case "", "latest":
		id = r.Latest.Release
	case "latest-snapshot":
		id = r.Latest.Snapshot
	}
	for i := range r.Versions {
		if r.Versions[i].ID == id {
			return &r.Versions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, id)
}

// Releases returns all available Minecraft releases, newest first
func (c *Client) Releases(ctx context.Context) (*ReleaseList, error) {
	parsed := ReleaseList{}
	if _, err := c.getJSON(ctx, c.ManifestURL, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// LaunchManifest fetches the version json of a release. It also returns the raw
// bytes so they can be cached as they are
func (c *Client) LaunchManifest(ctx context.Context, release *Release) (*minecraft.LaunchManifest, []byte, error) {
	raw, err := c.get(ctx, release.URL)
	if err != nil {
		return nil, nil, err
	}
	manifest, err := minecraft.ParseLaunchManifest(raw)
	if err != nil {
		return nil, nil, err
	}
	return manifest, raw, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v interface{}) ([]byte, error) {
	raw, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, fmt.Errorf("invalid response from %s: %w", url, err)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrorNotFound, url)
	case res.StatusCode != http.StatusOK:
		return nil, errors.New("mojang API did response with unexpected status " + res.Status)
	}
	return io.ReadAll(res.Body)
}
