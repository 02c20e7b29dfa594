package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/Masterminds/semver/v3"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
)

const (
	// FabricMetaURL is the fabric meta api
	FabricMetaURL = "https://meta.fabricmc.net/v2"
	// QuiltMetaURL is the quilt meta api
	QuiltMetaURL = "https://meta.quiltmc.org/v3"
)

// asmPrefix is shipped by fabric-like loaders and vanilla in different versions
var asmPrefix = "org.ow2.asm:"

// Meta resolves loaders that publish launcher profiles through a fabric style meta api
// (fabric and quilt)
type Meta struct {
	Name    string
	BaseURL string
	HTTP    *http.Client
	// DedupPrefixes are added to every patch
	DedupPrefixes []string
}

// NewFabric returns a resolver for fabric
func NewFabric(client *http.Client) *Meta {
	return &Meta{Name: minecraft.LoaderFabric, BaseURL: FabricMetaURL, HTTP: client, DedupPrefixes: []string{asmPrefix}}
}

// NewQuilt returns a resolver for quilt
func NewQuilt(client *http.Client) *Meta {
	return &Meta{Name: minecraft.LoaderQuilt, BaseURL: QuiltMetaURL, HTTP: client, DedupPrefixes: []string{asmPrefix}}
}

// Loader returns the loader name
func (m *Meta) Loader() string { return m.Name }

type metaLoaderEntry struct {
	Loader struct {
		Separator string `json:"separator"`
		Build     int    `json:"build"`
		Maven     string `json:"maven"`
		Version   string `json:"version"`
		// Stable is not set by quilt
		Stable *bool `json:"stable"`
	} `json:"loader"`
}

// Versions lists all loader versions for gameVersion
func (m *Meta) Versions(ctx context.Context, gameVersion string) ([]Version, error) {
	entries := make([]metaLoaderEntry, 0)
	endpoint := m.BaseURL + "/versions/loader/" + url.PathEscape(gameVersion)
	if err := m.getJSON(ctx, endpoint, &entries); err != nil {
		return nil, err
	}

	versions := make([]Version, 0, len(entries))
	for _, e := range entries {
		v := Version{Version: e.Loader.Version}
		if e.Loader.Stable != nil {
			v.Stable = *e.Loader.Stable
		} else if parsed, err := semver.NewVersion(v.Version); err == nil {
			v.Stable = parsed.Prerelease() == ""
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// Patch fetches the launcher profile of the loader and turns it into a patch
func (m *Meta) Patch(ctx context.Context, gameVersion string, loaderVersion string) (*minecraft.LoaderPatch, error) {
	endpoint := fmt.Sprintf(
		"%s/versions/loader/%s/%s/profile/json",
		m.BaseURL,
		url.PathEscape(gameVersion),
		url.PathEscape(loaderVersion),
	)
	profile := &minecraft.LaunchManifest{}
	if err := m.getJSON(ctx, endpoint, profile); err != nil {
		return nil, err
	}
	if profile.InheritsFrom != "" && profile.InheritsFrom != gameVersion {
		return nil, fmt.Errorf("%s profile is for minecraft %s, not %s", m.Name, profile.InheritsFrom, gameVersion)
	}

	patch := minecraft.PatchFromManifest(m.Name, loaderVersion, profile)
	patch.GameVersion = gameVersion
	patch.DedupPrefixes = append([]string(nil), m.DedupPrefixes...)
	return patch, nil
}

func (m *Meta) getJSON(ctx context.Context, endpoint string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := m.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s meta request failed", m.Name)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("%s meta API did respond with unexpected status %s", m.Name, res.Status)
	}

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, "reading meta response")
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return errors.Wrapf(err, "invalid %s meta response", m.Name)
	}
	return nil
}
