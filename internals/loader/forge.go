package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archiver/v3"
	"github.com/minepkg/mcinstall/internals/logging"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ForgeMavenURL is the maven repository forge is published to
const ForgeMavenURL = "https://maven.minecraftforge.net"

var forgeDedupPrefixes = []string{
	asmPrefix,
	"net.sf.jopt-simple:",
	"com.google.guava:",
}

// Forge resolves forge versions from the forge maven. The patch is read
// from the version profile inside the installer jar
type Forge struct {
	MavenURL string
	HTTP     *http.Client
	Logger   zerolog.Logger
}

// NewForge returns a resolver for forge
func NewForge(client *http.Client) *Forge {
	return &Forge{MavenURL: ForgeMavenURL, HTTP: client, Logger: logging.Get("loader")}
}

// Loader returns "forge"
func (f *Forge) Loader() string { return minecraft.LoaderForge }

// Versions lists all forge versions for gameVersion
func (f *Forge) Versions(ctx context.Context, gameVersion string) ([]Version, error) {
	res, err := f.get(ctx, f.MavenURL+"/net/minecraftforge/forge/maven-metadata.json")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	byGame := make(map[string][]string)
	if err := json.NewDecoder(res.Body).Decode(&byGame); err != nil {
		return nil, errors.Wrap(err, "invalid forge maven metadata")
	}

	all := byGame[gameVersion]
	versions := make([]Version, 0, len(all))
	// maven metadata is sorted oldest first
	for i := len(all) - 1; i >= 0; i-- {
		versions = append(versions, Version{
			Version: strings.TrimPrefix(all[i], gameVersion+"-"),
			Stable:  true,
		})
	}
	return versions, nil
}

// Patch downloads the installer and reads the version profile from it.
// Libraries that are generated by the installer (no download url) are not part of the patch
func (f *Forge) Patch(ctx context.Context, gameVersion string, loaderVersion string) (*minecraft.LoaderPatch, error) {
	full := gameVersion + "-" + loaderVersion
	installerURL := fmt.Sprintf(
		"%s/net/minecraftforge/forge/%s/forge-%s-installer.jar",
		f.MavenURL, full, full,
	)

	installer, err := f.downloadInstaller(ctx, installerURL)
	if err != nil {
		return nil, err
	}
	defer os.Remove(installer)

	profile, err := readForgeProfile(installer)
	if err != nil {
		return nil, err
	}

	patch := minecraft.PatchFromManifest(minecraft.LoaderForge, loaderVersion, profile)
	patch.GameVersion = gameVersion
	patch.DedupPrefixes = append([]string(nil), forgeDedupPrefixes...)

	libs := make(minecraft.Libraries, 0, len(patch.Libraries))
	for _, lib := range patch.Libraries {
		if lib.Downloads.Artifact != nil && lib.Downloads.Artifact.URL == "" {
			f.Logger.Warn().Str("library", lib.Name).Msg("skipping library generated by the forge installer")
			patch.Generated = append(patch.Generated, lib.Name)
			continue
		}
		libs = append(libs, lib)
	}
	patch.Libraries = libs

	return patch, nil
}

func (f *Forge) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "forge maven request failed")
	}
	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, errors.Errorf("forge maven did respond with unexpected status %s for %s", res.Status, url)
	}
	return res, nil
}

func (f *Forge) downloadInstaller(ctx context.Context, url string) (string, error) {
	res, err := f.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	tmp, err := os.CreateTemp("", "forge-installer-*.jar")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, res.Body); err != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "downloading forge installer")
	}
	return tmp.Name(), nil
}

// readForgeProfile reads the launch profile from a forge installer.
// Newer installers ship a version.json, older ones embed it in install_profile.json
func readForgeProfile(installer string) (*minecraft.LaunchManifest, error) {
	var versionJSON, installProfile []byte

	err := archiver.NewZip().Walk(installer, func(f archiver.File) error {
		header, ok := f.Header.(zip.FileHeader)
		if !ok {
			return nil
		}
		var err error
		switch header.Name {
		case "version.json":
			versionJSON, err = io.ReadAll(f)
		case "install_profile.json":
			installProfile, err = io.ReadAll(f)
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading forge installer")
	}

	switch {
	case versionJSON != nil:
		return minecraft.ParseLaunchManifest(versionJSON)
	case installProfile != nil:
		legacy := struct {
			VersionInfo json.RawMessage `json:"versionInfo"`
		}{}
		if err := json.Unmarshal(installProfile, &legacy); err != nil {
			return nil, errors.Wrap(err, "invalid forge install profile")
		}
		if legacy.VersionInfo == nil {
			return nil, errors.New("forge install profile has no version info")
		}
		return minecraft.ParseLaunchManifest(legacy.VersionInfo)
	}
	return nil, errors.New("forge installer contains no version profile")
}
