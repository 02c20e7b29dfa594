package java

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// AdoptiumAPI is the api serving eclipse temurin builds
const AdoptiumAPI = "https://api.adoptium.net/v3"

// Asset is one release returned by the assets endpoint
type Asset struct {
	Binaries []struct {
		Architecture string `json:"architecture"`
		ImageType    string `json:"image_type"`
		JvmImpl      string `json:"jvm_impl"`
		Os           string `json:"os"`
		Package      struct {
			Checksum string `json:"checksum"`
			Link     string `json:"link"`
			Name     string `json:"name"`
			Size     int64  `json:"size"`
		} `json:"package"`
		UpdatedAt time.Time `json:"updated_at"`
	} `json:"binaries"`
	ReleaseName string `json:"release_name"`
	VersionData struct {
		Major  int    `json:"major"`
		Semver string `json:"semver"`
	} `json:"version_data"`
}

// assetRequest are the query parameters of the assets endpoint
type assetRequest struct {
	featureVersion int
	architecture   string
	imageType      string
	os             string
}

func (f *Factory) getAssets(ctx context.Context, opts *assetRequest) ([]Asset, error) {
	if opts.imageType == "" {
		opts.imageType = "jre"
	}

	params := url.Values{}
	params.Add("architecture", opts.architecture)
	params.Add("image_type", opts.imageType)
	params.Add("jvm_impl", "hotspot")
	params.Add("os", opts.os)
	params.Add("vendor", "eclipse")

	p := fmt.Sprintf(
		"%s/assets/feature_releases/%d/ga?%s",
		f.APIURL,
		opts.featureVersion,
		params.Encode(),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", p, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := f.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adoptium api responded with %s", res.Status)
	}

	parsed := make([]Asset, 0, 1)
	if err = json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// osName returns the adoptium name of a go os
func osName(goos string) string {
	switch goos {
	case "darwin":
		return "mac"
	case "linux":
		// alpine needs a musl build
		if _, err := os.Stat("/etc/alpine-release"); err == nil {
			return "alpine-linux"
		}
	}
	return goos
}

func archName(arch string) string {
	theMap := map[string]string{
		"amd64": "x64",
		"arm64": "aarch64",
		"386":   "x86",
		// other "common" ones have the same name (for example arm)
	}

	mapped, ok := theMap[arch]
	if !ok {
		return arch
	}
	return mapped
}
