package minecraft

// AssetsURL is the base url of all asset objects
const AssetsURL = "https://resources.download.minecraft.net/"

// AssetIndexRef points to the asset index json of a version
type AssetIndexRef struct {
	ID        string `json:"id"`
	Sha1      string `json:"sha1,omitempty"`
	Size      int64  `json:"size,omitempty"`
	TotalSize int64  `json:"totalSize,omitempty"`
	URL       string `json:"url,omitempty"`
}

// AssetIndex is just a map containing AssetObjects
type AssetIndex struct {
	Objects map[string]AssetObject `json:"objects"`
	// Virtual indexes (pre 1.7) copy assets by their name into a "virtual/legacy" folder
	Virtual bool `json:"virtual,omitempty"`
	// MapToResources indexes (pre 1.6) copy assets into the instance "resources" folder
	MapToResources bool `json:"map_to_resources,omitempty"`
}

// AssetObject is one minecraft asset
type AssetObject struct {
	Hash string `json:"hash"`
	Size int64  `json:"size"`
}

// UnixPath returns the path including the folder
// example: fe/fe32f3b8…
func (a *AssetObject) UnixPath() string {
	return a.Hash[:2] + "/" + a.Hash
}

// DownloadURL returns the download url for this asset
func (a *AssetObject) DownloadURL() string {
	return AssetsURL + a.UnixPath()
}
