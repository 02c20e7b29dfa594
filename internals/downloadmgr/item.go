package downloadmgr

import (
	"path/filepath"
	"strings"
)

// DisabledSuffix marks a file that is present but switched off by the user.
// A disabled file still counts as downloaded.
const DisabledSuffix = ".disabled"

// Item is a URL, target pair with optional properties that will be downloaded
type Item struct {
	// URL can be a http(s) or a file:// URL
	URL string
	// Target is the destination path. It identifies the item, two items
	// with the same target in one run are not allowed
	Target string
	// Group is only used to attribute progress
	Group string
	// Sha1 is the expected hex sha1 of the file (optional)
	Sha1 string
	// Size is the expected size in bytes (optional)
	Size int64
	// Extract makes the manager unpack the file after downloading it (optional)
	Extract *ExtractOptions
}

// ExtractOptions describe how an archive is unpacked after downloading
type ExtractOptions struct {
	// Dir is the directory to extract to. Defaults to the directory of the target
	Dir string
	// DeleteArchive removes the archive after it was extracted
	DeleteArchive bool
	// Marker is an optional file name that is created inside Dir after extracting
	Marker string
}

// NewItem creates a Item to be queued
func NewItem(URL string, target string) Item {
	if URL == "" {
		panic("Download URL can not be empty")
	}
	if target == "" {
		panic("Target can not be empty")
	}
	return Item{URL: URL, Target: target}
}

func (i *Item) isLocal() bool {
	return strings.HasPrefix(i.URL, "file://")
}

func (i *Item) extractDir() string {
	if i.Extract == nil || i.Extract.Dir == "" {
		return filepath.Dir(i.Target)
	}
	return i.Extract.Dir
}
