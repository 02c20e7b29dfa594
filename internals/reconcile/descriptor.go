package reconcile

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// File is one downloadable file of a content descriptor
type File struct {
	Filename string `yaml:"filename" json:"filename"`
	URL      string `yaml:"url" json:"url"`
	Sha1     string `yaml:"sha1,omitempty" json:"sha1,omitempty"`
	Size     int64  `yaml:"size,omitempty" json:"size,omitempty"`
	// ServerSide files are also installed on servers
	ServerSide bool `yaml:"serverSide,omitempty" json:"serverSide,omitempty"`
}

// Descriptor is one piece of content (a mod, a world …) that should be installed
type Descriptor struct {
	ID       string `yaml:"id" json:"id"`
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`
	// Type is one of the keys of Folders
	Type  string `yaml:"type" json:"type"`
	Files []File `yaml:"files" json:"files"`
}

// ContentSet is the file format of a content set
type ContentSet struct {
	Content []Descriptor `yaml:"content" json:"content"`
}

// LoadContentSet reads a yaml or json content set from fs
func LoadContentSet(fs afero.Fs, path string) ([]Descriptor, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	set := ContentSet{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &set)
	default:
		err = yaml.Unmarshal(raw, &set)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid content set %s: %w", path, err)
	}

	for _, d := range set.Content {
		if _, ok := Folders[d.Type]; !ok {
			return nil, fmt.Errorf("content %q: %w: %q", d.ID, ErrUnknownType, d.Type)
		}
	}
	return set.Content, nil
}
