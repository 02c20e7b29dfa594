// Package reconcile compares wanted content with the content folders of an
// instance and plans the downloads and deletions needed to match them.
package reconcile

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/minepkg/mcinstall/internals/downloadmgr"
	"github.com/minepkg/mcinstall/internals/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// MarkerFile is created in directories installed by us. Directories without it are never deleted
const MarkerFile = ".mcinstall"

// ErrUnknownType is returned for content types without a folder
var ErrUnknownType = errors.New("unknown content type")

// Folders maps content types to their folder inside the instance
var Folders = map[string]string{
	"mod":          "mods",
	"resourcepack": "resourcepacks",
	"shaderpack":   "shaderpacks",
	"datapack":     "datapacks",
	"plugin":       "plugins",
	"world":        "saves",
}

// typeOrder is the order plans are returned in
var typeOrder = []string{"mod", "resourcepack", "shaderpack", "datapack", "plugin", "world"}

// directoryTypes are installed as an extracted directory instead of a single file
var directoryTypes = map[string]bool{
	"world": true,
}

// Plan is what has to happen in one content folder
type Plan struct {
	Type   string
	Folder string
	// ToDownload only contains missing (or broken) files
	ToDownload []downloadmgr.Item
	// ToDelete are absolute paths of files or directories
	ToDelete []string
}

// Summary counts the work of plans
type Summary struct {
	Downloads int
	Deletes   int
	// Bytes is the known download size
	Bytes int64
}

// Summary returns the counts of this plan
func (p *Plan) Summary() Summary {
	s := Summary{Downloads: len(p.ToDownload), Deletes: len(p.ToDelete)}
	for _, item := range p.ToDownload {
		s.Bytes += item.Size
	}
	return s
}

// Empty reports if there is nothing to do
func (p *Plan) Empty() bool {
	return len(p.ToDownload) == 0 && len(p.ToDelete) == 0
}

// Summarize adds up the summaries of all plans
func Summarize(plans []*Plan) Summary {
	total := Summary{}
	for _, p := range plans {
		s := p.Summary()
		total.Downloads += s.Downloads
		total.Deletes += s.Deletes
		total.Bytes += s.Bytes
	}
	return total
}

func (s Summary) String() string {
	if s.Downloads == 0 && s.Deletes == 0 {
		return "nothing to do"
	}
	download := fmt.Sprintf("%d to download", s.Downloads)
	if s.Bytes > 0 {
		download += " (" + humanize.Bytes(uint64(s.Bytes)) + ")"
	}
	return fmt.Sprintf("%s, %d to delete", download, s.Deletes)
}

// Reconciler plans the content of one instance directory
type Reconciler struct {
	// Root is the instance directory
	Root string
	// Server only wants files marked as ServerSide
	Server bool
	// Types are always planned, even if no content of this type is wanted.
	// Types of wanted content are always planned
	Types  []string
	Logger zerolog.Logger
}

// New returns a Reconciler for the instance at root
func New(root string) *Reconciler {
	return &Reconciler{Root: root, Logger: logging.Get("reconcile")}
}

// FolderPath returns the absolute path of the folder for a content type
func (r *Reconciler) FolderPath(contentType string) string {
	return filepath.Join(r.Root, Folders[contentType])
}

// Plan computes one plan per content type. Only missing files are downloaded and only
// files that are not wanted anymore are deleted
func (r *Reconciler) Plan(desired []Descriptor, fs afero.Fs) ([]*Plan, error) {
	byType := make(map[string][]Descriptor)
	for _, t := range r.Types {
		if _, ok := Folders[t]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
		}
		byType[t] = nil
	}
	for _, d := range desired {
		if _, ok := Folders[d.Type]; !ok {
			return nil, fmt.Errorf("content %q: %w: %q", d.ID, ErrUnknownType, d.Type)
		}
		byType[d.Type] = append(byType[d.Type], d)
	}

	plans := make([]*Plan, 0, len(byType))
	for _, t := range typeOrder {
		descriptors, ok := byType[t]
		if !ok {
			continue
		}
		plan, err := r.planType(t, descriptors, fs)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func (r *Reconciler) planType(contentType string, descriptors []Descriptor, fs afero.Fs) (*Plan, error) {
	folder := r.FolderPath(contentType)
	isDirType := directoryTypes[contentType]
	plan := &Plan{Type: contentType, Folder: folder}
	expected := make(map[string]struct{})

	for _, d := range descriptors {
		files := r.wantedFiles(d)
		if len(files) == 0 {
			r.Logger.Debug().Str("content", d.ID).Msg("no resolvable file, skipping")
			continue
		}

		for _, f := range files {
			name := f.Filename
			if isDirType {
				name = directoryName(f.Filename)
			}
			if _, dup := expected[name]; dup {
				r.Logger.Warn().Str("content", d.ID).Str("file", name).Msg("file is wanted twice, ignoring duplicate")
				continue
			}
			expected[name] = struct{}{}

			target := filepath.Join(folder, name)
			if isDirType {
				// an unpacked archive always carries the marker
				if ok, _ := afero.Exists(fs, filepath.Join(target, MarkerFile)); ok {
					continue
				}
				item := r.item(folder, f)
				item.Extract = &downloadmgr.ExtractOptions{Dir: target, DeleteArchive: true, Marker: MarkerFile}
				plan.ToDownload = append(plan.ToDownload, item)
				continue
			}

			if present(fs, target, f) {
				continue
			}
			plan.ToDownload = append(plan.ToDownload, r.item(folder, f))
		}
	}

	deletions, err := r.scan(fs, folder, expected, isDirType)
	if err != nil {
		return nil, err
	}
	plan.ToDelete = deletions
	return plan, nil
}

// wantedFiles returns the files of d that should be installed
func (r *Reconciler) wantedFiles(d Descriptor) []File {
	files := make([]File, 0, len(d.Files))
	for _, f := range d.Files {
		if f.URL == "" || f.Filename == "" {
			continue
		}
		if r.Server && !f.ServerSide {
			continue
		}
		files = append(files, f)
	}
	return files
}

func (r *Reconciler) item(folder string, f File) downloadmgr.Item {
	item := downloadmgr.NewItem(f.URL, filepath.Join(folder, f.Filename))
	item.Group = filepath.Base(folder)
	item.Sha1 = f.Sha1
	item.Size = f.Size
	return item
}

// scan returns everything in folder that is not expected
func (r *Reconciler) scan(fs afero.Fs, folder string, expected map[string]struct{}, isDirType bool) ([]string, error) {
	entries, err := afero.ReadDir(fs, folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	deletions := make([]string, 0)
	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), downloadmgr.DisabledSuffix)
		if _, ok := expected[name]; ok {
			continue
		}
		p := filepath.Join(folder, entry.Name())

		switch {
		case isDirType && entry.IsDir():
			// only directories we created ourselves
			if ok, _ := afero.Exists(fs, filepath.Join(p, MarkerFile)); !ok {
				continue
			}
		case isDirType || entry.IsDir():
			continue
		}
		deletions = append(deletions, p)
	}
	return deletions, nil
}

// directoryName is the name of the directory an archive is extracted to
func directoryName(filename string) string {
	for _, ext := range []string{".tar.gz", ".tgz", ".zip"} {
		if strings.HasSuffix(strings.ToLower(filename), ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}

// present checks if the file or its disabled twin exists and matches the expected size and hash
func present(fs afero.Fs, target string, f File) bool {
	for _, p := range []string{target, target + downloadmgr.DisabledSuffix} {
		stat, err := fs.Stat(p)
		if err != nil || stat.IsDir() {
			continue
		}
		if f.Size > 0 && stat.Size() != f.Size {
			continue
		}
		if f.Sha1 != "" {
			sum, err := sha1Of(fs, p)
			if err != nil || !strings.EqualFold(sum, f.Sha1) {
				continue
			}
		}
		return true
	}
	return false
}

func sha1Of(fs afero.Fs, p string) (string, error) {
	file, err := fs.Open(p)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha1.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
