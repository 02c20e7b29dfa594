package downloadmgr

import (
	"os"
	"path/filepath"
	"strings"

	archiver "github.com/mholt/archiver/v3"
)

// unarchiverFor picks the archiver for the file extension
func unarchiverFor(name string) (archiver.Unarchiver, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".zip"), strings.HasSuffix(lower, ".jar"):
		z := archiver.NewZip()
		z.OverwriteExisting = true
		return z, nil
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		tgz := archiver.NewTarGz()
		tgz.OverwriteExisting = true
		return tgz, nil
	default:
		return nil, &UnsupportedFormatError{FileName: name}
	}
}

// extract unpacks the downloaded archive as defined in item.Extract.
// The archive is unpacked into a temporary directory that is only moved into place
// if everything worked. A broken archive is removed so the next run downloads it again
func extract(item *Item) error {
	unarchiver, err := unarchiverFor(item.Target)
	if err != nil {
		return err
	}

	dir := item.extractDir()
	if err := os.MkdirAll(filepath.Dir(dir), os.ModePerm); err != nil {
		return err
	}
	tmp, err := os.MkdirTemp(filepath.Dir(dir), filepath.Base(dir)+".*.extract")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	if err := unarchiver.Unarchive(item.Target, tmp); err != nil {
		os.Remove(item.Target)
		return err
	}

	if item.Extract.Marker != "" {
		marker := filepath.Join(tmp, item.Extract.Marker)
		if err := os.WriteFile(marker, []byte(item.URL+"\n"), 0644); err != nil {
			return err
		}
	}

	if err := moveInto(tmp, dir); err != nil {
		return err
	}

	if item.Extract.DeleteArchive {
		return os.Remove(item.Target)
	}
	return nil
}

// moveInto moves the content of src into dir. If dir does not exist src is renamed
func moveInto(src string, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.Rename(src, dir)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(target); err != nil {
			return err
		}
		if err := os.Rename(filepath.Join(src, entry.Name()), target); err != nil {
			return err
		}
	}
	return nil
}

// extracted checks if a previous run already unpacked the item
func extracted(item *Item) bool {
	opts := item.Extract
	switch {
	case opts.Marker != "":
		_, err := os.Stat(filepath.Join(item.extractDir(), opts.Marker))
		return err == nil
	case opts.DeleteArchive && opts.Dir != "":
		_, err := os.Stat(opts.Dir)
		return err == nil
	case opts.DeleteArchive:
		// nothing left to check
		return false
	default:
		return verify(item, item.Target) == nil
	}
}
