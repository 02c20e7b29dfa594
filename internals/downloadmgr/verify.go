package downloadmgr

import (
	"crypto/sha1"
	"encoding/hex"
	"io"
	"os"
	"strconv"
	"strings"
)

// satisfied checks if the target (or its disabled twin) is already on disk and
// passes the integrity check. Archives that are extracted count as satisfied
// once they were unpacked
func satisfied(item *Item) bool {
	if item.Extract != nil {
		return extracted(item)
	}
	for _, p := range []string{item.Target, item.Target + DisabledSuffix} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if verify(item, p) == nil {
			return true
		}
	}
	return false
}

// verify checks the file at path. The sha1 is checked if set, the size otherwise.
// If neither is set existence is enough
func verify(item *Item, path string) error {
	switch {
	case item.Sha1 != "":
		actual, err := sha1File(path)
		if err != nil {
			return err
		}
		if !strings.EqualFold(actual, item.Sha1) {
			return &IntegrityMismatch{path, item.Sha1, actual}
		}
	case item.Size > 0:
		stat, err := os.Stat(path)
		if err != nil {
			return err
		}
		if stat.Size() != item.Size {
			return &IntegrityMismatch{
				path,
				strconv.FormatInt(item.Size, 10) + " bytes",
				strconv.FormatInt(stat.Size(), 10) + " bytes",
			}
		}
	default:
		_, err := os.Stat(path)
		return err
	}
	return nil
}

// sha1File returns the hex encoded sha1 of the file
func sha1File(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	hasher := sha1.New()
	// probably io error during hashing
	if _, err := io.Copy(hasher, src); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
