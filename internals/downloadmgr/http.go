package downloadmgr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/minepkg/mcinstall/internals/ownhttp"
)

var defaultClient = http.Client{
	Transport: ownhttp.NewAddHeaderTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		Dial: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).Dial,
		TLSHandshakeTimeout:   20 * time.Second,
		ResponseHeaderTimeout: 60 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}),
}

// fetchWithRetry tries to download the item up to d.Attempts times.
// There is no backoff between attempts. ctx is only checked between attempts
func (d *DownloadManager) fetchWithRetry(ctx context.Context, item *Item) error {
	attempts := d.Attempts
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = d.fetch(item)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		d.Logger.Debug().Err(err).Int("attempt", attempt).Str("url", item.URL).Msg("download attempt failed")
	}
	return err
}

// fetch downloads the item to the defined target using http.
// A started download always runs to the end
func (d *DownloadManager) fetch(item *Item) error {
	req, err := http.NewRequest(http.MethodGet, item.URL, nil)
	if err != nil {
		return err
	}

	client := d.Client
	if client == nil {
		client = &defaultClient
	}

	res, err := client.Do(req)
	if err != nil {
		return &TransientFetchError{URL: item.URL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return &TransientFetchError{URL: item.URL, StatusCode: res.StatusCode}
	}

	return writeVerified(item, res.Body)
}

// copyLocal copies a file:// item. This is never retried
func copyLocal(item *Item) error {
	u, err := url.Parse(item.URL)
	if err != nil {
		return err
	}
	src, err := os.Open(filepath.FromSlash(u.Path))
	if err != nil {
		return err
	}
	defer src.Close()

	return writeVerified(item, src)
}

// writeVerified writes r to a temporary file next to the target, checks it and
// moves it into place. The target is never left half written
func writeVerified(item *Item, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(item.Target), os.ModePerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(item.Target), filepath.Base(item.Target)+".*.part")
	if err != nil {
		return err
	}
	// no-op after the rename
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, r)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if err := verify(item, tmp.Name()); err != nil {
		var mismatch *IntegrityMismatch
		if errors.As(err, &mismatch) {
			mismatch.FileName = item.Target
		}
		return err
	}

	if err := os.Rename(tmp.Name(), item.Target); err != nil {
		return fmt.Errorf("could not move download into place: %w", err)
	}
	return nil
}
