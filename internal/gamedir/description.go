package gamedir

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	descOffset = 64
	descLength = 260 // bytes 64..324, per spec.md §4.2
)

// DescriptionReader reads a plugin's embedded description field for
// DESC predicates, mirroring mlox.py's plugin_description. Game data
// directories are sometimes network shares or antivirus-scanned paths
// where a read can transiently fail; a couple of quick retries costs
// nothing and avoids spuriously treating a plugin as description-less.
type DescriptionReader struct {
	dir *CaselessDir
}

// NewDescriptionReader builds a DescriptionReader over dir.
func NewDescriptionReader(dir *CaselessDir) *DescriptionReader {
	return &DescriptionReader{dir: dir}
}

// Description returns cname's description string, or an error if the
// plugin can't be found or read after retrying.
func (r *DescriptionReader) Description(cname string) (string, error) {
	path, ok := r.dir.FindPath(cname)
	if !ok {
		return "", fmt.Errorf("gamedir: plugin not found: %s", cname)
	}

	var desc string
	b := retry.WithMaxRetries(2, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(context.Background(), b, func(ctx context.Context) error {
		d, err := readDescription(path)
		if err != nil {
			if os.IsNotExist(err) {
				return err
			}
			return retry.RetryableError(err)
		}
		desc = d
		return nil
	})
	if err != nil {
		return "", err
	}
	return desc, nil
}

func readDescription(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, descLength)
	n, err := f.ReadAt(buf, descOffset)
	// A short read (file smaller than offset+descLength) is not a
	// failure: spec.md §9 treats it as "no description" (empty string).
	if err != nil && err != io.EOF {
		return "", err
	}
	buf = buf[:n]
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}
