// Package texture resolves texture references of source documents and
// inspects or converts the referenced images.
package texture

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var ErrFileNotFound = errors.New("file not found")

// ResolvePath turns raw texture reference into an absolute existing path.
// Relative references are resolved against modelDir; when the reference
// can't be found as is, the file name alone is looked up in modelDir.
func ResolvePath(raw string, modelDir string) (string, error) {
	p := strings.TrimPrefix(raw, "file://")
	p = strings.ReplaceAll(p, "\\", "/")
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	if p == "" {
		return "", errors.Wrapf(ErrFileNotFound, "empty texture path")
	}
	p = filepath.FromSlash(p)

	candidates := make([]string, 0, 3)
	if filepath.IsAbs(p) {
		candidates = append(candidates, p)
	} else {
		candidates = append(candidates, filepath.Join(modelDir, p))
	}
	candidates = append(candidates, filepath.Join(modelDir, filepath.Base(p)))

	for _, c := range candidates {
		if st, err := os.Stat(c); err == nil && !st.IsDir() {
			abs, err := filepath.Abs(c)
			if err != nil {
				return c, nil
			}
			return abs, nil
		}
	}
	return "", errors.Wrapf(ErrFileNotFound, "%q", raw)
}

// OutputFilename returns name of texture as referenced by descriptor files
func OutputFilename(path string) string {
	return "res/model/" + filepath.Base(path)
}

// WithExtension replaces extension of path
func WithExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
