package output

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/texture"
)

// CopyTextures copies textures of all materials into dir, returns number of
// files copied
func CopyTextures(f *scene.File, dir string) int {
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		encerr.Error(encerr.ErrDirectoryDoesNotExist, dir)
		return 0
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	copied := 0
	seen := make(map[string]struct{})
	for _, m := range f.Materials {
		src := m.Effect.TexturePath
		if src == "" {
			continue
		}
		if _, ok := seen[src]; ok {
			continue
		}
		seen[src] = struct{}{}

		if filepath.Dir(src) == absDir {
			continue
		}
		dst := filepath.Join(absDir, filepath.Base(src))
		if err := texture.CopyFile(src, dst); err != nil {
			encerr.Error(encerr.ErrTexCopy, src, dst, err.Error())
			continue
		}
		logger.Debug("Texture copied", zap.String("src", src), zap.String("dst", dst))
		copied++
	}
	return copied
}
