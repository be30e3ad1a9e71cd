// Package output serializes the encoded scene: binary bundle, material and
// scene descriptors, xml and gltf exports.
package output

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/config"
	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
)

// Paths of produced files, empty when the file is not requested
type Paths struct {
	Bundle   string
	Material string
	Scene    string
	XML      string
	GLTF     string
	Dump     string
}

// ResolvePaths derives output file names from input path and config
func ResolvePaths(input string, cfg *config.OutputConfig) Paths {
	dir := cfg.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := filepath.Join(dir, strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)))

	p := Paths{Bundle: base + ".gpb"}
	if cfg.Material {
		p.Material = base + ".material"
		if cfg.MaterialPath != "" {
			p.Material = cfg.MaterialPath
		}
	}
	if cfg.Scene {
		p.Scene = base + ".scene"
		if cfg.ScenePath != "" {
			p.Scene = cfg.ScenePath
		}
	}
	if cfg.Text {
		p.XML = base + ".xml"
	}
	if cfg.GLTF != "" {
		p.GLTF = cfg.GLTF
	}
	if cfg.Dump {
		p.Dump = base + ".dump.txt"
	}
	return p
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		encerr.Error(encerr.ErrFailedToOpenWriteFile, path)
		return errors.Wrapf(err, "Can't create %q", path)
	}
	defer f.Close()

	if err := write(f); err != nil {
		return errors.Wrapf(err, "Can't write %q", path)
	}
	return errors.Wrapf(f.Close(), "Can't close %q", path)
}

// WriteAll writes every requested output of f. Failure to write any file
// is returned right away.
func WriteAll(f *scene.File, cfg *config.Config, input string) (Paths, error) {
	p := ResolvePaths(input, &cfg.Output)

	encerr.Info(encerr.InfoSaveBinaryFile, p.Bundle)
	if err := writeFile(p.Bundle, func(w io.Writer) error { return WriteBundle(w, f) }); err != nil {
		encerr.Error(encerr.ErrWritingBinaryFile, p.Bundle)
		return p, err
	}

	if p.Material != "" {
		if err := writeFile(p.Material, func(w io.Writer) error { return WriteMaterials(w, f) }); err != nil {
			encerr.Error(encerr.ErrWritingTextFile, p.Material)
			return p, err
		}
	}
	if p.Scene != "" {
		if err := writeFile(p.Scene, func(w io.Writer) error { return WriteSceneFile(w, f, DefaultMaterialRef) }); err != nil {
			encerr.Error(encerr.ErrWritingTextFile, p.Scene)
			return p, err
		}
	}
	if p.XML != "" {
		encerr.Info(encerr.InfoSaveDebugFile, p.XML)
		if err := writeFile(p.XML, func(w io.Writer) error { return WriteXML(w, f) }); err != nil {
			encerr.Error(encerr.ErrWritingTextFile, p.XML)
			return p, err
		}
	}
	if p.GLTF != "" {
		asBinary := strings.EqualFold(filepath.Ext(p.GLTF), ".glb")
		if err := writeFile(p.GLTF, func(w io.Writer) error { return ExportGLTF(w, f, asBinary) }); err != nil {
			return p, err
		}
	}
	if p.Dump != "" {
		if err := writeFile(p.Dump, func(w io.Writer) error { return WriteDump(w, f, cfg.Output.NodeID) }); err != nil {
			return p, err
		}
	}

	if dir := cfg.Textures.OutputDir; dir != "" {
		n := CopyTextures(f, dir)
		logger.Info("Textures copied", zap.Int("count", n), zap.String("dir", dir))
	}

	logger.Info("Outputs written", zap.String("bundle", p.Bundle))
	return p, nil
}
