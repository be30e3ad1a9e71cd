package encoder

import (
	"time"

	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/config"
	"github.com/mogaika/scene_encoder/enhancer"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/source"
)

// Encode runs the whole pipeline over doc: scene graph with skins, animations,
// optional animation optimization and light assignment of materials.
func Encode(doc *source.Document, cfg *config.Config) (*scene.File, error) {
	start := time.Now()

	b := NewBuilder(cfg)
	f, err := b.Build(doc)
	if err != nil {
		return nil, err
	}

	b.AssembleAnimations()
	if b.cfg.Animations.Optimize {
		OptimizeAnimations(f)
	}

	enhancer.AssignLights(f)

	logger.Info("Document encoded",
		zap.String("scene", f.Scene.ID),
		zap.Int("nodes", len(f.Nodes)),
		zap.Int("meshes", len(f.Meshes)),
		zap.Int("materials", len(f.Materials)),
		zap.Int("animations", len(f.Animations)),
		zap.Duration("took", time.Since(start)))
	return f, nil
}
