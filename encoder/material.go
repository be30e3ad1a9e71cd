package encoder

import (
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/texture"
)

const (
	maxShininess   = 128
	alphaThreshold = 1e-9
)

// NormalizeShininess maps source shininess into [0, 128]. Values below 1
// are treated as normalized exponent.
func NormalizeShininess(s float64) float32 {
	if s < 1 {
		s *= maxShininess
	} else if s > maxShininess {
		s = maxShininess
	}
	if s < 0 {
		s = 0
	}
	return float32(s)
}

// Alpha derives opacity from transparency factor when the first channel of
// transparent color is zero, and from that channel otherwise
func Alpha(factor float64, transparent mgl32.Vec3) float32 {
	if float64(transparent[0]) < alphaThreshold {
		return float32(1 - factor)
	}
	return 1 - transparent[0]
}

// loadMaterials resolves one material per material slot of the node, at
// least one
func (b *Builder) loadMaterials(sn *source.Node, meshID string) []*scene.Material {
	count := len(sn.Materials)
	if count == 0 {
		encerr.Warning(encerr.WarnNoMaterialAssigned, meshID)
		count = 1
	}

	materials := make([]*scene.Material, count)
	for i := range materials {
		var sm *source.Material
		if i < len(sn.Materials) {
			sm = sn.Materials[i]
		}
		if sm != nil {
			materials[i] = b.loadMaterial(sm, meshID)
		} else {
			encerr.Warning(encerr.WarnUsingDefaultMaterial, i, meshID)
			materials[i] = b.loadDefaultMaterial()
		}
	}
	return materials
}

// materialKey is the native identity of sm, the cache is keyed by it
func materialKey(sm *source.Material) string {
	if sm.UniqueID != "" {
		return sm.UniqueID
	}
	return sm.Name
}

func (b *Builder) loadMaterial(sm *source.Material, meshID string) *scene.Material {
	key := materialKey(sm)
	if key == "" {
		return b.loadDefaultMaterial()
	}
	if m := b.cache.Material(key); m != nil {
		return m
	}

	name := sm.Name
	if name == "" {
		name = key
	}
	// distinct native materials sharing a name get suffixed ids
	id := b.matIDs.Resolve(name, key)

	mat := scene.NewMaterial(id)
	b.cache.AddMaterial(key, mat)
	b.file.AddMaterial(mat)

	for range sm.NormalMaps {
		encerr.Warning(encerr.WarnNormalMapNotSupported, id)
	}
	for range sm.BumpMaps {
		encerr.Warning(encerr.WarnBumpMapNotSupported, id)
	}

	e := &mat.Effect
	alpha := Alpha(sm.TransparencyFactor, sm.TransparentColor)
	e.UseSpecular = sm.HasSpecular()
	e.Ambient = sm.Ambient.Vec4(1)
	e.Diffuse = sm.Diffuse.Vec4(alpha)
	if e.UseSpecular {
		e.Specular = sm.Specular.Vec4(1)
		e.Shininess = NormalizeShininess(sm.Shininess)
	}
	e.Alpha = alpha

	if tex := b.diffuseTexture(sm, meshID); tex != nil {
		b.addTexture(mat, tex)
	}
	return mat
}

func (b *Builder) loadDefaultMaterial() *scene.Material {
	if m := b.cache.Material(scene.DefaultMaterialID); m != nil {
		return m
	}
	mat := scene.NewMaterial(scene.DefaultMaterialID)
	mat.Effect.UseSpecular = false
	mat.Effect.Ambient = mgl32.Vec4{0, 0, 0, 1}
	mat.Effect.Diffuse = mgl32.Vec4{0.5, 0.5, 0.5, 1}
	mat.Effect.Alpha = 1

	b.cache.AddMaterial(scene.DefaultMaterialID, mat)
	b.file.AddMaterial(mat)
	return mat
}

// diffuseTexture picks the single diffuse texture of material. Plain
// textures win over layered ones, first one wins on multiple.
func (b *Builder) diffuseTexture(sm *source.Material, meshID string) *source.Texture {
	switch {
	case len(sm.DiffuseTextures) == 1:
		return sm.DiffuseTextures[0]
	case len(sm.DiffuseTextures) > 1:
		encerr.Warning(encerr.WarnMultipleTexturesUsingFirst, materialKey(sm))
		return sm.DiffuseTextures[0]
	case len(sm.DiffuseLayered) == 1:
		encerr.Info(encerr.InfoUsingLayeredTexture, materialKey(sm))
		return firstLayer(sm.DiffuseLayered[0])
	case len(sm.DiffuseLayered) > 1:
		encerr.Warning(encerr.WarnLayeredTexturesNotSupported, meshID)
		return firstLayer(sm.DiffuseLayered[0])
	}
	return nil
}

func firstLayer(lt *source.LayeredTexture) *source.Texture {
	if lt == nil || len(lt.Textures) == 0 {
		return nil
	}
	return lt.Textures[0]
}

func (b *Builder) addTexture(mat *scene.Material, tex *source.Texture) {
	path, err := texture.ResolvePath(tex.Path(), b.modelDir)
	if err != nil {
		encerr.Error(encerr.ErrFileNotFound, tex.Path())
		return
	}

	info, err := texture.Inspect(path)
	if err != nil {
		encerr.Warning(encerr.WarnTextureNotFound, path, err.Error())
		return
	}

	if !info.IsPNG {
		if !b.cfg.Textures.ConvertToPNG {
			encerr.Error(encerr.ErrOnlyPNGSupported, path)
			return
		}
		dir := b.cfg.Textures.OutputDir
		if dir == "" {
			dir = filepath.Dir(path)
		}
		png := filepath.Join(dir, filepath.Base(texture.WithExtension(path, ".png")))
		if err := texture.ConvertToPNG(path, png); err != nil {
			logger.Error("Texture conversion failed", zap.String("src", path), zap.Error(err))
			encerr.Error(encerr.ErrConvertPNG, path, png)
			return
		}
		encerr.Info(encerr.InfoTextureConvertedPNG, path, png)
		path = png
	}

	e := &mat.Effect
	if !info.PowerOfTwo {
		encerr.Warning(encerr.WarnTexturesNonPowerOfTwo, path)
		e.WrapS, e.WrapT = scene.WrapClamp, scene.WrapClamp
		e.MinFilter, e.MagFilter = scene.FilterLinear, scene.FilterLinear
	} else {
		e.WrapS, e.WrapT = wrapMode(tex.WrapU), wrapMode(tex.WrapV)
	}
	e.TexturePath = path
	e.TextureFilename = texture.OutputFilename(path)
	logger.Debug("Texture assigned", zap.String("material", mat.ID), zap.String("file", e.TextureFilename))
}

func wrapMode(w source.Wrap) scene.Wrap {
	if w == source.WrapClamp {
		return scene.WrapClamp
	}
	return scene.WrapRepeat
}
