package collada

import (
	"net/url"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	dae "github.com/mogaika/go-collada"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/source"
)

func color(c *dae.FxCommonColorOrTextureType, def mgl32.Vec3) mgl32.Vec3 {
	if c == nil || c.Color == nil {
		return def
	}
	return vec3(parseFloats(c.Color.V), def)
}

func wrap(mode string) source.Wrap {
	switch mode {
	case "CLAMP", "BORDER", "MIRROR_ONCE":
		return source.WrapClamp
	}
	return source.WrapRepeat
}

// imagePath turns init_from uri into file path
func imagePath(s string) string {
	s = strings.TrimSpace(s)
	if u, err := url.Parse(s); err == nil && (u.Scheme == "file" || u.Scheme == "") {
		if u.Path != "" {
			s = u.Path
		}
	}
	return s
}

// opacity reads transparent and transparency pair according to opaque mode
func opacity(sh *dae.Phong) float64 {
	if sh.Transparent == nil {
		return 1
	}
	t := paramOr(sh.Transparency, 1)
	c := []float64{1, 1, 1, 1}
	if sh.Transparent.Color != nil {
		copy(c, parseFloats(sh.Transparent.Color.V))
	}
	lum := (c[0] + c[1] + c[2]) / 3
	switch sh.Transparent.Opaque {
	case dae.OpaqueRgbZero:
		return 1 - lum*t
	case dae.OpaqueAlphaZero:
		return 1 - c[3]*t
	case dae.OpaqueRgbOne:
		return lum * t
	default:
		return c[3] * t
	}
}

// loadMaterial resolves material id through its effect. Result is cached
// and shared by all instances.
func (l *loader) loadMaterial(id string) *source.Material {
	if m, ok := l.materials[id]; ok {
		return m
	}
	def, ok := l.matDefs[id]
	if !ok {
		encerr.Warning(encerr.WarnMaterialNotFound, id)
		return nil
	}

	m := &source.Material{
		UniqueID:     id,
		Name:         def.Name,
		ShadingModel: "lambert",
		Diffuse:      mgl32.Vec3{1, 1, 1},
	}
	if m.Name == "" {
		m.Name = id
	}
	l.materials[id] = m

	fx, ok := l.effects[fragment(def.InstanceEffect.Url)]
	if !ok {
		encerr.Error(encerr.ErrMaterial, id)
		return m
	}
	tech := &fx.Profile.Technique
	model, sh := tech.shading()
	if sh == nil {
		encerr.Error(encerr.ErrMaterial, id)
		return m
	}
	if model != "constant" {
		m.ShadingModel = model
	}

	m.Ambient = color(sh.AmbientFx, mgl32.Vec3{})
	m.Diffuse = color(sh.Diffuse, mgl32.Vec3{1, 1, 1})
	m.Specular = color(sh.Specular, mgl32.Vec3{})
	if model == "constant" {
		m.Diffuse = color(sh.Emission, m.Diffuse)
	}
	m.Shininess = paramOr(sh.Shininess, 0)
	m.TransparencyFactor = 1 - opacity(sh)

	if tex := l.texture(fx, sh.Diffuse); tex != nil {
		m.DiffuseTextures = append(m.DiffuseTextures, tex)
	} else if sh.Diffuse == nil && model == "constant" {
		if tex := l.texture(fx, sh.Emission); tex != nil {
			m.DiffuseTextures = append(m.DiffuseTextures, tex)
		}
	}
	for _, bump := range tech.Bump {
		if tex := l.texture(fx, bump); tex != nil {
			m.BumpMaps = append(m.BumpMaps, tex)
		}
	}
	return m
}

// texture follows sampler and surface params of effect to image of the
// channel; the reference may also name an image directly
func (l *loader) texture(fx *effect, c *dae.FxCommonColorOrTextureType) *source.Texture {
	if c == nil || c.Texture == nil {
		return nil
	}
	ref := c.Texture.Texture
	params := make(map[string]*newParam, len(fx.Params)+len(fx.Profile.Params))
	for _, p := range fx.Params {
		params[p.Sid] = p
	}
	for _, p := range fx.Profile.Params {
		params[p.Sid] = p
	}

	wrapS, wrapT := "", ""
	imageID := ref
	if p, ok := params[ref]; ok && p.Sampler != nil {
		wrapS, wrapT = p.Sampler.WrapS, p.Sampler.WrapT
		switch {
		case p.Sampler.Instance.Url != "":
			imageID = fragment(p.Sampler.Instance.Url)
		case p.Sampler.Source != "":
			imageID = p.Sampler.Source
			if sp, ok := params[p.Sampler.Source]; ok && sp.Surface != nil {
				imageID = strings.TrimSpace(sp.Surface.InitFrom)
			}
		}
	}

	img, ok := l.images[imageID]
	if !ok {
		encerr.Warning(encerr.WarnTextureNotFound, ref, "image not found")
		return nil
	}
	path := imagePath(img.path())
	name := img.Name
	if name == "" {
		name = string(img.Id)
	}
	return &source.Texture{
		UniqueID:         string(img.Id),
		Name:             name,
		RelativeFilename: path,
		FileName:         path,
		WrapU:            wrap(wrapS),
		WrapV:            wrap(wrapT),
	}
}
