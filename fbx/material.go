package fbx

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/scene_encoder/fbx/cache"
	"github.com/mogaika/scene_encoder/source"
)

func colorProperty(p *properties, name, legacy string, def mgl32.Vec3) mgl32.Vec3 {
	if p.has(name) {
		return p.vec3(name, def)
	}
	return p.vec3(legacy, def)
}

func (l *loader) loadMaterial(o *cache.Object) *source.Material {
	if m, ok := l.materials[o.ID]; ok {
		return m
	}

	p := l.properties(o)
	m := &source.Material{
		UniqueID:     objectID(o),
		Name:         o.Name,
		ShadingModel: childString(o.Node, "ShadingModel"),

		Ambient:   colorProperty(p, "AmbientColor", "Ambient", mgl32.Vec3{0.2, 0.2, 0.2}),
		Diffuse:   colorProperty(p, "DiffuseColor", "Diffuse", mgl32.Vec3{0.8, 0.8, 0.8}),
		Specular:  colorProperty(p, "SpecularColor", "Specular", mgl32.Vec3{0.2, 0.2, 0.2}),
		Shininess: p.number("ShininessExponent", p.number("Shininess", 20)),

		TransparencyFactor: p.number("TransparencyFactor", 0),
		TransparentColor:   p.vec3("TransparentColor", mgl32.Vec3{}),
	}
	if m.ShadingModel == "" {
		m.ShadingModel = p.text("ShadingModel", "lambert")
	}

	for _, t := range o.ChildrenByProperty("DiffuseColor") {
		switch t.Class {
		case "Texture":
			m.DiffuseTextures = append(m.DiffuseTextures, l.loadTexture(t))
		case "LayeredTexture":
			lt := &source.LayeredTexture{Name: t.Name}
			for _, lto := range t.ChildrenOf("Texture") {
				lt.Textures = append(lt.Textures, l.loadTexture(lto))
			}
			m.DiffuseLayered = append(m.DiffuseLayered, lt)
		}
	}
	for _, t := range o.ChildrenByProperty("NormalMap") {
		if t.Class == "Texture" {
			m.NormalMaps = append(m.NormalMaps, l.loadTexture(t))
		}
	}
	for _, t := range o.ChildrenByProperty("Bump") {
		if t.Class == "Texture" {
			m.BumpMaps = append(m.BumpMaps, l.loadTexture(t))
		}
	}

	l.materials[o.ID] = m
	return m
}

func wrap(mode int) source.Wrap {
	if mode == 1 {
		return source.WrapClamp
	}
	return source.WrapRepeat
}

func (l *loader) loadTexture(o *cache.Object) *source.Texture {
	if t, ok := l.textures[o.ID]; ok {
		return t
	}

	p := l.properties(o)
	t := &source.Texture{
		UniqueID:         objectID(o),
		Name:             o.Name,
		RelativeFilename: childString(o.Node, "RelativeFilename"),
		FileName:         childString(o.Node, "FileName"),
		WrapU:            wrap(p.integer("WrapModeU", 0)),
		WrapV:            wrap(p.integer("WrapModeV", 0)),
	}
	// some exporters keep the path on the connected video clip only
	if t.Path() == "" {
		for _, v := range o.ChildrenOf("Video") {
			t.RelativeFilename = childString(v.Node, "RelativeFilename")
			t.FileName = childString(v.Node, "Filename")
			break
		}
	}

	l.textures[o.ID] = t
	return t
}
