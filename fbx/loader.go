// Package fbx converts binary fbx documents into the source model.
package fbx

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	rawfbx "github.com/mogaika/fbx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/fbx/cache"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/source"
	"github.com/mogaika/scene_encoder/utils"
)

// MinVersion is the oldest fbx version with id based connections
const MinVersion = 7000

const rootID = 0

type loader struct {
	doc       *source.Document
	c         *cache.Cache
	templates map[string]*properties
	frameRate float64
	names     *charmap.Charmap

	nodes     map[int64]*source.Node
	meshes    map[int64]*source.Mesh
	materials map[int64]*source.Material
	textures  map[int64]*source.Texture
}

// Load reads fbx file at path. Legacy non utf8 names are decoded with
// names, windows-1252 when nil.
func Load(path string, names *charmap.Charmap) (*source.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	defer f.Close()

	raw, err := rawfbx.Read(f)
	if err != nil {
		encerr.Error(encerr.ErrFBXImporterNotInitialized, path)
		return nil, errors.Wrapf(err, "Failed to parse fbx %q", path)
	}
	return Convert(&raw.Root, path, names)
}

// Convert builds document from fbx node tree. path is used to resolve
// relative texture paths later.
func Convert(root *rawfbx.Node, path string, names *charmap.Charmap) (*source.Document, error) {
	if v, ok := toInt64(attr(child(child(root, "FBXHeaderExtension"), "FBXVersion"), 0)); ok && v < MinVersion {
		return nil, errors.Errorf("fbx version %d is not supported, %d or newer required", v, MinVersion)
	}

	l := &loader{
		doc:       source.NewDocument(path),
		c:         cache.NewCache(),
		templates: make(map[string]*properties),
		names:     names,
		nodes:     make(map[int64]*source.Node),
		meshes:    make(map[int64]*source.Mesh),
		materials: make(map[int64]*source.Material),
		textures:  make(map[int64]*source.Texture),
	}

	l.loadDefinitions(child(root, "Definitions"))
	l.loadGlobalSettings(child(root, "GlobalSettings"))
	if d := child(child(root, "Documents"), "Document"); d != nil {
		if id, ok := toInt64(attr(d, 0)); ok {
			l.doc.UniqueID = strconv.FormatInt(id, 10)
		}
	}

	l.loadObjects(child(root, "Objects"))
	l.loadConnections(child(root, "Connections"))

	models := l.c.ObjectsOf("Model")[1:]
	for _, o := range models {
		l.nodes[o.ID] = l.loadNode(o)
	}
	for _, o := range l.c.Get(rootID).ChildrenOf("Model") {
		l.linkNode(l.doc.Root, o)
	}
	for _, o := range models {
		l.loadNodeAttributes(o)
	}
	l.loadPoses()
	l.loadAnimations()

	logger.Log.Debug("fbx loaded",
		zap.String("path", path),
		zap.Int("objects", len(l.c.Objects())),
		zap.Int("nodes", len(l.nodes)),
		zap.Int("meshes", len(l.meshes)),
		zap.Int("materials", len(l.materials)))
	return l.doc, nil
}

func (l *loader) loadDefinitions(defs *rawfbx.Node) {
	for _, ot := range children(defs, "ObjectType") {
		if tmpl := child(ot, "PropertyTemplate"); tmpl != nil {
			l.templates[toString(attr(ot, 0))] = newProperties(tmpl, nil)
		}
	}
}

func (l *loader) properties(o *cache.Object) *properties {
	return newProperties(o.Node, l.templates[o.Class])
}

// frameRates maps fbx TimeMode enum to frames per second
var frameRates = []float64{30, 120, 100, 60, 50, 48, 30, 30, 29.97, 29.97, 25, 24, 1000, 23.976, 0, 96, 72, 59.94}

const timeModeCustom = 14

func (l *loader) loadGlobalSettings(gs *rawfbx.Node) {
	p := newProperties(gs, l.templates["GlobalSettings"])
	l.doc.AmbientColor = p.vec3("AmbientColor", mgl32.Vec3{})

	mode := p.integer("TimeMode", 0)
	switch {
	case mode == timeModeCustom:
		l.frameRate = p.number("CustomFrameRate", 30)
	case mode >= 0 && mode < len(frameRates):
		l.frameRate = frameRates[mode]
	}
	if l.frameRate <= 0 {
		l.frameRate = 30
	}
}

func (l *loader) loadObjects(objects *rawfbx.Node) {
	l.c.Add(&cache.Object{ID: rootID, Class: "Model", Name: "RootNode", Type: "Root"})
	if objects == nil {
		return
	}

	for _, n := range objects.Nodes {
		id, ok := toInt64(attr(n, 0))
		if !ok {
			continue
		}
		o := &cache.Object{
			ID:    id,
			Class: n.Name,
			Name:  utils.DecodeName(splitName(toString(attr(n, 1))), l.names),
			Node:  n,
		}
		if len(n.Properties) > 2 {
			o.Type = toString(n.Properties[len(n.Properties)-1])
		}
		l.c.Add(o)
	}
}

func (l *loader) loadConnections(conns *rawfbx.Node) {
	for _, c := range children(conns, "C") {
		kind := toString(attr(c, 0))
		if kind != "OO" && kind != "OP" {
			continue
		}
		from, _ := toInt64(attr(c, 1))
		to, _ := toInt64(attr(c, 2))
		prop := ""
		if kind == "OP" {
			prop = toString(attr(c, 3))
		}
		if !l.c.Connect(from, to, prop) {
			logger.Log.Debug("dangling connection", zap.Int64("from", from), zap.Int64("to", to))
		}
	}
}

func objectID(o *cache.Object) string {
	return strconv.FormatInt(o.ID, 10)
}

func describe(o *cache.Object) string {
	return fmt.Sprintf("%s %q (%d)", o.Class, o.Name, o.ID)
}
