// Package collada reads the subset of COLLADA 1.4/1.5 documents the encoder
// understands into the source model.
package collada

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	dae "github.com/mogaika/go-collada"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"github.com/mogaika/scene_encoder/encerr"
	"github.com/mogaika/scene_encoder/logger"
	"github.com/mogaika/scene_encoder/source"
)

type loader struct {
	d   *dae.Collada
	ext *extension
	doc *source.Document

	images      map[string]*image
	effects     map[string]*effect
	matDefs     map[string]*dae.Material
	materials   map[string]*source.Material
	geometries  map[string]*dae.Geometry
	controllers map[string]*controller
	lights      map[string]*dae.Light
	cameras     map[string]*dae.Camera
	libNodes    map[string]*dae.Node
	meshes      map[string]*source.Mesh

	// symbols lists material symbols of mesh in slot order
	symbols map[*source.Mesh][]string

	// byID holds first instance of every node id
	byID    map[string]*source.Node
	raw     map[*source.Node]*dae.Node
	skins   []pendingSkin
	counter int
}

// Load reads collada file at path
func Load(path string) (*source.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		encerr.Error(encerr.ErrColladaOpenFile, path)
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	defer f.Close()
	return Decode(f, path)
}

var (
	utf8BOM = []byte{0xef, 0xbb, 0xbf}
	xmlDecl = regexp.MustCompile(`^\s*<\?xml[^>]*?encoding\s*=\s*["']([^"']+)["'][^>]*\?>`)
)

// toUTF8 transcodes document declared in another encoding and rewrites its
// declaration, go-collada decoder has no charset reader
func toUTF8(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	m := xmlDecl.FindSubmatchIndex(data)
	if m == nil {
		return data, nil
	}
	label := string(data[m[2]:m[3]])
	if strings.EqualFold(label, "utf-8") {
		return data, nil
	}

	r, err := charset.NewReaderLabel(label, bytes.NewReader(data[m[1]:]))
	if err != nil {
		return nil, errors.Wrapf(err, "Unsupported document encoding %q", label)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode %q document", label)
	}
	return append([]byte(`<?xml version="1.0" encoding="UTF-8"?>`), body...), nil
}

// Decode parses collada document from r. path is used to resolve relative
// texture paths later.
func Decode(r io.Reader, path string) (*source.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		encerr.Error(encerr.ErrColladaOpenFile, path)
		return nil, errors.Wrapf(err, "Failed to read %q", path)
	}
	if data, err = toUTF8(data); err != nil {
		encerr.Error(encerr.ErrColladaDOM, path)
		return nil, err
	}

	d, err := dae.LoadDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		encerr.Error(encerr.ErrColladaDOM, path)
		return nil, errors.Wrapf(err, "Failed to parse collada %q", path)
	}
	ext := &extension{}
	if err := xml.Unmarshal(data, ext); err != nil {
		encerr.Error(encerr.ErrColladaDOM, path)
		return nil, errors.Wrapf(err, "Failed to parse collada libraries of %q", path)
	}
	return convert(d, ext, path)
}

func convert(d *dae.Collada, ext *extension, path string) (*source.Document, error) {
	vs := findVisualScene(d)
	if vs == nil {
		encerr.Error(encerr.ErrColladaMissingVisualScene)
		return nil, errors.Errorf("collada %q has no visual scene", path)
	}

	l := &loader{
		d:           d,
		ext:         ext,
		doc:         source.NewDocument(path),
		images:      make(map[string]*image),
		effects:     make(map[string]*effect),
		matDefs:     make(map[string]*dae.Material),
		materials:   make(map[string]*source.Material),
		geometries:  make(map[string]*dae.Geometry),
		controllers: make(map[string]*controller),
		lights:      make(map[string]*dae.Light),
		cameras:     make(map[string]*dae.Camera),
		libNodes:    make(map[string]*dae.Node),
		meshes:      make(map[string]*source.Mesh),
		symbols:     make(map[*source.Mesh][]string),
		byID:        make(map[string]*source.Node),
		raw:         make(map[*source.Node]*dae.Node),
	}
	l.index()

	l.doc.Name = string(vs.Id)
	l.doc.UniqueID = string(vs.Id)
	for _, n := range vs.Node {
		l.loadNode(l.doc.Root, n, "")
	}
	l.bindSkins()
	l.loadAnimations()

	logger.Log.Debug("collada loaded",
		zap.String("path", path),
		zap.String("version", string(d.Version)),
		zap.String("scene", string(vs.Id)),
		zap.Int("nodes", len(l.raw)),
		zap.Int("meshes", len(l.meshes)),
		zap.Int("materials", len(l.materials)))
	return l.doc, nil
}

func findVisualScene(d *dae.Collada) *dae.VisualScene {
	var want string
	if d.Scene != nil && d.Scene.InstanceVisualScene != nil {
		want = fragment(d.Scene.InstanceVisualScene.Url)
	}
	var first *dae.VisualScene
	for _, lib := range d.LibraryVisualScenes {
		for _, vs := range lib.VisualScene {
			if string(vs.Id) == want {
				return vs
			}
			if first == nil {
				first = vs
			}
		}
	}
	return first
}

func (l *loader) index() {
	for _, i := range l.ext.Images {
		l.images[string(i.Id)] = i
	}
	for _, e := range l.ext.Effects {
		l.effects[string(e.Id)] = e
	}
	for _, lib := range l.d.LibraryMaterials {
		for _, m := range lib.Material {
			l.matDefs[string(m.Id)] = m
		}
	}
	for _, lib := range l.d.LibraryGeometries {
		for _, g := range lib.Geometry {
			l.geometries[string(g.Id)] = g
		}
	}
	for _, c := range l.ext.Controllers {
		l.controllers[string(c.Id)] = c
	}
	for _, lib := range l.d.LibraryLights {
		for _, li := range lib.Light {
			l.lights[string(li.Id)] = li
		}
	}
	for _, lib := range l.d.LibraryCameras {
		for _, c := range lib.Camera {
			l.cameras[string(c.Id)] = c
		}
	}
	for _, n := range l.ext.Nodes {
		l.indexLibraryNode(n)
	}
}

func (l *loader) indexLibraryNode(n *dae.Node) {
	if n.Id != "" {
		l.libNodes[string(n.Id)] = n
	}
	for _, c := range n.Node {
		l.indexLibraryNode(c)
	}
}

// nodeKey returns native key of node; ids are unique within document,
// nodes without one get a position key
func (l *loader) nodeKey(id string, prefix string) string {
	if id != "" {
		return prefix + id
	}
	l.counter++
	return fmt.Sprintf("%s#node%d", prefix, l.counter)
}

// dataSource is a source with its accessor stride resolved
type dataSource struct {
	*dae.Source
	width int
}

// source lookup tables shared by geometry, skin and animation parsing
type sourceTable map[string]*dataSource

func newSourceTable(sources []*dae.Source) sourceTable {
	t := make(sourceTable, len(sources))
	for _, s := range sources {
		var sc sourceCommon
		if err := decodeCommon(s.TechniqueCommon, &sc); err != nil {
			logger.Debug("collada accessor skipped", zap.String("source", string(s.Id)), zap.Error(err))
		}
		t[string(s.Id)] = &dataSource{Source: s, width: sc.Accessor.Stride}
	}
	return t
}

func (t sourceTable) get(url dae.Uri) *dataSource {
	return t[fragment(url)]
}

// stride returns element size of source, 1 when accessor omits it
func (s *dataSource) stride() int {
	if s.width > 0 {
		return s.width
	}
	return 1
}

func (s *dataSource) floats() []float64 {
	if s.FloatArray == nil {
		return nil
	}
	return parseFloats(s.FloatArray.V)
}

func (s *dataSource) names() []string {
	switch {
	case s.NameArray != nil:
		return strings.Fields(s.NameArray.V)
	case s.IdRefArray != nil:
		return strings.Fields(s.IdRefArray.V)
	}
	return nil
}
