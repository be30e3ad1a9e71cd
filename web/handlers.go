package web

import (
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/scene_encoder/output"
	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/webutils"
)

type jsonScene struct {
	ID           string     `json:"id"`
	Roots        []string   `json:"roots"`
	ActiveCamera string     `json:"activeCamera,omitempty"`
	AmbientColor [3]float32 `json:"ambientColor"`
	Nodes        int        `json:"nodes"`
	Meshes       int        `json:"meshes"`
	Materials    int        `json:"materials"`
	Animations   int        `json:"animations"`
	Skinned      bool       `json:"skinned"`
}

type jsonModel struct {
	Mesh      string   `json:"mesh"`
	Vertices  int      `json:"vertices"`
	Parts     int      `json:"parts"`
	Materials []string `json:"materials"`
	Joints    []string `json:"joints,omitempty"`
}

type jsonNode struct {
	ID        string      `json:"id"`
	Parent    string      `json:"parent,omitempty"`
	Children  []string    `json:"children"`
	Transform [16]float32 `json:"transform"`
	Joint     bool        `json:"joint"`
	Camera    string      `json:"camera,omitempty"`
	Light     string      `json:"light,omitempty"`
	Model     *jsonModel  `json:"model,omitempty"`
}

type jsonMaterial struct {
	ID        string     `json:"id"`
	Diffuse   [4]float32 `json:"diffuse"`
	Specular  bool       `json:"specular"`
	Texture   string     `json:"texture,omitempty"`
	Light     string     `json:"light,omitempty"`
	Skinned   bool       `json:"skinned"`
	Defines   []string   `json:"defines"`
	JointSize int        `json:"jointCount,omitempty"`
}

type jsonAnimation struct {
	ID       string   `json:"id"`
	Channels []string `json:"channels"`
}

func (s *Server) nodeID(ref scene.NodeRef) string {
	if n := s.file.Node(ref); n != nil {
		return n.ID
	}
	return ""
}

func (s *Server) HandlerScene(w http.ResponseWriter, r *http.Request) {
	f := s.file
	js := jsonScene{
		Roots:      make([]string, 0),
		Nodes:      len(f.Nodes),
		Meshes:     len(f.Meshes),
		Materials:  len(f.Materials),
		Animations: len(f.Animations),
		Skinned:    f.HasSkins(),
	}
	if f.Scene != nil {
		js.ID = f.Scene.ID
		js.ActiveCamera = s.nodeID(f.Scene.ActiveCamera)
		js.AmbientColor = f.Scene.AmbientColor
		for _, ref := range f.Scene.Nodes {
			js.Roots = append(js.Roots, s.nodeID(ref))
		}
	}
	webutils.WriteJson(w, js)
}

func (s *Server) HandlerNodes(w http.ResponseWriter, r *http.Request) {
	ids := make([]string, len(s.file.Nodes))
	for i, n := range s.file.Nodes {
		ids[i] = n.ID
	}
	webutils.WriteJson(w, ids)
}

func (s *Server) HandlerNode(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	ref, ok := s.file.NodeByID(id)
	if !ok {
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("Node %q not found", id))
		return
	}
	n := s.file.Node(ref)

	jn := jsonNode{
		ID:        n.ID,
		Parent:    s.nodeID(n.Parent),
		Children:  make([]string, 0, len(n.Children)),
		Transform: n.Transform,
		Joint:     n.IsJoint,
	}
	for _, c := range n.Children {
		jn.Children = append(jn.Children, s.nodeID(c))
	}
	if c := s.file.Camera(n.Camera); c != nil {
		jn.Camera = c.Type.String()
	}
	if l := s.file.Light(n.Light); l != nil {
		jn.Light = l.Type.String()
	}
	if m := n.Model; m != nil && m.Mesh != nil {
		jm := &jsonModel{
			Mesh:      m.Mesh.ID,
			Vertices:  len(m.Mesh.Vertices),
			Parts:     len(m.Mesh.Parts),
			Materials: make([]string, 0, len(m.Materials)),
		}
		for _, mat := range m.Materials {
			jm.Materials = append(jm.Materials, mat.ID)
		}
		if m.Skin != nil {
			jm.Joints = m.Skin.JointNames
		}
		jn.Model = jm
	}
	webutils.WriteJson(w, jn)
}

func (s *Server) HandlerMaterials(w http.ResponseWriter, r *http.Request) {
	res := make([]jsonMaterial, 0, len(s.file.Materials))
	for _, m := range s.file.Materials {
		light := s.file.Light(m.Light)
		jm := jsonMaterial{
			ID:        m.ID,
			Diffuse:   m.Effect.Diffuse,
			Specular:  m.Effect.UseSpecular,
			Texture:   m.Effect.TextureFilename,
			Skinned:   m.Skinned,
			Defines:   output.Defines(m, light),
			JointSize: m.JointCount,
		}
		if light != nil {
			jm.Light = light.ID
		}
		res = append(res, jm)
	}
	webutils.WriteJson(w, res)
}

func (s *Server) HandlerAnimations(w http.ResponseWriter, r *http.Request) {
	res := make([]jsonAnimation, 0, len(s.file.Animations))
	for _, a := range s.file.Animations {
		ja := jsonAnimation{ID: a.ID, Channels: make([]string, 0, len(a.Channels))}
		for _, c := range a.Channels {
			ja.Channels = append(ja.Channels, c.TargetID)
		}
		res = append(res, ja)
	}
	webutils.WriteJson(w, res)
}

func (s *Server) HandlerDownload(w http.ResponseWriter, r *http.Request) {
	f := s.file
	switch kind := mux.Vars(r)["kind"]; kind {
	case "bundle":
		webutils.WriteRendered(w, s.name+".gpb", func(w io.Writer) error { return output.WriteBundle(w, f) })
	case "material":
		webutils.WriteRendered(w, s.name+".material", func(w io.Writer) error { return output.WriteMaterials(w, f) })
	case "scene":
		webutils.WriteRendered(w, s.name+".scene", func(w io.Writer) error {
			return output.WriteSceneFile(w, f, output.DefaultMaterialRef)
		})
	case "xml":
		webutils.WriteRendered(w, s.name+".xml", func(w io.Writer) error { return output.WriteXML(w, f) })
	case "gltf":
		webutils.WriteRendered(w, s.name+".glb", func(w io.Writer) error { return output.ExportGLTF(w, f, true) })
	case "dump":
		webutils.WriteRendered(w, s.name+".dump.txt", func(w io.Writer) error {
			return output.WriteDump(w, f, r.URL.Query().Get("node"))
		})
	default:
		webutils.WriteError(w, http.StatusNotFound, errors.Errorf("Unknown download kind %q", kind))
	}
}
