package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/mogaika/scene_encoder/scene"
)

// WriteMaterials writes one material block per material of f
func WriteMaterials(w io.Writer, f *scene.File) error {
	bw := bufio.NewWriter(w)
	for _, m := range f.Materials {
		writeMaterial(bw, m, f.Light(m.Light))
	}
	return errors.Wrapf(bw.Flush(), "Can't write materials")
}

func writeMaterial(w io.Writer, m *scene.Material, light *scene.Light) {
	fmt.Fprintf(w, "material %s\n", m.ID)
	fmt.Fprintf(w, "{\n")
	fmt.Fprintf(w, "\ttechnique\n")
	fmt.Fprintf(w, "\t{\n")
	fmt.Fprintf(w, "\t\tpass 0\n")
	fmt.Fprintf(w, "\t\t{\n")
	writeEffect(w, m, light)
	fmt.Fprintf(w, "\t\t}\n")
	fmt.Fprintf(w, "\t}\n")
	fmt.Fprintf(w, "}\n\n")
}

// Defines returns shader defines of material lit by light
func Defines(m *scene.Material, light *scene.Light) []string {
	defines := make([]string, 0, 4)
	if light != nil {
		defines = append(defines, "SPECULAR")
		switch light.Type {
		case scene.LightPoint:
			defines = append(defines, "POINT_LIGHT")
		case scene.LightSpot:
			defines = append(defines, "SPOT_LIGHT")
		}
	}
	if m.Skinned {
		defines = append(defines, "SKINNING", fmt.Sprintf("SKINNING_JOINT_COUNT %d", m.JointCount))
	}
	return defines
}

func writeEffect(w io.Writer, m *scene.Material, light *scene.Light) {
	e := &m.Effect

	unlit := ""
	if light == nil {
		unlit = "-unlit"
	}
	if defines := Defines(m, light); len(defines) != 0 {
		fmt.Fprintf(w, "\t\t\tdefines = %s\n", strings.Join(defines, ";"))
	}
	if light != nil {
		fmt.Fprintf(w, "\t\t\tu_specularExponent = %f\n", e.Shininess)
	}

	if e.Textured() {
		fmt.Fprintf(w, "\t\t\tvertexShader = res/shaders/textured%s.vert\n", unlit)
		fmt.Fprintf(w, "\t\t\tfragmentShader = res/shaders/textured%s.frag\n\n", unlit)
		fmt.Fprintf(w, "\t\t\tsampler u_diffuseTexture\n")
		fmt.Fprintf(w, "\t\t\t{\n")
		fmt.Fprintf(w, "\t\t\t\tpath = %s\n", e.TextureFilename)
		fmt.Fprintf(w, "\t\t\t\twrapS = %s\n", e.WrapS)
		fmt.Fprintf(w, "\t\t\t\twrapT = %s\n", e.WrapT)
		// mipmaps are not generated for exported textures
		fmt.Fprintf(w, "\t\t\t\tminFilter = %s\n", scene.FilterLinear)
		fmt.Fprintf(w, "\t\t\t\tmagFilter = %s\n", scene.FilterLinear)
		fmt.Fprintf(w, "\t\t\t\tmipmap = false\n")
		fmt.Fprintf(w, "\t\t\t}\n\n")
	} else {
		fmt.Fprintf(w, "\t\t\tvertexShader = res/shaders/colored%s.vert\n", unlit)
		fmt.Fprintf(w, "\t\t\tfragmentShader = res/shaders/colored%s.frag\n\n", unlit)
		fmt.Fprintf(w, "\t\t\tu_diffuseColor = %f, %f, %f, %f\n",
			e.Diffuse[0], e.Diffuse[1], e.Diffuse[2], e.Diffuse[3])
	}

	fmt.Fprintf(w, "\t\t\trenderState\n")
	fmt.Fprintf(w, "\t\t\t{\n")
	fmt.Fprintf(w, "\t\t\t\tcullFace = false\n")
	fmt.Fprintf(w, "\t\t\t\tdepthTest = true\n")
	fmt.Fprintf(w, "\t\t\t}\n")
}
