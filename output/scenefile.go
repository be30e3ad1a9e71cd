package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/scene_encoder/scene"
)

const DefaultMaterialRef = "res/scene.material"

// WriteSceneFile lists materials of every node with a model, referencing
// them inside materialRef file
func WriteSceneFile(w io.Writer, f *scene.File, materialRef string) error {
	if materialRef == "" {
		materialRef = DefaultMaterialRef
	}
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "scene\n")
	fmt.Fprintf(bw, "{\n")
	for _, n := range f.Nodes {
		if n.Model == nil || n.Model.Mesh == nil {
			continue
		}
		fmt.Fprintf(bw, "    node %s\n", n.ID)
		fmt.Fprintf(bw, "    {\n")
		parts := len(n.Model.Mesh.Parts)
		for i := 0; i < parts; i++ {
			mat := n.Model.Material(i)
			if mat == nil {
				continue
			}
			if parts > 1 {
				fmt.Fprintf(bw, "        material[%d] = ", i)
			} else {
				fmt.Fprintf(bw, "        material = ")
			}
			fmt.Fprintf(bw, "%s#%s\n", materialRef, mat.ID)
		}
		fmt.Fprintf(bw, "    }\n")
	}
	fmt.Fprintf(bw, "}\n")

	return errors.Wrapf(bw.Flush(), "Can't write scene file")
}
