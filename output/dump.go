package output

import (
	"io"

	"github.com/pkg/errors"

	"github.com/mogaika/scene_encoder/scene"
	"github.com/mogaika/scene_encoder/utils"
)

// WriteDump writes deep structure dump of f for debugging. A non empty
// nodeID restricts the dump to that node subtree.
func WriteDump(w io.Writer, f *scene.File, nodeID string) error {
	if nodeID != "" {
		ref, ok := f.NodeByID(nodeID)
		if !ok {
			return errors.Errorf("Node %q not found", nodeID)
		}
		f.Walk(ref, func(_ scene.NodeRef, n *scene.Node) {
			utils.FDump(w, n)
		})
		return nil
	}

	utils.FDump(w, f.Scene)
	for _, n := range f.Nodes {
		utils.FDump(w, n)
	}
	for _, m := range f.Materials {
		utils.FDump(w, m)
	}
	for _, l := range f.Lights {
		utils.FDump(w, l)
	}
	for _, c := range f.Cameras {
		utils.FDump(w, c)
	}
	for _, a := range f.Animations {
		utils.FDump(w, a)
	}
	return nil
}
