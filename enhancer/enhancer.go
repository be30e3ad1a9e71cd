// Package enhancer links materials of the built scene graph to the lights
// closest to the nodes using them.
package enhancer

import (
	"github.com/mogaika/scene_encoder/scene"
)

// AssignLights links siblings and sets light of every material used by a
// model to the closest light of the model node
func AssignLights(f *scene.File) {
	LinkSiblings(f, f.Scene.Nodes)
	for _, n := range f.Nodes {
		LinkSiblings(f, n.Children)
	}

	for i, n := range f.Nodes {
		if n.Model == nil {
			continue
		}
		light := ClosestLight(f, scene.NodeRef(i))
		for _, mat := range n.Model.Materials {
			mat.Light = light
		}
	}
}

// LinkSiblings chains nodes in list order through sibling links
func LinkSiblings(f *scene.File, nodes []scene.NodeRef) {
	for i, ref := range nodes {
		n := f.Node(ref)
		if i > 0 {
			n.PrevSibling = nodes[i-1]
		} else {
			n.PrevSibling = scene.NoNode
		}
		if i+1 < len(nodes) {
			n.NextSibling = nodes[i+1]
		} else {
			n.NextSibling = scene.NoNode
		}
	}
}

// ClosestLight looks for a light on the node, then on its sibling chain,
// then repeats that for every ancestor
func ClosestLight(f *scene.File, ref scene.NodeRef) scene.LightRef {
	for ref != scene.NoNode {
		n := f.Node(ref)
		if n.Light != scene.NoLight {
			return n.Light
		}
		if l := siblingLight(f, ref); l != scene.NoLight {
			return l
		}
		ref = n.Parent
	}
	return scene.NoLight
}

func siblingLight(f *scene.File, ref scene.NodeRef) scene.LightRef {
	head := ref
	for {
		prev := f.Node(head).PrevSibling
		if prev == scene.NoNode || prev == ref {
			break
		}
		head = prev
	}
	for cur := head; cur != scene.NoNode; {
		n := f.Node(cur)
		if n.Light != scene.NoLight {
			return n.Light
		}
		cur = n.NextSibling
		if cur == head {
			break
		}
	}
	return scene.NoLight
}
