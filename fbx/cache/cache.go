// Package cache keeps fbx objects by their id together with the connection
// graph between them.
package cache

import (
	"github.com/mogaika/fbx"
)

// Link is one end of a connection; Property is set for object-property
// connections only
type Link struct {
	Object   *Object
	Property string
}

type Object struct {
	ID int64
	// Class is the node name in the Objects section: Model, Geometry, ...
	Class string
	Name  string
	// Type is the last node property: Mesh, LimbNode, Skin, ...
	Type string
	Node *fbx.Node

	Children []Link
	Parents  []Link
}

// ChildrenOf returns connected children of class, in connection order.
// Empty class matches everything.
func (o *Object) ChildrenOf(class string) []*Object {
	res := make([]*Object, 0)
	for _, l := range o.Children {
		if class == "" || l.Object.Class == class {
			res = append(res, l.Object)
		}
	}
	return res
}

// ChildrenByProperty returns children connected to property prop of o
func (o *Object) ChildrenByProperty(prop string) []*Object {
	res := make([]*Object, 0)
	for _, l := range o.Children {
		if l.Property == prop {
			res = append(res, l.Object)
		}
	}
	return res
}

// Parent returns first connected parent of class or nil
func (o *Object) Parent(class string) *Object {
	for _, l := range o.Parents {
		if l.Object.Class == class {
			return l.Object
		}
	}
	return nil
}

type Cache struct {
	d     map[int64]*Object
	order []*Object
}

func (c *Cache) Add(o *Object) {
	if _, e := c.d[o.ID]; !e {
		c.order = append(c.order, o)
	}
	c.d[o.ID] = o
}

func (c *Cache) Get(id int64) *Object {
	if o, e := c.d[id]; e {
		return o
	} else {
		return nil
	}
}

// Objects returns all objects in insertion order
func (c *Cache) Objects() []*Object {
	return c.order
}

// ObjectsOf returns objects of class in insertion order
func (c *Cache) ObjectsOf(class string) []*Object {
	res := make([]*Object, 0)
	for _, o := range c.order {
		if o.Class == class {
			res = append(res, o)
		}
	}
	return res
}

// Connect links child to parent. Returns false when one of the ends is unknown.
func (c *Cache) Connect(child, parent int64, prop string) bool {
	co, po := c.Get(child), c.Get(parent)
	if co == nil || po == nil {
		return false
	}
	po.Children = append(po.Children, Link{Object: co, Property: prop})
	co.Parents = append(co.Parents, Link{Object: po, Property: prop})
	return true
}

func NewCache() *Cache {
	return &Cache{d: make(map[int64]*Object)}
}
