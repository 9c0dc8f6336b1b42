// Package scene is a small retained scene graph: groups, meshes, lines and
// labels with local transforms, materials and render pass tags.
package scene

import (
	"geoscene/internal/mathutil"
)

// PassSet is a bitset of render passes a node takes part in.
type PassSet uint32

// Render passes.
const (
	PassBase PassSet = 1 << iota
	PassBloom
)

// BloomLayer is the layer number that selective bloom renders.
const BloomLayer = 1

// LayerPass converts a layer number into its pass bit.
func LayerPass(layer int) PassSet { return PassSet(1) << uint(layer) }

// Add tags the set with p.
func (s *PassSet) Add(p PassSet) { *s |= p }

// Remove clears p.
func (s *PassSet) Remove(p PassSet) { *s &^= p }

// Has reports whether every bit of p is set.
func (s PassSet) Has(p PassSet) bool { return s&p == p }

// Transform is a position, rotation and scale relative to the parent.
type Transform struct {
	Position   mathutil.Vec3
	Quaternion mathutil.Quat
	Scale      mathutil.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Quaternion: mathutil.QuatIdentity(), Scale: mathutil.Vec3{1, 1, 1}}
}

// Matrix returns the local matrix T*R*S.
func (t Transform) Matrix() mathutil.Mat4 {
	return mathutil.Compose(t.Position, t.Quaternion, t.Scale)
}

// Object is anything that can live in the graph.
type Object interface {
	Base() *Node
}

// Node carries the state shared by every object.
type Node struct {
	Name string
	Transform
	Passes        PassSet
	Visible       bool
	CastShadow    bool
	ReceiveShadow bool

	parent   *Node
	children []Object
}

func newNode(name string) Node {
	return Node{Name: name, Transform: Identity(), Passes: PassBase, Visible: true}
}

// Base returns n itself.
func (n *Node) Base() *Node { return n }

// Parent returns the parent node or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children in insertion order.
func (n *Node) Children() []Object { return n.children }

// Add attaches objects to n, detaching them from any previous parent.
func (n *Node) Add(objs ...Object) {
	for _, o := range objs {
		c := o.Base()
		if c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(o)
		}
		c.parent = n
		n.children = append(n.children, o)
	}
}

// Remove detaches o if it is a child of n.
func (n *Node) Remove(o Object) {
	c := o.Base()
	for i, ch := range n.children {
		if ch.Base() == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// Traverse calls fn for every descendant, depth first, parents before
// children. n itself is not visited.
func (n *Node) Traverse(fn func(Object)) {
	for _, c := range n.children {
		fn(c)
		c.Base().Traverse(fn)
	}
}

// EnableLayer tags n with the pass of a numbered layer.
func (n *Node) EnableLayer(layer int) { n.Passes.Add(LayerPass(layer)) }

// SetRotation sets the rotation from XYZ Euler angles in radians.
func (n *Node) SetRotation(x, y, z float64) {
	n.Quaternion = mathutil.EulerToQuat(x, y, z)
}

// ResetTransform makes the local transform the identity.
func (n *Node) ResetTransform() { n.Transform = Identity() }

// WorldMatrix composes the local matrices from the root down to n.
func (n *Node) WorldMatrix() mathutil.Mat4 {
	m := n.Matrix()
	for p := n.parent; p != nil; p = p.parent {
		m = mathutil.Mat4Mul(p.Matrix(), m)
	}
	return m
}

// World returns the world transform of n.
func (n *Node) World() Transform {
	pos, rot, scale := n.WorldMatrix().Decompose()
	return Transform{Position: pos, Quaternion: rot, Scale: scale}
}
