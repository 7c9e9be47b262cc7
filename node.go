package atlaspack

// Node is one entry of an atlas occupancy tree.
//
// Nodes live in a flat arena owned by the Atlas and refer to their children
// by index. The root is always index 0, so a child index of 0 means "no
// child". A node has either no children (a leaf) or exactly two.
//
// A leaf with an empty Name is free space. An internal node is occupied: its
// Rect is the area of the placed image, padding excluded, and Name is the
// image name.
type Node struct {
	Rect Rect
	Name string

	// Small is the strip to the right of the placed image.
	Small int
	// Large is everything below the placed image.
	Large int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.Small == 0 && n.Large == 0
}

// Occupied reports whether an image was placed in this node.
func (n *Node) Occupied() bool {
	return n.Small != 0 && n.Large != 0
}

// Placement describes where one image ended up.
type Placement struct {
	Name  string
	Atlas int
	Rect  Rect
}
