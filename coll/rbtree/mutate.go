package rbtree

// InsertEqual inserts v, permitting duplicate keys. Values with equal keys
// end up adjacent in iteration order. On an arena allocation failure the
// error is returned and the tree is untouched.
func (t *Tree[T, K]) InsertEqual(v T) (Iterator[T, K], error) {
	k := t.keyOf(v)
	var y uint32
	x := t.root
	goLeft := true
	for x != 0 {
		y = x
		goLeft = t.less(k, t.key(x))
		if goLeft {
			x = t.n(x).left
		} else {
			x = t.n(x).right
		}
	}
	idx, err := t.insertAt(y, goLeft, v)
	if err != nil {
		return t.End(), err
	}
	return t.iter(idx), nil
}

// InsertUnique inserts v only if no stored key compares equal to v's key.
// It returns an iterator at the inserted value - or at the existing equal
// value - and whether insertion happened.
func (t *Tree[T, K]) InsertUnique(v T) (Iterator[T, K], bool, error) {
	k := t.keyOf(v)
	var y uint32
	x := t.root
	goLeft := true
	for x != 0 {
		y = x
		goLeft = t.less(k, t.key(x))
		if goLeft {
			x = t.n(x).left
		} else {
			x = t.n(x).right
		}
	}

	// The candidate duplicate is the would-be predecessor: the node we
	// attach to when descending right, otherwise the node before the
	// attach point. If we attach left of the minimum there is no
	// predecessor and the key is trivially unique.
	j := y
	if goLeft {
		if j == t.min {
			idx, err := t.insertAt(y, true, v)
			if err != nil {
				return t.End(), false, err
			}
			return t.iter(idx), true, nil
		}
		j = t.predecessor(j)
	}

	if t.less(t.key(j), k) {
		idx, err := t.insertAt(y, goLeft, v)
		if err != nil {
			return t.End(), false, err
		}
		return t.iter(idx), true, nil
	}

	// Neither key is less than the other: duplicate. No mutation.
	return t.iter(j), false, nil
}

// insertAt allocates a node for v and links it as the left or right child
// of parent (or as the root), then rebalances. The node is fully
// constructed before any link is touched, so an allocation failure leaves
// the tree unchanged.
func (t *Tree[T, K]) insertAt(parent uint32, asLeft bool, v T) (uint32, error) {
	idx, err := t.nodes.Alloc()
	if err != nil {
		return 0, err
	}
	n := t.n(idx)
	n.value = v
	n.parent = parent
	n.color = red

	switch {
	case parent == 0:
		t.root = idx
		t.min = idx
		t.max = idx
	case asLeft:
		t.n(parent).left = idx
		if parent == t.min {
			t.min = idx
		}
	default:
		t.n(parent).right = idx
		if parent == t.max {
			t.max = idx
		}
	}

	t.count++
	t.insertFixup(idx)
	return idx, nil
}

// insertFixup restores the red-black invariants after linking a red node.
// While the parent is red it either recolors (red uncle) and climbs two
// levels, or rotates (black uncle) and terminates; at most two rotations
// total.
func (t *Tree[T, K]) insertFixup(x uint32) {
	for x != t.root && t.n(t.n(x).parent).color == red {
		xp := t.n(x).parent
		xpp := t.n(xp).parent
		if xp == t.n(xpp).left {
			uncle := t.n(xpp).right
			if uncle != 0 && t.n(uncle).color == red {
				t.n(xp).color = black
				t.n(uncle).color = black
				t.n(xpp).color = red
				x = xpp
				continue
			}
			if x == t.n(xp).right {
				x = xp
				t.rotateLeft(x)
				xp = t.n(x).parent
				xpp = t.n(xp).parent
			}
			t.n(xp).color = black
			t.n(xpp).color = red
			t.rotateRight(xpp)
		} else {
			uncle := t.n(xpp).left
			if uncle != 0 && t.n(uncle).color == red {
				t.n(xp).color = black
				t.n(uncle).color = black
				t.n(xpp).color = red
				x = xpp
				continue
			}
			if x == t.n(xp).left {
				x = xp
				t.rotateRight(x)
				xp = t.n(x).parent
				xpp = t.n(xp).parent
			}
			t.n(xp).color = black
			t.n(xpp).color = red
			t.rotateLeft(xpp)
		}
	}
	t.n(t.root).color = black
}

// Erase removes the value the iterator references and returns an iterator
// at the in-order successor.
func (t *Tree[T, K]) Erase(it Iterator[T, K]) (Iterator[T, K], error) {
	if it.tree != t || !t.nodes.LiveGen(it.node, it.gen) {
		return t.End(), ErrBadIterator
	}
	next := it.Next()
	t.eraseNode(it.node)
	return next, nil
}

// EraseKey removes every value whose key equals k and returns how many
// were removed.
func (t *Tree[T, K]) EraseKey(k K) int {
	n := 0
	it, end := t.EqualRange(k)
	for it.node != end.node {
		cur := it.node
		it = it.Next()
		t.eraseNode(cur)
		n++
	}
	return n
}

// eraseNode unlinks z from the topology, rebalances, and frees the slot.
func (t *Tree[T, K]) eraseNode(z uint32) {
	t.rebalanceForErase(z)
	if err := t.nodes.Free(z); err != nil {
		// The iterator was validated against the arena; a failing free
		// here means the tree's own bookkeeping is corrupt.
		panic("rbtree: " + err.Error())
	}
	t.count--
}

// rebalanceForErase splices z out of the tree and restores the black-height
// invariant. y is the node physically removed from its position: z itself,
// or z's in-order successor when z has two children (the successor's value
// slot then takes z's place in the topology, keeping iterators to other
// nodes valid). It returns the color of the spliced-out position.
func (t *Tree[T, K]) rebalanceForErase(z uint32) color {
	y := z
	var x, xParent uint32

	switch {
	case t.n(y).left == 0:
		x = t.n(y).right
	case t.n(y).right == 0:
		x = t.n(y).left
	default:
		// Two children: y becomes z's successor, which has no left child.
		y = t.n(y).right
		for t.n(y).left != 0 {
			y = t.n(y).left
		}
		x = t.n(y).right
	}

	if y != z {
		// Relink y into z's position.
		t.n(t.n(z).left).parent = y
		t.n(y).left = t.n(z).left
		if y != t.n(z).right {
			xParent = t.n(y).parent
			if x != 0 {
				t.n(x).parent = xParent
			}
			t.n(xParent).left = x
			t.n(y).right = t.n(z).right
			t.n(t.n(z).right).parent = y
		} else {
			xParent = y
		}

		zp := t.n(z).parent
		switch {
		case t.root == z:
			t.root = y
		case t.n(zp).left == z:
			t.n(zp).left = y
		default:
			t.n(zp).right = y
		}
		t.n(y).parent = zp
		t.n(y).color, t.n(z).color = t.n(z).color, t.n(y).color
	} else {
		// At most one child: x replaces z directly.
		xParent = t.n(z).parent
		if x != 0 {
			t.n(x).parent = xParent
		}

		zp := t.n(z).parent
		switch {
		case t.root == z:
			t.root = x
		case t.n(zp).left == z:
			t.n(zp).left = x
		default:
			t.n(zp).right = x
		}

		if t.min == z {
			if t.n(z).right == 0 {
				t.min = zp
			} else {
				t.min = t.subtreeMin(x)
			}
		}
		if t.max == z {
			if t.n(z).left == 0 {
				t.max = zp
			} else {
				t.max = t.subtreeMax(x)
			}
		}
	}

	removed := t.n(z).color
	if removed == black {
		t.eraseFixup(x, xParent)
	}
	return removed
}

// eraseFixup restores the equal-black-height invariant starting at x (which
// may be the nil index, hence the explicit parent).
func (t *Tree[T, K]) eraseFixup(x, xParent uint32) {
	for x != t.root && (x == 0 || t.n(x).color == black) {
		if x == t.n(xParent).left {
			w := t.n(xParent).right
			if t.n(w).color == red {
				t.n(w).color = black
				t.n(xParent).color = red
				t.rotateLeft(xParent)
				w = t.n(xParent).right
			}
			wl, wr := t.n(w).left, t.n(w).right
			if (wl == 0 || t.n(wl).color == black) && (wr == 0 || t.n(wr).color == black) {
				t.n(w).color = red
				x = xParent
				xParent = t.n(xParent).parent
				continue
			}
			if wr == 0 || t.n(wr).color == black {
				if wl != 0 {
					t.n(wl).color = black
				}
				t.n(w).color = red
				t.rotateRight(w)
				w = t.n(xParent).right
			}
			t.n(w).color = t.n(xParent).color
			t.n(xParent).color = black
			if t.n(w).right != 0 {
				t.n(t.n(w).right).color = black
			}
			t.rotateLeft(xParent)
			break
		}

		w := t.n(xParent).left
		if t.n(w).color == red {
			t.n(w).color = black
			t.n(xParent).color = red
			t.rotateRight(xParent)
			w = t.n(xParent).left
		}
		wr, wl := t.n(w).right, t.n(w).left
		if (wr == 0 || t.n(wr).color == black) && (wl == 0 || t.n(wl).color == black) {
			t.n(w).color = red
			x = xParent
			xParent = t.n(xParent).parent
			continue
		}
		if wl == 0 || t.n(wl).color == black {
			if wr != 0 {
				t.n(wr).color = black
			}
			t.n(w).color = red
			t.rotateLeft(w)
			w = t.n(xParent).left
		}
		t.n(w).color = t.n(xParent).color
		t.n(xParent).color = black
		if t.n(w).left != 0 {
			t.n(t.n(w).left).color = black
		}
		t.rotateRight(xParent)
		break
	}
	if x != 0 {
		t.n(x).color = black
	}
}

func (t *Tree[T, K]) rotateLeft(x uint32) {
	y := t.n(x).right
	t.n(x).right = t.n(y).left
	if t.n(y).left != 0 {
		t.n(t.n(y).left).parent = x
	}
	t.n(y).parent = t.n(x).parent

	switch {
	case x == t.root:
		t.root = y
	case x == t.n(t.n(x).parent).left:
		t.n(t.n(x).parent).left = y
	default:
		t.n(t.n(x).parent).right = y
	}
	t.n(y).left = x
	t.n(x).parent = y
}

func (t *Tree[T, K]) rotateRight(x uint32) {
	y := t.n(x).left
	t.n(x).left = t.n(y).right
	if t.n(y).right != 0 {
		t.n(t.n(y).right).parent = x
	}
	t.n(y).parent = t.n(x).parent

	switch {
	case x == t.root:
		t.root = y
	case x == t.n(t.n(x).parent).right:
		t.n(t.n(x).parent).right = y
	default:
		t.n(t.n(x).parent).left = y
	}
	t.n(y).right = x
	t.n(x).parent = y
}

func (t *Tree[T, K]) subtreeMin(x uint32) uint32 {
	for t.n(x).left != 0 {
		x = t.n(x).left
	}
	return x
}

func (t *Tree[T, K]) subtreeMax(x uint32) uint32 {
	for t.n(x).right != 0 {
		x = t.n(x).right
	}
	return x
}
