package rbtree

import "fmt"

// Validate checks every structural invariant of the tree: parent links,
// root color, the no-red-red rule, equal black-height on all root-to-nil
// paths, in-order key ordering, and the cached min/max/count. It is meant
// for tests; a non-nil error indicates a bug in this package, not bad
// caller input.
func (t *Tree[T, K]) Validate() error {
	if t.root == 0 {
		if t.min != 0 || t.max != 0 || t.count != 0 {
			return fmt.Errorf("rbtree: empty tree with min=%d max=%d count=%d", t.min, t.max, t.count)
		}
		return nil
	}

	if t.n(t.root).parent != 0 {
		return fmt.Errorf("rbtree: root %d has parent %d", t.root, t.n(t.root).parent)
	}
	if t.n(t.root).color != black {
		return fmt.Errorf("rbtree: root %d is red", t.root)
	}

	if _, err := t.checkSubtree(t.root); err != nil {
		return err
	}

	if got := t.subtreeMin(t.root); got != t.min {
		return fmt.Errorf("rbtree: cached min %d, leftmost is %d", t.min, got)
	}
	if got := t.subtreeMax(t.root); got != t.max {
		return fmt.Errorf("rbtree: cached max %d, rightmost is %d", t.max, got)
	}

	// In-order traversal: keys non-decreasing, node count matches.
	n := 0
	var prev uint32
	for it := t.Begin(); !it.IsEnd(); it = it.Next() {
		if prev != 0 && t.less(t.key(it.node), t.key(prev)) {
			return fmt.Errorf("rbtree: node %d out of order after %d", it.node, prev)
		}
		prev = it.node
		n++
	}
	if n != t.count {
		return fmt.Errorf("rbtree: count %d, traversal found %d", t.count, n)
	}
	return nil
}

// checkSubtree verifies colors, links and black-height below x and returns
// the subtree's black-height.
func (t *Tree[T, K]) checkSubtree(x uint32) (int, error) {
	if x == 0 {
		return 1, nil
	}
	n := t.n(x)

	if n.color == red {
		if n.left != 0 && t.n(n.left).color == red {
			return 0, fmt.Errorf("rbtree: red node %d has red left child %d", x, n.left)
		}
		if n.right != 0 && t.n(n.right).color == red {
			return 0, fmt.Errorf("rbtree: red node %d has red right child %d", x, n.right)
		}
	}
	if n.left != 0 && t.n(n.left).parent != x {
		return 0, fmt.Errorf("rbtree: node %d left child %d has parent %d", x, n.left, t.n(n.left).parent)
	}
	if n.right != 0 && t.n(n.right).parent != x {
		return 0, fmt.Errorf("rbtree: node %d right child %d has parent %d", x, n.right, t.n(n.right).parent)
	}

	lh, err := t.checkSubtree(n.left)
	if err != nil {
		return 0, err
	}
	rh, err := t.checkSubtree(n.right)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("rbtree: node %d black-height mismatch: left %d, right %d", x, lh, rh)
	}
	if n.color == black {
		lh++
	}
	return lh, nil
}
