package tree

import (
	"errors"
)

func leftOf[T any](node Node[T]) Node[T] {
	if node == nil {
		return nil
	}
	l, err := node.Left()
	if err != nil {
		return nil
	}
	return l
}

func rightOf[T any](node Node[T]) Node[T] {
	if node == nil {
		return nil
	}
	r, err := node.Right()
	if err != nil {
		return nil
	}
	return r
}

func parentOf[T any](node Node[T]) Node[T] {
	if node == nil {
		return nil
	}
	p, err := node.Parent()
	if err != nil {
		return nil
	}
	return p
}

func isBlackNode[T any](node Node[T]) bool {
	return node == nil || node.Color() == Black
}

func isRedNode[T any](node Node[T]) bool {
	return node != nil && node.Color() == Red
}

func blackDepth[T any](target Node[T]) int {
	depth := 0
	for aux := target; aux != nil; aux = parentOf(aux) {
		if isBlackNode(aux) {
			depth++
		}
	}
	return depth
}

// rbtree rule validation utilities, built on the public node view only.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate[T any](tree OrderedTree[T]) error {
	if tree == nil || tree.Policy() != ColorBalanced {
		return nil
	}
	var err error
	tree.InOrder(func(_ int64, node Node[T]) bool {
		if node.Color() == Unset {
			err = errors.New("rbtree unset color")
			return false
		}
		if isRedNode(node) {
			if !node.HasParent() ||
				isRedNode(parentOf(node)) ||
				isRedNode(leftOf(node)) || isRedNode(rightOf(node)) {
				err = errors.New("rbtree red violation")
				return false
			}
		}
		return true
	})
	return err
}

// BFS traversal to load all nodes holding at least one NIL leaf.
func bfsLeaves[T any](tree OrderedTree[T]) []Node[T] {
	leaves := make([]Node[T], 0, tree.Len()>>1+1)
	it := tree.LevelOrder()
	for it.HasNext() {
		aux, _ := it.Next()
		if /* nil leaves, keep one */ !aux.HasLeft() || !aux.HasRight() {
			leaves = append(leaves, aux)
		}
	}
	return leaves
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            [16]

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each leaf node to root node black depth are equal.
*/
func BlackViolationValidate[T any](tree OrderedTree[T]) error {
	if tree == nil || tree.Policy() != ColorBalanced {
		return nil
	}
	leaves := bfsLeaves[T](tree)
	if len(leaves) == 0 {
		return nil
	}

	depth := blackDepth(leaves[0])
	for i := 1; i < len(leaves); i++ {
		if blackDepth(leaves[i]) != depth {
			return errors.New("rbtree black violation")
		}
	}
	return nil
}
