package tree

// References:
// https://en.wikipedia.org/wiki/AVL_tree
// avl properties:
// p1. The height of an absent child is -1, a leaf has height 0.
// p2. height(X) = 1 + max(height(X.left), height(X.right)).
// p3. For every node X, |height(X.left) - height(X.right)| <= 1.
// (Conclusion) The height of a tree with n nodes is bounded by
//   1.44 * log2(n + 2).

type heightBalancer[T any] struct{}

func (heightBalancer[T]) policy() Policy {
	return HeightBalanced
}

func (heightBalancer[T]) initNode(n *node[T]) {
	n.height = 0
}

func (b heightBalancer[T]) insertFixup(tree *bsTree[T], x nodeID) {
	b.rebalance(tree, tree.at(x).parent)
}

func (b heightBalancer[T]) remove(tree *bsTree[T], x nodeID) {
	_, p := tree.splice(x)
	tree.arena.release(x)
	b.rebalance(tree, p)
}

func (tree *bsTree[T]) storedHeight(x nodeID) int {
	if x == nilID {
		return -1
	}
	return int(tree.at(x).height)
}

func (tree *bsTree[T]) updateHeight(x nodeID) {
	if x == nilID {
		return
	}
	xn := tree.at(x)
	xn.height = int32(1 + max(tree.storedHeight(xn.left), tree.storedHeight(xn.right)))
}

func (tree *bsTree[T]) storedBalance(x nodeID) int {
	xn := tree.at(x)
	return tree.storedHeight(xn.left) - tree.storedHeight(xn.right)
}

/*
Walk up from X to the root, refreshing heights and rotating wherever
the balance factor reaches 2.

hb1: balance(X) == -2 and balance(Q) is 0 or -1, Q = X.right.

	  X                     Q
	 / \                   / \
	A   Q    l-rotate(X)  X   C
	   / \   ==========> / \
	  B   C             A   B

hb2: balance(X) == -2 and balance(Q) == +1 (right-left), rotate Q to
the right first, then continue as hb1.

	  X                  X                      Y
	 / \                / \                   /   \
	A   Q  r-rotate(Q) A   Y    l-rotate(X)  X     Q
	   / \ ==========>    / \   ==========> / \   / \
	  Y   D              B   Q             A   B C   D
	 / \                    / \
	B   C                  C   D

hb3: balance(X) == +2, mirror of hb1 with P = X.left.

hb4: balance(X) == +2 and balance(P) == -1 (left-right), mirror of hb2.
*/
func (heightBalancer[T]) rebalance(tree *bsTree[T], x nodeID) {
	for ; x != nilID; x = tree.at(x).parent {
		tree.updateHeight(x)

		switch tree.storedBalance(x) {
		case -2:
			q := tree.at(x).right
			if /* hb2 */ tree.storedBalance(q) == 1 {
				tree.traceFixup("hb2")
				tree.rightRotate(q)
				tree.updateHeight(q)
				tree.updateHeight(tree.at(q).parent)
			} else /* hb1 */ {
				tree.traceFixup("hb1")
			}
			tree.leftRotate(x)
			tree.updateHeight(x)
			tree.updateHeight(tree.at(x).parent)
		case 2:
			p := tree.at(x).left
			if /* hb4 */ tree.storedBalance(p) == -1 {
				tree.traceFixup("hb4")
				tree.leftRotate(p)
				tree.updateHeight(p)
				tree.updateHeight(tree.at(p).parent)
			} else /* hb3 */ {
				tree.traceFixup("hb3")
			}
			tree.rightRotate(x)
			tree.updateHeight(x)
			tree.updateHeight(tree.at(x).parent)
		case -1, 0, 1:
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] height balance factor out of range")
		}
	}
}
