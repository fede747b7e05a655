package tree

// References:
// https://elixir.bootlin.com/linux/latest/source/lib/rbtree.c
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// (Conclusion) If a node X has exactly one child, it must be a red child,
//   because if it were black, its NIL descendants would sit at a different
//   black depth than X's NIL child, violating p4.
// The longest path nodes' number is 2 * shortest path nodes' number.

type colorBalancer[T any] struct{}

func (colorBalancer[T]) policy() Policy {
	return ColorBalanced
}

func (colorBalancer[T]) initNode(n *node[T]) {
	n.color = Unset
}

func (tree *bsTree[T]) isRed(x nodeID) bool {
	return x != nilID && tree.at(x).color == Red
}

func (tree *bsTree[T]) isBlack(x nodeID) bool {
	return x == nilID || tree.at(x).color == Black
}

func (tree *bsTree[T]) paint(x nodeID, c Color) {
	if x == nilID {
		// impossible run to here
		panic( /* debug assertion */ "[tree] paint a nil leaf")
	}
	tree.at(x).color = c
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or NIL).

im1: Current node X has no parent, it is the root, repaint X into black.

im2: Current node X's parent P is black, hold p3 and p4.

im3: If both the parent P and the uncle U are red, grandpa G is black.
(red-violation)
After repainted G into red may be still red-violation.
Continue to fix grandpa.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im4: The parent P is red but the uncle U is black. (red-violation)
X is opposite direction to P. Rotate P to opposite direction.
After rotation may be still red-violation. Here must enter im5 to fix.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im5: Handle im4 scenario, current node is the same direction as parent.

	    [G]                 [P]                [P]
	    / \    repaint      / \    rotate(G)   / \
	  <P> [U]  ========>  <X> <G>  =======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (colorBalancer[T]) insertFixup(tree *bsTree[T], x nodeID) {
	tree.paint(x, Red)
	for {
		p := tree.at(x).parent
		if /* im1 */ p == nilID {
			tree.traceFixup("im1")
			tree.paint(x, Black)
			return
		}
		if /* im2 */ tree.isBlack(p) {
			return
		}

		// A red parent is never the root, the grandpa exists.
		g := tree.at(p).parent
		if /* im3 */ u := tree.sibling(p); tree.isRed(u) {
			tree.traceFixup("im3")
			tree.paint(p, Black)
			tree.paint(u, Black)
			tree.paint(g, Red)
			x = g
			continue
		}

		if dir := tree.direction(x); /* im4 */ dir != tree.direction(p) {
			tree.traceFixup("im4")
			switch dir {
			case Left:
				tree.rightRotate(p)
			case Right:
				tree.leftRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[tree] rbtree insert violate (im4)")
			}
			x, p = p, x // enter im5 to fix
		}

		/* im5 */
		tree.traceFixup("im5")
		tree.paint(p, Black)
		tree.paint(g, Red)
		switch tree.direction(x) {
		case Left:
			tree.rightRotate(g)
		case Right:
			tree.leftRotate(g)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] rbtree insert violate (im5)")
		}
		return
	}
}

/*
X is the node physically removed, it has at most one child. H is the
child lifted into its slot. A childless X gets a black sentinel leaf
as H, so the fix-up always has a concrete node to start from. The
sentinel is detached again before remove returns.

r1: X is black and H is red, repaint H into black.

r2: X is red, H is black, nothing to do.

r3: X and H are black, the path through H lost a black node
(double black). Enter the fix-up from H.
*/
func (b colorBalancer[T]) remove(tree *bsTree[T], x nodeID) {
	var sentinel nodeID
	if xn := tree.at(x); xn.left == nilID && xn.right == nilID {
		var zero T
		sentinel = tree.arena.alloc(zero)
		tree.at(sentinel).color = Black
		tree.at(sentinel).parent = x
		tree.at(x).left = sentinel
	}

	h, _ := tree.splice(x)
	xColor := tree.at(x).color
	tree.arena.release(x)

	switch {
	case /* r1 */ xColor == Black && tree.isRed(h):
		tree.traceFixup("r1")
		tree.paint(h, Black)
	case /* r2 */ xColor == Red:
	default /* r3 */ :
		b.removeFixup(tree, h)
	}

	if sentinel != nilID {
		tree.splice(sentinel)
		tree.arena.release(sentinel)
	}
}

/*
<X> is a RED node.
[X] is a BLACK node (or NIL).
{X} is either a RED node or a BLACK node.

Sc is the same direction to X and it X's sibling's child node.
Sd is the opposite direction to X and it X's sibling's child node.

rm0: Current node X has no parent, the whole tree lost one black node
on every path, stop.

rm1: Current node X's sibling S is red, so the parent P, nephew node Sc and Sd
must be black. (Otherwise, red-violation)
(1) Repaint S into black, P into red.
(2) X is left node of P, left rotate P.
(3) X is right node of P, right rotate P.
The sibling is black now, go on with rm2-rm5.

	  [P]               <P>                   [S]
	  / \    repaint    / \   l-rotate(P)     / \
	[X] <S>  ======>  [X] [S]  ==========>  <P> [Sd]
	    / \               / \               / \
	 [Sc] [Sd]         [Sc] [Sd]          [X] [Sc]

rm2: All of current node X's parent P, the sibling S, nephew node Sc and Sd
are black.
Paint the S into red to satisfy p4 locally. Then continue to handle P.

	  [P]             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm3: Current node X's parent P is red, the sibling S, nephew node Sc and Sd
are black.
Repaint S into red and P into black.

	  <P>             [P]
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sc] [Sd]       [Sc] [Sd]

rm4: Current node X's sibling S is black, nephew node Sc is red and Sd
is black. Ignore X's parent P's color (red or black is okay)
(1) Repaint S into red, Sc into black.
(2) If X is left node of P, right rotate S.
(3) If X is right node of P, left rotate S.
Enter into rm5 to fix.

	                                           {P}
	  {P}                {P}                   / \
	  / \     repaint    / \    r-rotate(S)  [X] [Sc]
	[X] [S]   ======>  [X] <S>  ==========>        \
	    / \                / \                     <S>
	  <Sc> [Sd]          [Sc] [Sd]                   \
	                                                 [Sd]

rm5: Current node X's sibling S is black, nephew node Sd is red.
Ignore X's parent P's color (red or black is okay)
(1) Paint S with P's color, P into black and Sd into black.
(2) If X is left node of P, left rotate P.
(3) If X is right node of P, right rotate P.

	  {P}                  [P]                     {S}
	  / \     repaint      / \     l-rotate(P)     / \
	[X] [S]   ======>    [X] {S}   ==========>   [P] [Sd]
	    / \                  / \                 / \
	 {Sc} <Sd>            {Sc} [Sd]            [X] {Sc}
*/
func (colorBalancer[T]) removeFixup(tree *bsTree[T], x nodeID) {
	for {
		p := tree.at(x).parent
		if /* rm0 */ p == nilID {
			return
		}

		dir := tree.direction(x)
		s := tree.sibling(x)
		if /* rm1 */ tree.isRed(s) {
			tree.traceFixup("rm1")
			tree.paint(s, Black)
			tree.paint(p, Red)
			switch dir {
			case Left:
				tree.leftRotate(p)
			case Right:
				tree.rightRotate(p)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[tree] rbtree remove violate (rm1)")
			}
			s = tree.sibling(x)
		}

		if s == nilID {
			// impossible run to here
			panic( /* debug assertion */ "[tree] rbtree remove double black node without sibling")
		}

		var sc, sd nodeID
		switch dir {
		case Left:
			sc, sd = tree.at(s).left, tree.at(s).right
		case Right:
			sc, sd = tree.at(s).right, tree.at(s).left
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] rbtree remove violate (rm2)")
		}

		if tree.isBlack(sc) && tree.isBlack(sd) {
			if /* rm2 */ tree.isBlack(p) {
				tree.traceFixup("rm2")
				tree.paint(s, Red)
				x = p
				continue
			}
			/* rm3 */
			tree.traceFixup("rm3")
			tree.paint(s, Red)
			tree.paint(p, Black)
			return
		}

		if /* rm4 */ tree.isBlack(sd) {
			tree.traceFixup("rm4")
			tree.paint(s, Red)
			tree.paint(sc, Black)
			switch dir {
			case Left:
				tree.rightRotate(s)
			case Right:
				tree.leftRotate(s)
			default:
				// impossible run to here
				panic( /* debug assertion */ "[tree] rbtree remove violate (rm4)")
			}
			s, sd = sc, s
		}

		/* rm5 */
		tree.traceFixup("rm5")
		tree.paint(s, tree.at(p).color)
		tree.paint(p, Black)
		tree.paint(sd, Black)
		switch dir {
		case Left:
			tree.leftRotate(p)
		case Right:
			tree.rightRotate(p)
		default:
			// impossible run to here
			panic( /* debug assertion */ "[tree] rbtree remove violate (rm5)")
		}
		return
	}
}
