package tree

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// tree rule validation utilities.

// Validate walks the tree once in post-order and reports every rule
// that does not hold, combined into a single error.
func (tree *bsTree[T]) Validate() error {
	var errs error
	errs = multierr.Append(errs, tree.validateSize())
	errs = multierr.Append(errs, tree.validateOrder())
	if tree.root != nilID && tree.at(tree.root).parent != nilID {
		errs = multierr.Append(errs, fmt.Errorf("%w: root %v has a parent", ErrParentViolation, tree.at(tree.root).val))
	}

	heights := make([]int, len(tree.arena.nodes))
	blackHeights := make([]int, len(tree.arena.nodes))
	heightAt := func(x nodeID) int {
		if x == nilID {
			return -1
		}
		return heights[x]
	}
	blackHeightAt := func(x nodeID) int {
		if x == nilID {
			// NIL leaves are black.
			return 1
		}
		return blackHeights[x]
	}

	var parentErr, heightErr, colorErr, redErr, blackErr error
	tree.postOrder(func(_ int64, x nodeID) bool {
		xn := tree.at(x)
		for _, c := range [2]nodeID{xn.left, xn.right} {
			if c != nilID && tree.at(c).parent != x && parentErr == nil {
				parentErr = fmt.Errorf("%w: child %v of %v points elsewhere", ErrParentViolation, tree.at(c).val, xn.val)
			}
		}

		heights[x] = 1 + max(heightAt(xn.left), heightAt(xn.right))
		switch tree.bal.policy() {
		case HeightBalanced:
			if int(xn.height) != heights[x] && heightErr == nil {
				heightErr = fmt.Errorf("%w: node %v stores height %d, measured %d",
					ErrHeightViolation, xn.val, xn.height, heights[x])
			}
			if b := heightAt(xn.left) - heightAt(xn.right); (b < -1 || b > 1) && heightErr == nil {
				heightErr = fmt.Errorf("%w: node %v has balance %d", ErrHeightViolation, xn.val, b)
			}
		case ColorBalanced:
			if xn.color == Unset && colorErr == nil {
				colorErr = fmt.Errorf("%w: node %v has no color", ErrRedViolation, xn.val)
			}
			if xn.color == Red && (tree.isRed(xn.left) || tree.isRed(xn.right)) && redErr == nil {
				redErr = fmt.Errorf("%w: red node %v has a red child", ErrRedViolation, xn.val)
			}
			lbh, rbh := blackHeightAt(xn.left), blackHeightAt(xn.right)
			if lbh != rbh && blackErr == nil {
				blackErr = fmt.Errorf("%w: node %v has black heights %d and %d", ErrBlackViolation, xn.val, lbh, rbh)
			}
			blackHeights[x] = max(lbh, rbh)
			if xn.color != Red {
				blackHeights[x]++
			}
		default:
		}
		return true
	})
	if tree.bal.policy() == ColorBalanced && tree.root != nilID && tree.at(tree.root).color != Black {
		redErr = multierr.Append(redErr, fmt.Errorf("%w: root %v is not black", ErrRedViolation, tree.at(tree.root).val))
	}
	return multierr.Combine(errs, parentErr, heightErr, colorErr, redErr, blackErr)
}

func (tree *bsTree[T]) validateSize() error {
	reachable := int64(0)
	tree.inOrder(func(int64, nodeID) bool {
		reachable++
		return true
	})
	if reachable != tree.count || int64(tree.arena.inUse()) != tree.count {
		return fmt.Errorf("%w: len %d, reachable %d, allocated %d",
			ErrSizeViolation, tree.count, reachable, tree.arena.inUse())
	}
	return nil
}

// Equal values may end up on either side of each other once rotations
// happened, so the in-order sequence is only required to be non-decreasing.
func (tree *bsTree[T]) validateOrder() error {
	var (
		err  error
		prev nodeID
	)
	tree.inOrder(func(_ int64, x nodeID) bool {
		if prev != nilID && tree.cmp(tree.at(prev).val, tree.at(x).val) > 0 {
			err = fmt.Errorf("%w: %v comes before %v", ErrOrderViolation, tree.at(prev).val, tree.at(x).val)
			return false
		}
		prev = x
		return true
	})
	return err
}

func (tree *bsTree[T]) nodeString(x nodeID) string {
	xn := tree.at(x)
	switch tree.bal.policy() {
	case HeightBalanced:
		return fmt.Sprintf("%v %d/%d", xn.val, tree.storedHeight(x), tree.storedBalance(x))
	case ColorBalanced:
		if xn.color == Red {
			return fmt.Sprintf("R{%v}", xn.val)
		}
		return fmt.Sprintf("B{%v}", xn.val)
	default:
	}
	return fmt.Sprintf("%v", xn.val)
}

const (
	rail      = "│  "
	blank     = "   "
	leftEdge  = "├─›"
	lastLeft  = "└─›"
	lastRight = "└─»"
)

/*
String draws the tree top-down, left subtree first.

	5
	├─›3
	│  └─›1
	└─»8
*/
func (tree *bsTree[T]) String() string {
	if tree.root == nilID {
		return ""
	}

	type frame struct {
		x         nodeID
		prefix    string
		connector string
		childRail string
	}
	var sb strings.Builder
	stack := []frame{{x: tree.root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		sb.WriteString(f.prefix)
		sb.WriteString(f.connector)
		sb.WriteString(tree.nodeString(f.x))
		sb.WriteByte('\n')

		prefix := f.prefix + f.childRail
		xn := tree.at(f.x)
		switch {
		case xn.left != nilID && xn.right != nilID:
			stack = append(stack,
				frame{x: xn.right, prefix: prefix, connector: lastRight, childRail: blank},
				frame{x: xn.left, prefix: prefix, connector: leftEdge, childRail: rail},
			)
		case xn.left != nilID:
			stack = append(stack, frame{x: xn.left, prefix: prefix, connector: lastLeft, childRail: blank})
		case xn.right != nilID:
			stack = append(stack, frame{x: xn.right, prefix: prefix, connector: lastRight, childRail: blank})
		default:
		}
	}
	return sb.String()
}

// Equal reports whether both trees share the policy, the shape, the
// values and the balance metadata of every node.
func (tree *bsTree[T]) Equal(other OrderedTree[T]) bool {
	if other == nil {
		return false
	}
	if tree.Policy() != other.Policy() || tree.Len() != other.Len() {
		return false
	}
	r1, err1 := tree.Root()
	r2, err2 := other.Root()
	if err1 != nil || err2 != nil {
		return err1 != nil && err2 != nil
	}

	type pair struct{ a, b Node[T] }
	stack := []pair{{r1, r2}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !tree.sameNode(p.a, p.b) {
			return false
		}
		if p.a.HasLeft() {
			l1, _ := p.a.Left()
			l2, _ := p.b.Left()
			stack = append(stack, pair{l1, l2})
		}
		if p.a.HasRight() {
			r1, _ := p.a.Right()
			r2, _ := p.b.Right()
			stack = append(stack, pair{r1, r2})
		}
	}
	return true
}

func (tree *bsTree[T]) sameNode(a, b Node[T]) bool {
	if tree.cmp(a.Value(), b.Value()) != 0 ||
		a.HasLeft() != b.HasLeft() || a.HasRight() != b.HasRight() {
		return false
	}
	switch tree.bal.policy() {
	case HeightBalanced:
		return a.Height() == b.Height()
	case ColorBalanced:
		return a.Color() == b.Color()
	default:
	}
	return true
}
