package tree

import (
	"cmp"
	"errors"
	randv2 "math/rand/v2"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var allPolicies = []Policy{Unbalanced, HeightBalanced, ColorBalanced}

func preOrderValues[T any](tree OrderedTree[T]) []T {
	values := make([]T, 0, tree.Len())
	tree.PreOrder(func(idx int64, node Node[T]) bool {
		values = append(values, node.Value())
		return true
	})
	return values
}

func TestOrderedTree_InsertTieBreakLeft(t *testing.T) {
	tree := NewOrderedTree[int]()
	for _, v := range []int{5, 3, 8} {
		_, err := tree.Insert(v)
		require.NoError(t, err)
	}

	dup, err := tree.Insert(5)
	require.NoError(t, err)
	require.Equal(t, 5, dup.Value())
	require.Equal(t, Right, dup.Direction())
	p, err := dup.Parent()
	require.NoError(t, err)
	require.Equal(t, 3, p.Value())

	require.Equal(t, []int{3, 5, 5, 8}, tree.Values())
	require.Equal(t, int64(4), tree.Len())
	require.NoError(t, tree.Validate())
}

func TestOrderedTree_SearchAndDelete(t *testing.T) {
	tree := NewTreeFrom[int](Unbalanced, []int{50, 30, 70, 20, 40, 60, 80})
	require.Equal(t, int64(7), tree.Len())

	node, ok := tree.Search(40)
	require.True(t, ok)
	require.Equal(t, 40, node.Value())
	_, ok = tree.Search(45)
	require.False(t, ok)

	// Absent value is a no-op.
	require.False(t, tree.Delete(99))
	require.Equal(t, int64(7), tree.Len())

	// Two children, the predecessor 40 moves up into the root slot.
	root, err := tree.Root()
	require.NoError(t, err)
	require.True(t, tree.Delete(50))
	require.Equal(t, 40, root.Value())
	require.False(t, root.HasParent())
	l, err := root.Left()
	require.NoError(t, err)
	require.Equal(t, 30, l.Value())
	require.False(t, l.HasRight())
	require.Equal(t, []int{20, 30, 40, 60, 70, 80}, tree.Values())
	require.NoError(t, tree.Validate())

	require.True(t, tree.Delete(70))
	require.Equal(t, []int{40, 30, 20, 60, 80}, preOrderValues(tree))

	// One child, the child takes the slot.
	require.True(t, tree.Delete(30))
	require.Equal(t, []int{40, 20, 60, 80}, preOrderValues(tree))
	node, ok = tree.Search(20)
	require.True(t, ok)
	p, err := node.Parent()
	require.NoError(t, err)
	require.Equal(t, 40, p.Value())
	require.Equal(t, Left, node.Direction())
	require.NoError(t, tree.Validate())

	// Leaf.
	require.True(t, tree.Delete(80))
	require.Equal(t, []int{20, 40, 60}, tree.Values())
	require.Equal(t, int64(3), tree.Len())
	require.NoError(t, tree.Validate())
}

func TestOrderedTree_DeleteRootWithSingleChild(t *testing.T) {
	tree := NewTreeFrom[int](Unbalanced, []int{1, 2, 3})
	require.True(t, tree.Delete(1))
	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, 2, root.Value())
	require.False(t, root.HasParent())
	require.Equal(t, 1, tree.Height())

	require.True(t, tree.Delete(2))
	require.True(t, tree.Delete(3))
	require.True(t, tree.IsEmpty())
	require.NoError(t, tree.Validate())
}

func TestOrderedTree_RotateRoundTrip(t *testing.T) {
	tree := NewTreeFrom[int](Unbalanced, []int{50, 30, 70, 20, 40})
	origin := tree.Clone()
	root, err := tree.Root()
	require.NoError(t, err)

	require.NoError(t, tree.RotateRight(root))
	require.Equal(t, []int{30, 20, 50, 40, 70}, preOrderValues(tree))
	newRoot, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, 30, newRoot.Value())
	require.False(t, newRoot.HasParent())
	// 40 crossed over from 30 to 50.
	n40, ok := tree.Search(40)
	require.True(t, ok)
	p, err := n40.Parent()
	require.NoError(t, err)
	require.Equal(t, 50, p.Value())
	require.Equal(t, Left, n40.Direction())
	// The pivot is still addressed by its handle.
	require.Equal(t, 50, root.Value())
	require.Equal(t, Right, root.Direction())
	require.NoError(t, tree.Validate())
	require.False(t, tree.Equal(origin))

	require.NoError(t, tree.RotateLeft(newRoot))
	require.Equal(t, []int{50, 30, 20, 40, 70}, preOrderValues(tree))
	require.True(t, tree.Equal(origin))
	require.NoError(t, tree.Validate())
}

func TestOrderedTree_RotateWithoutChild(t *testing.T) {
	tree := NewTreeFrom[int](Unbalanced, []int{2, 1})
	origin := tree.Clone()
	leaf, ok := tree.Search(1)
	require.True(t, ok)

	rotator, err := tree.Rotator()
	require.NoError(t, err)
	require.NoError(t, rotator.RotateLeft(leaf))
	require.NoError(t, rotator.RotateRight(leaf))
	require.True(t, tree.Equal(origin))

	root, err := tree.Root()
	require.NoError(t, err)
	require.NoError(t, rotator.RotateLeft(root))
	require.True(t, tree.Equal(origin))
}

func TestOrderedTree_RotationForbidden(t *testing.T) {
	for _, policy := range []Policy{HeightBalanced, ColorBalanced} {
		t.Run(policy.String(), func(tt *testing.T) {
			tree := NewTreeFrom[int](policy, []int{1, 2, 3})
			origin := tree.Clone()

			rotator, err := tree.Rotator()
			require.Nil(tt, rotator)
			require.ErrorIs(tt, err, ErrRotationForbidden)
			require.ErrorIs(tt, err, ErrInvalidArgument)
			require.ErrorIs(tt, err, errors.ErrUnsupported)

			root, err := tree.Root()
			require.NoError(tt, err)
			require.ErrorIs(tt, tree.RotateLeft(root), ErrRotationForbidden)
			require.ErrorIs(tt, tree.RotateRight(root), ErrRotationForbidden)
			require.True(tt, tree.Equal(origin))
		})
	}
}

func TestOrderedTree_NilValue(t *testing.T) {
	cmpPtr := func(i, j *int) int {
		return cmp.Compare(*i, *j)
	}
	for _, policy := range allPolicies {
		t.Run(policy.String(), func(tt *testing.T) {
			tree := NewTreeFunc[*int](policy, cmpPtr)
			node, err := tree.Insert(nil)
			require.Nil(tt, node)
			require.ErrorIs(tt, err, ErrNilValue)
			require.ErrorIs(tt, err, ErrInvalidArgument)
			require.Equal(tt, int64(0), tree.Len())

			_, ok := tree.Search(nil)
			require.False(tt, ok)
			require.False(tt, tree.Delete(nil))

			node, err = tree.Insert(lo.ToPtr(1))
			require.NoError(tt, err)
			require.Equal(tt, 1, *node.Value())

			_, err = NewTreeFuncFrom[*int](policy, cmpPtr, []*int{lo.ToPtr(2), nil})
			require.ErrorIs(tt, err, ErrNilValue)
		})
	}
}

func TestOrderedTree_Empty(t *testing.T) {
	for _, policy := range allPolicies {
		t.Run(policy.String(), func(tt *testing.T) {
			tree := NewTree[int](policy)
			require.True(tt, tree.IsEmpty())
			require.Equal(tt, int64(0), tree.Len())
			require.Equal(tt, -1, tree.Height())
			require.Empty(tt, tree.Values())
			require.Equal(tt, "", tree.String())
			require.NoError(tt, tree.Validate())
			require.False(tt, tree.Delete(1))

			_, err := tree.Root()
			require.ErrorIs(tt, err, ErrNotFound)
			_, err = tree.Min()
			require.ErrorIs(tt, err, ErrNotFound)
			_, err = tree.Max()
			require.ErrorIs(tt, err, ErrNotFound)
		})
	}
}

func TestOrderedTree_NodeView(t *testing.T) {
	tree := NewTreeFrom[int](Unbalanced, []int{5, 3, 8, 1})
	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, Root, root.Direction())
	require.Equal(t, 0, root.Depth())
	require.Equal(t, 2, root.Height())
	require.Equal(t, 1, root.Balance())
	require.Equal(t, Unset, root.Color())
	_, err = root.Parent()
	require.ErrorIs(t, err, ErrNotFound)

	one, ok := tree.Search(1)
	require.True(t, ok)
	require.Equal(t, 2, one.Depth())
	require.Equal(t, 0, one.Height())
	require.Equal(t, Left, one.Direction())
	require.False(t, one.HasLeft())
	require.False(t, one.HasRight())
	_, err = one.Left()
	require.ErrorIs(t, err, ErrNotFound)
	_, err = one.Right()
	require.ErrorIs(t, err, ErrNotFound)

	minNode, err := tree.Min()
	require.NoError(t, err)
	require.Equal(t, 1, minNode.Value())
	maxNode, err := tree.Max()
	require.NoError(t, err)
	require.Equal(t, 8, maxNode.Value())
}

func TestOrderedTree_Height(t *testing.T) {
	tree := NewTreeFrom[int](Unbalanced, []int{1, 2, 3, 4, 5})
	require.Equal(t, 4, tree.Height())
	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, -4, root.Balance())

	single := NewTreeFrom[int](Unbalanced, []int{1})
	require.Equal(t, 0, single.Height())
}

func TestOrderedTree_StaleAndForeignNode(t *testing.T) {
	tree := NewOrderedTree[int]()
	node, err := tree.Insert(7)
	require.NoError(t, err)
	require.True(t, tree.Delete(7))

	_, err = node.Left()
	require.ErrorIs(t, err, ErrStaleNode)
	require.ErrorIs(t, err, ErrInvalidArgument)
	require.Equal(t, "<stale>", node.String())
	require.ErrorIs(t, tree.RotateLeft(node), ErrStaleNode)
	require.Panics(t, func() {
		_ = node.Value()
	})

	// The slot is reused by the next insertion, the old handle stays stale.
	fresh, err := tree.Insert(9)
	require.NoError(t, err)
	require.Equal(t, 9, fresh.Value())
	_, err = node.Parent()
	require.ErrorIs(t, err, ErrStaleNode)

	tree.Clear()
	require.True(t, tree.IsEmpty())
	_, err = fresh.Right()
	require.ErrorIs(t, err, ErrStaleNode)

	other := NewTreeFrom[int](Unbalanced, []int{1})
	foreign, err := other.Root()
	require.NoError(t, err)
	_, err = tree.Insert(1)
	require.NoError(t, err)
	require.ErrorIs(t, tree.RotateLeft(foreign), ErrForeignNode)
	require.ErrorIs(t, tree.RotateRight(nil), ErrNilNode)
}

func TestOrderedTree_StalePredecessorAfterDelete(t *testing.T) {
	for _, policy := range allPolicies {
		t.Run(policy.String(), func(tt *testing.T) {
			tree := NewTreeFrom[int](policy, []int{5, 3, 8})
			pred, err := tree.Insert(4)
			require.NoError(tt, err)
			require.True(tt, pred.HasParent())

			// 5 has two children, its node takes 4 and the node of 4 goes away.
			require.True(tt, tree.Delete(5))
			require.Equal(tt, []int{3, 4, 8}, tree.Values())
			require.NoError(tt, tree.Validate())

			require.False(tt, pred.HasParent())
			require.False(tt, pred.HasLeft())
			require.False(tt, pred.HasRight())
			_, err = pred.Parent()
			require.ErrorIs(tt, err, ErrStaleNode)
			require.Equal(tt, "<stale>", pred.String())
			for _, fn := range []func(){
				func() { _ = pred.Value() },
				func() { _ = pred.Height() },
				func() { _ = pred.Balance() },
				func() { _ = pred.Color() },
				func() { _ = pred.Depth() },
				func() { _ = pred.Direction() },
			} {
				require.Panics(tt, fn)
			}

			node, ok := tree.Search(4)
			require.True(tt, ok)
			require.Equal(tt, 4, node.Value())
		})
	}
}

func TestOrderedTree_CloneAndEqual(t *testing.T) {
	for _, policy := range allPolicies {
		t.Run(policy.String(), func(tt *testing.T) {
			tree := NewTreeFrom[int](policy, []int{4, 2, 6, 1, 3, 5, 7})
			clone := tree.Clone()
			require.True(tt, tree.Equal(clone))
			require.True(tt, clone.Equal(tree))
			require.NoError(tt, clone.Validate())

			_, err := clone.Insert(8)
			require.NoError(tt, err)
			require.False(tt, tree.Equal(clone))
			require.Equal(tt, int64(7), tree.Len())
			require.Equal(tt, int64(8), clone.Len())

			require.True(tt, tree.Delete(4))
			require.True(tt, clone.Contains(4))
			require.False(tt, tree.Contains(4))

			require.False(tt, tree.Equal(nil))
			require.True(tt, NewTree[int](policy).Equal(NewTree[int](policy)))
		})
	}
	require.False(t, NewTreeFrom[int](Unbalanced, []int{1}).Equal(NewTreeFrom[int](ColorBalanced, []int{1})))
}

func TestOrderedTree_Desc(t *testing.T) {
	for _, policy := range allPolicies {
		t.Run(policy.String(), func(tt *testing.T) {
			tree := NewTreeFrom[int](policy, []int{3, 1, 4, 1, 5, 9, 2, 6}, WithTreeDesc[int]())
			require.Equal(tt, []int{9, 6, 5, 4, 3, 2, 1, 1}, tree.Values())
			require.NoError(tt, tree.Validate())
			maxNode, err := tree.Max()
			require.NoError(tt, err)
			require.Equal(tt, 1, maxNode.Value())
		})
	}
}

func TestOrderedTree_String(t *testing.T) {
	testcases := []struct {
		name     string
		policy   Policy
		values   []int
		expected string
	}{
		{
			name:     "unbalanced",
			policy:   Unbalanced,
			values:   []int{5, 3, 8, 1},
			expected: "5\n├─›3\n│  └─›1\n└─»8\n",
		},
		{
			name:     "unbalanced right spine",
			policy:   Unbalanced,
			values:   []int{1, 2, 3},
			expected: "1\n└─»2\n   └─»3\n",
		},
		{
			name:     "height balanced",
			policy:   HeightBalanced,
			values:   []int{2, 1, 3},
			expected: "2 1/0\n├─›1 0/0\n└─»3 0/0\n",
		},
		{
			name:     "color balanced",
			policy:   ColorBalanced,
			values:   []int{10, 20, 30},
			expected: "B{20}\n├─›R{10}\n└─»R{30}\n",
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewTreeFrom[int](tc.policy, tc.values)
			require.Equal(tt, tc.expected, tree.String())
		})
	}

	tree := NewTreeFrom[int](ColorBalanced, []int{10})
	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, "B{10}", root.String())
}

func TestOrderedTree_RandomMembership(t *testing.T) {
	for _, policy := range allPolicies {
		t.Run(policy.String(), func(tt *testing.T) {
			values := lo.Times(500, func(int) int {
				return randv2.IntN(200)
			})
			tree := NewTreeFrom[int](policy, values, WithTreeName[int]("membership"))
			require.Equal(tt, int64(len(values)), tree.Len())
			require.NoError(tt, tree.Validate())
			for _, v := range values {
				require.True(tt, tree.Contains(v))
				// Search does not mutate.
				n1, ok1 := tree.Search(v)
				n2, ok2 := tree.Search(v)
				require.Equal(tt, ok1, ok2)
				require.Equal(tt, n1.Value(), n2.Value())
			}

			for i, v := range lo.Shuffle(values) {
				require.True(tt, tree.Delete(v))
				require.Equal(tt, int64(len(values)-i-1), tree.Len())
				if i%25 == 0 {
					require.NoError(tt, tree.Validate())
				}
			}
			require.True(tt, tree.IsEmpty())
			require.NoError(tt, tree.Validate())
		})
	}
}

func TestOrderedTree_Clear(t *testing.T) {
	for _, policy := range allPolicies {
		t.Run(policy.String(), func(tt *testing.T) {
			tree := NewTreeFrom[int](policy, []int{3, 2, 1})
			tree.Clear()
			require.True(tt, tree.IsEmpty())
			require.Equal(tt, int64(0), tree.Len())
			require.Equal(tt, -1, tree.Height())
			require.NoError(tt, tree.Validate())

			_, err := tree.Insert(1)
			require.NoError(tt, err)
			require.Equal(tt, []int{1}, tree.Values())
			require.NoError(tt, tree.Validate())
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for in, expected := range map[string]Policy{
		"bst":            Unbalanced,
		"AVL":            HeightBalanced,
		"rb":             ColorBalanced,
		"ColorBalanced":  ColorBalanced,
		"heightbalanced": HeightBalanced,
	} {
		p, err := ParsePolicy(in)
		require.NoError(t, err)
		require.Equal(t, expected, p)
	}
	_, err := ParsePolicy("splay")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewTreeFunc_Panics(t *testing.T) {
	require.Panics(t, func() {
		NewTreeFunc[int](Unbalanced, nil)
	})
	require.Panics(t, func() {
		NewTree[int](Policy(42))
	})
}
