package tree

import (
	"math"
	randv2 "math/rand/v2"
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type checkData struct {
	color Color
	key   int
}

func requireColors(t *testing.T, tree OrderedTree[int], expected []checkData) {
	t.Helper()
	require.Equal(t, int64(len(expected)), tree.Len())
	tree.InOrder(func(idx int64, node Node[int]) bool {
		require.Equal(t, expected[idx].color, node.Color())
		require.Equal(t, expected[idx].key, node.Value())
		return true
	})
	require.NoError(t, RedViolationValidate[int](tree))
	require.NoError(t, BlackViolationValidate[int](tree))
	require.NoError(t, tree.Validate())
}

func TestRBTree_ThreeAscending(t *testing.T) {
	tree := NewTreeFrom[int](ColorBalanced, []int{10, 20, 30})
	root, err := tree.Root()
	require.NoError(t, err)
	require.Equal(t, 20, root.Value())
	require.Equal(t, Black, root.Color())
	requireColors(t, tree, []checkData{{Red, 10}, {Black, 20}, {Red, 30}})
}

func TestRBTreeInsertAndRemove_Pred(t *testing.T) {
	tree := NewRBTree[int]()

	steps := []struct {
		insert   int
		expected []checkData
	}{
		{52, []checkData{{Black, 52}}},
		{47, []checkData{{Red, 47}, {Black, 52}}},
		{3, []checkData{{Red, 3}, {Black, 47}, {Red, 52}}},
		{35, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}}},
		{24, []checkData{{Red, 3}, {Black, 24}, {Red, 35}, {Black, 47}, {Black, 52}}},
	}
	for _, step := range steps {
		_, err := tree.Insert(step.insert)
		require.NoError(t, err)
		requireColors(t, tree, step.expected)
	}

	removals := []struct {
		remove   int
		expected []checkData
	}{
		{24, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}}},
		{47, []checkData{{Black, 3}, {Black, 35}, {Black, 52}}},
		{52, []checkData{{Red, 3}, {Black, 35}}},
		{3, []checkData{{Black, 35}}},
		{35, []checkData{}},
	}
	for _, step := range removals {
		require.True(t, tree.Delete(step.remove))
		requireColors(t, tree, step.expected)
	}
	require.True(t, tree.IsEmpty())
}

func TestRBTree_RedPredecessorSkipsFixup(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tree := NewTreeFrom[int](ColorBalanced, []int{52, 47, 3, 35}, WithTreeLogger[int](zap.New(core)))
	requireColors(t, tree, []checkData{{Black, 3}, {Red, 35}, {Black, 47}, {Black, 52}})

	// 47 borrows the red leaf 35, dropping a red node keeps every path intact.
	before := logs.Len()
	require.True(t, tree.Delete(47))
	require.Equal(t, before, logs.Len())
	requireColors(t, tree, []checkData{{Black, 3}, {Black, 35}, {Black, 52}})

	// A black leaf leaves a double black behind.
	require.True(t, tree.Delete(52))
	require.Equal(t, 1, logs.FilterMessage("[tree] rebalance").FilterField(zap.String("case", "rm2")).Len())
	requireColors(t, tree, []checkData{{Red, 3}, {Black, 35}})
}

func TestRBTree_LogRotations(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tree := NewTreeFrom[int](ColorBalanced, []int{10, 20, 30},
		WithTreeLogger[int](zap.New(core)),
		WithTreeName[int]("logged"),
	)
	require.Equal(t, int64(3), tree.Len())

	rotations := logs.FilterMessage("[tree] rotate").AllUntimed()
	require.Len(t, rotations, 1)
	require.Equal(t, "xtree", rotations[0].LoggerName)
	fields := rotations[0].ContextMap()
	require.Equal(t, "logged", fields["tree"])
	require.Equal(t, "Left", fields["direction"])
	require.Equal(t, "ColorBalanced", fields["policy"])
	require.EqualValues(t, 10, fields["pivot"])

	require.Equal(t, 1, logs.FilterField(zap.String("case", "im1")).Len())
	require.Equal(t, 1, logs.FilterField(zap.String("case", "im5")).Len())
	require.Equal(t, 0, logs.FilterField(zap.String("case", "im3")).Len())
}

func rbHeightBound(n int64) int {
	return int(2 * math.Log2(float64(n+1)))
}

func TestRBTree_RandomInsertAndDelete(t *testing.T) {
	type testcase struct {
		name  string
		total int
		space int
	}
	testcases := []testcase{
		{name: "dense duplicates", total: 2000, space: 64},
		{name: "sparse", total: 2000, space: 1 << 30},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := NewRBTree[int]()
			values := lo.Times(tc.total, func(int) int {
				return randv2.IntN(tc.space)
			})
			for i, v := range values {
				_, err := tree.Insert(v)
				require.NoError(tt, err)
				require.LessOrEqual(tt, tree.Height()+1, rbHeightBound(tree.Len()))
				if i%50 == 0 {
					require.NoError(tt, tree.Validate())
				}
			}
			require.NoError(tt, RedViolationValidate[int](tree))
			require.NoError(tt, BlackViolationValidate[int](tree))

			for i, v := range lo.Shuffle(values) {
				require.True(tt, tree.Delete(v))
				if !tree.IsEmpty() {
					require.LessOrEqual(tt, tree.Height()+1, rbHeightBound(tree.Len()))
				}
				if i%50 == 0 {
					require.NoError(tt, tree.Validate())
					require.NoError(tt, BlackViolationValidate[int](tree))
				}
			}
			require.True(tt, tree.IsEmpty())
			require.NoError(tt, tree.Validate())
		})
	}
}

func TestRBTreeRandomInsertAndRemove_ReverseSequentialNumber(t *testing.T) {
	total := 5000
	tree := NewRBTree[int](WithTreeDesc[int]())
	for i := total - 1; i >= 0; i-- {
		_, err := tree.Insert(i)
		require.NoError(t, err)
	}
	require.NoError(t, tree.Validate())

	for i := 0; i < total; i += 2 {
		require.True(t, tree.Delete(i))
	}
	require.NoError(t, tree.Validate())
	tree.InOrder(func(idx int64, node Node[int]) bool {
		require.Equal(t, total-1-2*int(idx), node.Value())
		return true
	})
}

func TestRBTree_AgainstGodsRBTree(t *testing.T) {
	tree := NewRBTree[int]()
	oracle := redblacktree.NewWith(utils.IntComparator)

	keys := randv2.Perm(3000)
	for _, k := range keys {
		_, err := tree.Insert(k)
		require.NoError(t, err)
		oracle.Put(k, struct{}{})
	}
	for _, k := range lo.Shuffle(keys)[:2000] {
		require.True(t, tree.Delete(k))
		oracle.Remove(k)
	}

	expected := lo.Map(oracle.Keys(), func(k interface{}, _ int) int {
		return k.(int)
	})
	require.Equal(t, expected, tree.Values())
	require.Equal(t, int64(oracle.Size()), tree.Len())

	minNode, err := tree.Min()
	require.NoError(t, err)
	require.Equal(t, oracle.Left().Key, minNode.Value())
	maxNode, err := tree.Max()
	require.NoError(t, err)
	require.Equal(t, oracle.Right().Key, maxNode.Value())
	require.NoError(t, tree.Validate())
}

func TestRBTree_ValidateDetectsViolation(t *testing.T) {
	tree := NewTreeFrom[int](ColorBalanced, []int{10, 20, 30})
	bst := tree.(*bsTree[int])
	bst.at(bst.root).color = Red

	err := tree.Validate()
	require.ErrorIs(t, err, ErrRedViolation)
	require.NotErrorIs(t, err, ErrBlackViolation)
	require.Len(t, multierr.Errors(err), 2)
	require.Error(t, RedViolationValidate[int](tree))

	bst.at(bst.root).color = Black
	l := bst.at(bst.root).left
	bst.at(l).color = Black
	err = tree.Validate()
	require.NoError(t, RedViolationValidate[int](tree))
	require.ErrorIs(t, err, ErrBlackViolation)
	require.Error(t, BlackViolationValidate[int](tree))
}

func TestRBTree_ViolationValidateOtherPolicies(t *testing.T) {
	for _, policy := range []Policy{Unbalanced, HeightBalanced} {
		tree := NewTreeFrom[int](policy, []int{3, 1, 2})
		require.NoError(t, RedViolationValidate[int](tree))
		require.NoError(t, BlackViolationValidate[int](tree))
	}
	require.NoError(t, RedViolationValidate[int](nil))
	require.NoError(t, BlackViolationValidate[int](NewRBTree[int]()))
}
