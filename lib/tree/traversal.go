package tree

import (
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/stacks/arraystack"
)

// nodeStack and nodeQueue narrow the gods containers to node ids.
type nodeStack struct {
	*arraystack.Stack
}

func newNodeStack() nodeStack {
	return nodeStack{Stack: arraystack.New()}
}

func (s nodeStack) push(x nodeID) {
	s.Push(x)
}

func (s nodeStack) pop() nodeID {
	v, ok := s.Pop()
	if !ok {
		return nilID
	}
	return v.(nodeID)
}

func (s nodeStack) peek() nodeID {
	v, ok := s.Peek()
	if !ok {
		return nilID
	}
	return v.(nodeID)
}

type nodeQueue struct {
	*linkedlistqueue.Queue
}

func newNodeQueue() nodeQueue {
	return nodeQueue{Queue: linkedlistqueue.New()}
}

func (q nodeQueue) enqueue(x nodeID) {
	if x != nilID {
		q.Enqueue(x)
	}
}

func (q nodeQueue) dequeue() nodeID {
	v, ok := q.Dequeue()
	if !ok {
		return nilID
	}
	return v.(nodeID)
}

func (tree *bsTree[T]) PreOrder(visitor Visitor[T]) {
	if tree.root == nilID || visitor == nil {
		return
	}

	stack := newNodeStack()
	stack.push(tree.root)
	for idx := int64(0); !stack.Empty(); idx++ {
		x := stack.pop()
		if !visitor(idx, tree.ref(x)) {
			return
		}
		xn := tree.at(x)
		if xn.right != nilID {
			stack.push(xn.right)
		}
		if xn.left != nilID {
			stack.push(xn.left)
		}
	}
}

// Inorder traversal to implement the DFS.
func (tree *bsTree[T]) inOrder(fn func(idx int64, x nodeID) bool) {
	if tree.root == nilID {
		return
	}

	stack := newNodeStack()
	for aux := tree.root; aux != nilID; aux = tree.at(aux).left {
		stack.push(aux)
	}

	for idx := int64(0); !stack.Empty(); idx++ {
		x := stack.pop()
		if !fn(idx, x) {
			return
		}
		for aux := tree.at(x).right; aux != nilID; aux = tree.at(aux).left {
			stack.push(aux)
		}
	}
}

func (tree *bsTree[T]) InOrder(visitor Visitor[T]) {
	if visitor == nil {
		return
	}
	tree.inOrder(func(idx int64, x nodeID) bool {
		return visitor(idx, tree.ref(x))
	})
}

// postOrder hands every node over after both of its subtrees.
func (tree *bsTree[T]) postOrder(fn func(idx int64, x nodeID) bool) {
	if tree.root == nilID {
		return
	}

	stack := newNodeStack()
	var last nodeID
	idx := int64(0)
	for aux := tree.root; aux != nilID || !stack.Empty(); {
		if aux != nilID {
			stack.push(aux)
			aux = tree.at(aux).left
			continue
		}
		top := stack.peek()
		if r := tree.at(top).right; r != nilID && r != last {
			aux = r
			continue
		}
		if !fn(idx, top) {
			return
		}
		idx++
		last = stack.pop()
	}
}

func (tree *bsTree[T]) PostOrder(visitor Visitor[T]) {
	if visitor == nil {
		return
	}
	tree.postOrder(func(idx int64, x nodeID) bool {
		return visitor(idx, tree.ref(x))
	})
}

func (tree *bsTree[T]) Values() []T {
	values := make([]T, 0, tree.count)
	tree.inOrder(func(_ int64, x nodeID) bool {
		values = append(values, tree.at(x).val)
		return true
	})
	return values
}

var _ Iterator[int] = (*inOrderIterator[int])(nil) // Type check assertion

// inOrderIterator keeps the left spine of the unvisited part on a stack,
// so it yields values in ascending comparison order.
type inOrderIterator[T any] struct {
	tree  *bsTree[T]
	stack nodeStack
}

func (it *inOrderIterator[T]) pushLeftSpine(x nodeID) {
	for ; x != nilID; x = it.tree.at(x).left {
		it.stack.push(x)
	}
}

func (it *inOrderIterator[T]) HasNext() bool {
	return !it.stack.Empty()
}

func (it *inOrderIterator[T]) Next() (Node[T], bool) {
	if it.stack.Empty() {
		return nil, false
	}
	x := it.stack.pop()
	it.pushLeftSpine(it.tree.at(x).right)
	return it.tree.ref(x), true
}

func (it *inOrderIterator[T]) Reset() {
	it.stack.Clear()
	it.pushLeftSpine(it.tree.root)
}

func (tree *bsTree[T]) Iterator() Iterator[T] {
	it := &inOrderIterator[T]{
		tree:  tree,
		stack: newNodeStack(),
	}
	it.Reset()
	return it
}

var _ Iterator[int] = (*levelOrderIterator[int])(nil) // Type check assertion

type levelOrderIterator[T any] struct {
	tree  *bsTree[T]
	queue nodeQueue
}

func (it *levelOrderIterator[T]) HasNext() bool {
	return !it.queue.Empty()
}

func (it *levelOrderIterator[T]) Next() (Node[T], bool) {
	if it.queue.Empty() {
		return nil, false
	}
	x := it.queue.dequeue()
	xn := it.tree.at(x)
	it.queue.enqueue(xn.left)
	it.queue.enqueue(xn.right)
	return it.tree.ref(x), true
}

func (it *levelOrderIterator[T]) Reset() {
	it.queue.Clear()
	it.queue.enqueue(it.tree.root)
}

func (tree *bsTree[T]) LevelOrder() Iterator[T] {
	it := &levelOrderIterator[T]{
		tree:  tree,
		queue: newNodeQueue(),
	}
	it.Reset()
	return it
}

// heightOf is read from the nodes on a height balanced tree, other
// policies measure the subtree level by level.
func (tree *bsTree[T]) heightOf(x nodeID) int {
	if x == nilID {
		return -1
	}
	if tree.bal.policy() == HeightBalanced {
		return tree.storedHeight(x)
	}

	height := -1
	queue := newNodeQueue()
	queue.enqueue(x)
	for !queue.Empty() {
		height++
		for n := queue.Size(); n > 0; n-- {
			xn := tree.at(queue.dequeue())
			queue.enqueue(xn.left)
			queue.enqueue(xn.right)
		}
	}
	return height
}

func (tree *bsTree[T]) balanceOf(x nodeID) int {
	xn := tree.at(x)
	return tree.heightOf(xn.left) - tree.heightOf(xn.right)
}
