package tree

// nodeID addresses a slot of the arena, 0 is the absent node.
type nodeID uint32

const nilID nodeID = 0

// handle pins a slot to the allocation that produced it, a released
// and reused slot no longer matches older handles.
type handle struct {
	id  nodeID
	gen uint32
}

type node[T any] struct {
	val    T
	parent nodeID // relation only
	left   nodeID
	right  nodeID
	gen    uint32 // 0 marks a free slot
	height int32
	color  Color
}

type arena[T any] struct {
	nodes []node[T]
	free  []nodeID
	seq   uint32
}

func newArena[T any](capacity int) arena[T] {
	if capacity < 0 {
		capacity = 0
	}
	return arena[T]{
		// Slot 0 is never handed out.
		nodes: make([]node[T], 1, capacity+1),
	}
}

func (a *arena[T]) nextGen() uint32 {
	a.seq++
	if a.seq == 0 {
		a.seq++
	}
	return a.seq
}

// alloc may grow the backing slice, pointers returned by at
// before the call must not be used after it.
func (a *arena[T]) alloc(val T) nodeID {
	n := node[T]{
		val: val,
		gen: a.nextGen(),
	}
	if l := len(a.free); l > 0 {
		id := a.free[l-1]
		a.free = a.free[:l-1]
		a.nodes[id] = n
		return id
	}
	a.nodes = append(a.nodes, n)
	return nodeID(len(a.nodes) - 1)
}

func (a *arena[T]) release(id nodeID) {
	if id == nilID || a.nodes[id].gen == 0 {
		// impossible run to here
		panic( /* debug assertion */ "[tree] release an absent or free node")
	}
	a.nodes[id] = node[T]{}
	a.free = append(a.free, id)
}

func (a *arena[T]) at(id nodeID) *node[T] {
	return &a.nodes[id]
}

func (a *arena[T]) handleOf(id nodeID) handle {
	return handle{id: id, gen: a.nodes[id].gen}
}

func (a *arena[T]) live(h handle) bool {
	return h.id != nilID && int(h.id) < len(a.nodes) &&
		h.gen != 0 && a.nodes[h.id].gen == h.gen
}

func (a *arena[T]) inUse() int {
	return len(a.nodes) - 1 - len(a.free)
}

// reset drops every node but keeps the generation sequence, so handles
// taken before the reset stay stale.
func (a *arena[T]) reset() {
	clear(a.nodes)
	a.nodes = a.nodes[:1]
	a.free = a.free[:0]
}

func (a *arena[T]) clone() arena[T] {
	c := arena[T]{
		nodes: make([]node[T], len(a.nodes), cap(a.nodes)),
		free:  make([]nodeID, len(a.free)),
		seq:   a.seq,
	}
	copy(c.nodes, a.nodes)
	copy(c.free, a.free)
	return c
}
