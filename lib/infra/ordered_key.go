package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Integer is a constraint that permits any integer type.
type Integer interface {
	Signed | Unsigned
}

// Float is a constraint that permits any floating-point type.
type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
// Assume i is the new key.
//  1. i == j (return 0)
//  2. i > j (return 1), turn to right part.
//  3. i < j (return -1), turn to left part.
type OrderedKeyComparator[K any] func(i, j K) int

// CompareOrderedKey orders NaN before every other float and treats
// two NaNs as equal, so float keys still form a total order.
func CompareOrderedKey[K OrderedKey](i, j K) int {
	iNaN, jNaN := i != i, j != j
	switch {
	case iNaN && jNaN:
		return 0
	case iNaN:
		return -1
	case jNaN:
		return 1
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

// ReverseComparator flips the sort order of cmp.
func ReverseComparator[K any](cmp OrderedKeyComparator[K]) OrderedKeyComparator[K] {
	return func(i, j K) int {
		return cmp(j, i)
	}
}
