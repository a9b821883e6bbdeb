// Package arena provides a doubly linked list whose elements live in a flat,
// reusable buffer. Every element is named by an Address that stays valid
// until that element is removed, no matter what happens elsewhere in the list.
package arena

import (
	"fmt"
	"hash/maphash"
	"iter"

	"fortio.org/safecast"
)

// Address names an element of a List. The zero value names nothing.
//
// Addresses are storage slots shifted by one: a removed slot goes to the free
// chain and the next insertion may hand the same Address out again.
type Address uint32

// NoAddress marks the absence of an element.
const NoAddress Address = 0

// IsValid reports whether a is not NoAddress. It says nothing about
// whether a names a live element of a particular list.
func (a Address) IsValid() bool { return a != NoAddress }

// Precedes reports whether the element at a comes before the element at b in l.
// The scan walks forward from a.
func Precedes[T any](l *List[T], a, b Address) bool {
	if a == b {
		return false
	}
	cur := a
	for {
		next, ok := l.AddressAfter(cur)
		if !ok {
			return false
		}
		if next == b {
			return true
		}
		cur = next
	}
}

// bucket is one storage slot. When used, prev/next link the logical chain.
// When free, next links the free chain and prev is meaningless.
type bucket[T any] struct {
	prev int
	next int
	used bool
	elem T
}

// List is a doubly linked list backed by a growable slice of buckets.
// The zero value is an empty list ready to use.
type List[T any] struct {
	count   int
	head    int
	tail    int
	free    int
	buckets []bucket[T]
}

// From builds a list holding elems in order.
func From[T any](elems ...T) *List[T] {
	l := &List[T]{}
	l.Reserve(len(elems))
	for _, e := range elems {
		l.Append(e)
	}
	return l
}

// Len returns the number of elements.
func (l *List[T]) Len() int { return l.count }

// Cap returns how many elements fit without growing the buffer.
func (l *List[T]) Cap() int { return cap(l.buckets) }

// Reserve grows the buffer so that n elements fit without reallocating.
func (l *List[T]) Reserve(n int) {
	if n <= cap(l.buckets) {
		return
	}
	grown := make([]bucket[T], len(l.buckets), n)
	copy(grown, l.buckets)
	l.buckets = grown
}

// First returns the address of the first element.
func (l *List[T]) First() (Address, bool) {
	if l.count == 0 {
		return NoAddress, false
	}
	return addressOf(l.head), true
}

// Last returns the address of the last element.
func (l *List[T]) Last() (Address, bool) {
	if l.count == 0 {
		return NoAddress, false
	}
	return addressOf(l.tail), true
}

// FirstWhere returns the address of the first element satisfying pred.
func (l *List[T]) FirstWhere(pred func(T) bool) (Address, bool) {
	for a, e := range l.All() {
		if pred(e) {
			return a, true
		}
	}
	return NoAddress, false
}

// LastWhere returns the address of the last element satisfying pred.
func (l *List[T]) LastWhere(pred func(T) bool) (Address, bool) {
	for a, e := range l.Backward() {
		if pred(e) {
			return a, true
		}
	}
	return NoAddress, false
}

// AddressAfter returns the address of the element following the one at a.
func (l *List[T]) AddressAfter(a Address) (Address, bool) {
	off := l.offset(a)
	if off == l.tail {
		return NoAddress, false
	}
	return addressOf(l.buckets[off].next), true
}

// AddressBefore returns the address of the element preceding the one at a.
func (l *List[T]) AddressBefore(a Address) (Address, bool) {
	off := l.offset(a)
	if off == l.head {
		return NoAddress, false
	}
	return addressOf(l.buckets[off].prev), true
}

// Contains reports whether a names a live element of l.
func (l *List[T]) Contains(a Address) bool {
	off := int(a) - 1
	return off >= 0 && off < len(l.buckets) && l.buckets[off].used
}

// At returns the element at a.
func (l *List[T]) At(a Address) T {
	return l.buckets[l.offset(a)].elem
}

// Ref returns a pointer to the element at a. The pointer is invalidated by
// the next insertion, which may move the buffer.
func (l *List[T]) Ref(a Address) *T {
	return &l.buckets[l.offset(a)].elem
}

// Set replaces the element at a.
func (l *List[T]) Set(a Address, e T) {
	l.buckets[l.offset(a)].elem = e
}

// Append inserts e at the end of the list and returns its address.
func (l *List[T]) Append(e T) Address {
	if l.count == 0 {
		return l.insertFirst(e)
	}
	return l.InsertAfter(e, addressOf(l.tail))
}

// Prepend inserts e at the start of the list and returns its address.
func (l *List[T]) Prepend(e T) Address {
	if l.count == 0 {
		return l.insertFirst(e)
	}
	return l.InsertBefore(e, addressOf(l.head))
}

// InsertAfter inserts e right after the element at a and returns its address.
func (l *List[T]) InsertAfter(e T, a Address) Address {
	off := l.offset(a)
	next := l.buckets[off].next
	n := l.alloc(e, off, next)
	if off == l.tail {
		l.tail = n
	} else {
		l.buckets[next].prev = n
	}
	l.buckets[off].next = n
	l.count++
	return addressOf(n)
}

// InsertBefore inserts e right before the element at a and returns its address.
func (l *List[T]) InsertBefore(e T, a Address) Address {
	off := l.offset(a)
	prev := l.buckets[off].prev
	n := l.alloc(e, prev, off)
	if off == l.head {
		l.head = n
	} else {
		l.buckets[prev].next = n
	}
	l.buckets[off].prev = n
	l.count++
	return addressOf(n)
}

// Remove unlinks the element at a and returns it. The slot joins the free
// chain and a may be handed out again by a later insertion.
func (l *List[T]) Remove(a Address) T {
	off := l.offset(a)
	b := l.buckets[off]
	if off == l.head {
		l.head = b.next
	} else {
		l.buckets[b.prev].next = b.next
	}
	if off == l.tail {
		l.tail = b.prev
	} else {
		l.buckets[b.next].prev = b.prev
	}
	l.buckets[off] = bucket[T]{prev: -1, next: l.free}
	l.free = off
	l.count--
	if l.count == 0 {
		l.head, l.tail = -1, -1
	}
	return b.elem
}

// All iterates over the elements in list order. The list must not be
// mutated during iteration.
func (l *List[T]) All() iter.Seq2[Address, T] {
	return func(yield func(Address, T) bool) {
		if l.count == 0 {
			return
		}
		off := l.head
		for range l.count {
			b := l.buckets[off]
			if !yield(addressOf(off), b.elem) {
				return
			}
			off = b.next
		}
	}
}

// Backward iterates over the elements in reverse list order.
func (l *List[T]) Backward() iter.Seq2[Address, T] {
	return func(yield func(Address, T) bool) {
		if l.count == 0 {
			return
		}
		off := l.tail
		for range l.count {
			b := l.buckets[off]
			if !yield(addressOf(off), b.elem) {
				return
			}
			off = b.prev
		}
	}
}

// Addresses returns the addresses of all elements in list order.
func (l *List[T]) Addresses() []Address {
	out := make([]Address, 0, l.count)
	for a := range l.All() {
		out = append(out, a)
	}
	return out
}

// Elements returns a copy of the elements in list order.
func (l *List[T]) Elements() []T {
	out := make([]T, 0, l.count)
	for _, e := range l.All() {
		out = append(out, e)
	}
	return out
}

func (l *List[T]) String() string {
	return fmt.Sprint(l.Elements())
}

// Equal reports whether a and b hold equal elements in the same list order.
// Storage layout is ignored.
func Equal[T comparable](a, b *List[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is Equal with a caller-supplied element comparison.
func EqualFunc[T any](a, b *List[T], eq func(T, T) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	next, stop := iter.Pull2(b.All())
	defer stop()
	for _, x := range a.All() {
		_, y, ok := next()
		if !ok || !eq(x, y) {
			return false
		}
	}
	return true
}

// Hash folds the elements into a hash in list order using write.
func Hash[T any](l *List[T], seed maphash.Seed, write func(*maphash.Hash, T)) uint64 {
	var h maphash.Hash
	h.SetSeed(seed)
	for _, e := range l.All() {
		write(&h, e)
	}
	return h.Sum64()
}

// Map returns a list with the same layout as l holding f applied to each
// element. Every address of l names the image of its element in the result.
func Map[T, U any](l *List[T], f func(T) U) *List[U] {
	out, _ := TryMap(l, func(e T) (U, error) { return f(e), nil })
	return out
}

// TryMap is Map for a fallible f. It stops at the first error.
func TryMap[T, U any](l *List[T], f func(T) (U, error)) (*List[U], error) {
	out := &List[U]{
		count:   l.count,
		head:    l.head,
		tail:    l.tail,
		free:    l.free,
		buckets: make([]bucket[U], len(l.buckets)),
	}
	for i, b := range l.buckets {
		nb := bucket[U]{prev: b.prev, next: b.next, used: b.used}
		if b.used {
			e, err := f(b.elem)
			if err != nil {
				return nil, err
			}
			nb.elem = e
		}
		out.buckets[i] = nb
	}
	return out, nil
}

func (l *List[T]) insertFirst(e T) Address {
	n := l.alloc(e, -1, -1)
	l.head, l.tail = n, n
	l.count = 1
	return addressOf(n)
}

// alloc stores e in a free bucket, growing the buffer when none is left.
func (l *List[T]) alloc(e T, prev, next int) int {
	b := bucket[T]{prev: prev, next: next, used: true, elem: e}
	if l.free == len(l.buckets) {
		l.buckets = append(l.buckets, b)
		l.free = len(l.buckets)
		return len(l.buckets) - 1
	}
	off := l.free
	l.free = l.buckets[off].next
	l.buckets[off] = b
	return off
}

func (l *List[T]) offset(a Address) int {
	off := int(a) - 1
	if off < 0 || off >= len(l.buckets) {
		panic(fmt.Sprintf("arena: address %d out of bounds", a))
	}
	if !l.buckets[off].used {
		panic(fmt.Sprintf("arena: address %d names a removed element", a))
	}
	return off
}

func addressOf(off int) Address {
	v, err := safecast.Conv[uint32](off + 1)
	if err != nil {
		panic(fmt.Errorf("arena: offset overflow: %w", err))
	}
	return Address(v)
}
