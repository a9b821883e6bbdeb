package arena

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// listWire is the serialized form of a List. The bucket layout is kept
// verbatim so that addresses stored elsewhere stay meaningful after decoding.
type listWire[T any] struct {
	Count   int
	Head    int
	Tail    int
	Free    int
	Buckets []bucketWire[T]
}

type bucketWire[T any] struct {
	Prev int
	Next int
	Used bool
	Elem T `msgpack:",omitempty"`
}

// EncodeMsgpack implements msgpack.CustomEncoder.
func (l List[T]) EncodeMsgpack(enc *msgpack.Encoder) error {
	w := listWire[T]{
		Count:   l.count,
		Head:    l.head,
		Tail:    l.tail,
		Free:    l.free,
		Buckets: make([]bucketWire[T], len(l.buckets)),
	}
	for i, b := range l.buckets {
		w.Buckets[i] = bucketWire[T]{Prev: b.prev, Next: b.next, Used: b.used, Elem: b.elem}
	}
	return enc.Encode(&w)
}

// DecodeMsgpack implements msgpack.CustomDecoder. The decoded layout is
// checked before it replaces l.
func (l *List[T]) DecodeMsgpack(dec *msgpack.Decoder) error {
	var w listWire[T]
	if err := dec.Decode(&w); err != nil {
		return err
	}
	decoded := List[T]{
		count:   w.Count,
		head:    w.Head,
		tail:    w.Tail,
		free:    w.Free,
		buckets: make([]bucket[T], len(w.Buckets)),
	}
	for i, b := range w.Buckets {
		decoded.buckets[i] = bucket[T]{prev: b.Prev, next: b.Next, used: b.Used, elem: b.Elem}
	}
	if err := decoded.CheckInvariants(); err != nil {
		return fmt.Errorf("arena: corrupt list: %w", err)
	}
	*l = decoded
	return nil
}

// CheckInvariants verifies the bucket layout: one used chain of Len buckets
// from head to tail with consistent back links, and every other bucket on
// the free chain, which ends at the buffer length.
func (l *List[T]) CheckInvariants() error {
	n := len(l.buckets)
	inChain := make([]bool, n)
	var errs []error

	if l.count < 0 || l.count > n {
		return fmt.Errorf("count %d outside [0, %d]", l.count, n)
	}
	if l.count > 0 {
		prev := -1
		off := l.head
		for i := 0; i < l.count; i++ {
			if off < 0 || off >= n {
				return fmt.Errorf("chain link %d out of bounds at position %d", off, i)
			}
			b := l.buckets[off]
			if !b.used {
				errs = append(errs, fmt.Errorf("chain bucket %d is not used", off))
			}
			if inChain[off] {
				return fmt.Errorf("chain revisits bucket %d", off)
			}
			inChain[off] = true
			if b.prev != prev {
				errs = append(errs, fmt.Errorf("bucket %d: prev=%d, want %d", off, b.prev, prev))
			}
			if i == l.count-1 {
				if off != l.tail {
					errs = append(errs, fmt.Errorf("chain ends at %d, tail is %d", off, l.tail))
				}
				break
			}
			prev = off
			off = b.next
		}
	}

	seen := 0
	for off := l.free; off != n; {
		if off < 0 || off > n {
			return fmt.Errorf("free link %d out of bounds", off)
		}
		if inChain[off] || l.buckets[off].used {
			return fmt.Errorf("free chain reaches used bucket %d", off)
		}
		inChain[off] = true
		seen++
		off = l.buckets[off].next
	}
	if l.count+seen != n {
		errs = append(errs, fmt.Errorf("%d used + %d free buckets, buffer holds %d", l.count, seen, n))
	}
	return errors.Join(errs...)
}
