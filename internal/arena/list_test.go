package arena

import (
	"errors"
	"hash/maphash"
	"slices"
	"strconv"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func mustCheck[T any](t *testing.T, l *List[T]) {
	t.Helper()
	if err := l.CheckInvariants(); err != nil {
		t.Fatalf("invariants violated: %v", err)
	}
}

func TestAppendPrependOrder(t *testing.T) {
	var l List[string]
	b := l.Append("b")
	a := l.Prepend("a")
	c := l.Append("c")

	if got := l.Elements(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("elements = %v", got)
	}
	if first, _ := l.First(); first != a {
		t.Fatalf("first = %d, want %d", first, a)
	}
	if last, _ := l.Last(); last != c {
		t.Fatalf("last = %d, want %d", last, c)
	}
	if next, ok := l.AddressAfter(a); !ok || next != b {
		t.Fatalf("after a = %d,%v", next, ok)
	}
	if _, ok := l.AddressAfter(c); ok {
		t.Fatalf("tail must have no successor")
	}
	if _, ok := l.AddressBefore(a); ok {
		t.Fatalf("head must have no predecessor")
	}
	mustCheck(t, &l)
}

func TestPrependOnNonEmptyGoesToHead(t *testing.T) {
	l := From(2, 3, 4)
	l.Prepend(1)
	if got := l.Elements(); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("elements = %v", got)
	}
	mustCheck(t, l)
}

func TestAddressStabilityUnderInsertions(t *testing.T) {
	var l List[int]
	a1 := l.Append(1)
	a3 := l.Append(3)
	a2 := l.InsertAfter(2, a1)
	a0 := l.InsertBefore(0, a1)
	a4 := l.InsertAfter(4, a3)

	for addr, want := range map[Address]int{a0: 0, a1: 1, a2: 2, a3: 3, a4: 4} {
		if got := l.At(addr); got != want {
			t.Fatalf("At(%d) = %d, want %d", addr, got, want)
		}
	}

	var walked []int
	for a, ok := l.First(); ok; a, ok = l.AddressAfter(a) {
		walked = append(walked, l.At(a))
	}
	if !slices.Equal(walked, []int{0, 1, 2, 3, 4}) {
		t.Fatalf("walk = %v", walked)
	}
	mustCheck(t, &l)
}

func TestRemoveReusesSlot(t *testing.T) {
	l := From("x", "y", "z")
	addrs := l.Addresses()
	before := l.Len()

	got := l.Remove(addrs[1])
	if got != "y" {
		t.Fatalf("Remove returned %q", got)
	}
	if l.Contains(addrs[1]) {
		t.Fatalf("removed address still live")
	}
	mustCheck(t, l)

	n := l.Append("w")
	if n != addrs[1] {
		t.Fatalf("expected slot %d to be reused, got %d", addrs[1], n)
	}
	if l.At(n) != "w" {
		t.Fatalf("reused address must denote the new element")
	}
	if l.Len() != before {
		t.Fatalf("len = %d, want %d", l.Len(), before)
	}
	if got := l.Elements(); !slices.Equal(got, []string{"x", "z", "w"}) {
		t.Fatalf("elements = %v", got)
	}
	mustCheck(t, l)
}

func TestRemoveHeadAndTail(t *testing.T) {
	l := From(1, 2, 3)
	addrs := l.Addresses()
	l.Remove(addrs[0])
	l.Remove(addrs[2])
	if got := l.Elements(); !slices.Equal(got, []int{2}) {
		t.Fatalf("elements = %v", got)
	}
	if first, _ := l.First(); first != addrs[1] {
		t.Fatalf("head not fixed up")
	}
	if last, _ := l.Last(); last != addrs[1] {
		t.Fatalf("tail not fixed up")
	}
	l.Remove(addrs[1])
	if _, ok := l.First(); ok || l.Len() != 0 {
		t.Fatalf("list should be empty")
	}
	mustCheck(t, l)

	a := l.Append(9)
	if got := l.Elements(); !slices.Equal(got, []int{9}) || l.At(a) != 9 {
		t.Fatalf("append after emptying: %v", got)
	}
	mustCheck(t, l)
}

func TestIterationFollowsLinksNotStorage(t *testing.T) {
	var l List[int]
	a := l.Append(1)
	l.Append(2)
	l.Remove(a)
	l.Append(3) // lands in slot 0, after 2 in list order
	l.Prepend(0)

	if got := l.Elements(); !slices.Equal(got, []int{0, 2, 3}) {
		t.Fatalf("forward = %v", got)
	}
	var back []int
	for _, e := range l.Backward() {
		back = append(back, e)
	}
	if !slices.Equal(back, []int{3, 2, 0}) {
		t.Fatalf("backward = %v", back)
	}
	mustCheck(t, &l)
}

func TestFirstLastWhereAndPrecedes(t *testing.T) {
	l := From(1, 2, 3, 4, 5)
	even := func(v int) bool { return v%2 == 0 }

	first, ok := l.FirstWhere(even)
	if !ok || l.At(first) != 2 {
		t.Fatalf("FirstWhere = %d,%v", first, ok)
	}
	last, ok := l.LastWhere(even)
	if !ok || l.At(last) != 4 {
		t.Fatalf("LastWhere = %d,%v", last, ok)
	}
	if _, ok := l.FirstWhere(func(v int) bool { return v > 10 }); ok {
		t.Fatalf("FirstWhere should miss")
	}
	if !Precedes(l, first, last) {
		t.Fatalf("2 should precede 4")
	}
	if Precedes(l, last, first) || Precedes(l, first, first) {
		t.Fatalf("Precedes is strict and ordered")
	}
}

func TestSetAndRef(t *testing.T) {
	l := From(1, 2)
	a, _ := l.Last()
	l.Set(a, 20)
	*l.Ref(a) += 1
	if l.At(a) != 21 {
		t.Fatalf("At = %d", l.At(a))
	}
}

func TestInvalidAddressPanics(t *testing.T) {
	tests := []struct {
		name string
		run  func(l *List[int])
	}{
		{"zero address", func(l *List[int]) { l.At(NoAddress) }},
		{"out of range", func(l *List[int]) { l.At(Address(99)) }},
		{"removed", func(l *List[int]) {
			a, _ := l.First()
			l.Remove(a)
			l.Remove(a)
		}},
		{"insert after removed", func(l *List[int]) {
			a, _ := l.Last()
			l.Remove(a)
			l.InsertAfter(7, a)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic")
				}
			}()
			tt.run(From(1, 2, 3))
		})
	}
}

func TestEqualAndHashIgnoreLayout(t *testing.T) {
	a := From(1, 2, 3)

	var b List[int]
	x := b.Append(0)
	b.Append(2)
	b.Remove(x)
	b.Prepend(1)
	b.Append(3)

	if !Equal(a, &b) {
		t.Fatalf("lists with same sequence must be equal: %v vs %v", a, &b)
	}
	seed := maphash.MakeSeed()
	write := func(h *maphash.Hash, v int) { maphash.WriteComparable(h, v) }
	if Hash(a, seed, write) != Hash(&b, seed, write) {
		t.Fatalf("hash must follow list order")
	}
	b.Append(4)
	if Equal(a, &b) {
		t.Fatalf("different lengths must differ")
	}
}

func TestMsgpackPreservesAddresses(t *testing.T) {
	var l List[string]
	a := l.Append("a")
	b := l.Append("b")
	l.Append("c")
	d := l.InsertAfter("d", b)
	l.Remove(a)

	data, err := msgpack.Marshal(&l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out List[string]
	if err := msgpack.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !Equal(&l, &out) {
		t.Fatalf("decoded %v, want %v", &out, &l)
	}
	if out.At(d) != "d" || out.At(b) != "b" {
		t.Fatalf("addresses not preserved")
	}
	if n := out.Append("e"); n != a {
		t.Fatalf("free chain not preserved: got %d want %d", n, a)
	}
}

func TestMapKeepsLayout(t *testing.T) {
	l := From(1, 2, 3)
	addrs := l.Addresses()
	l.Remove(addrs[0])

	m := Map(l, func(v int) string { return strconv.Itoa(v * 10) })
	if got := m.Elements(); !slices.Equal(got, []string{"20", "30"}) {
		t.Fatalf("elements = %v", got)
	}
	if m.At(addrs[2]) != "30" {
		t.Fatalf("addresses must carry over")
	}
	if n := m.Append("x"); n != addrs[0] {
		t.Fatalf("free chain must carry over: got %d want %d", n, addrs[0])
	}
	mustCheck(t, m)

	if _, err := TryMap(l, func(int) (int, error) { return 0, errors.New("boom") }); err == nil {
		t.Fatalf("TryMap must report f's error")
	}
}
