package types

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"valc/internal/ast"
)

var (
	i64    = BuiltinType{Kind: BuiltinI64}
	i1     = BuiltinType{Kind: BuiltinI1}
	point  = ProductType{Decl: ast.NodeID[ast.ProductTypeDecl]{Raw: 1}, Name: "Point"}
	tParam = GenericTypeParameterType{Decl: ast.NodeID[ast.GenericParameterDecl]{Raw: 7}, Name: "T"}
)

func param(c ast.PassingConvention, t AnyType) CallableParameter {
	return CallableParameter{Type: NewParameter(c, t)}
}

func TestFlagsAreUnionOfParts(t *testing.T) {
	tests := []struct {
		name string
		typ  AnyType
		want Flags
	}{
		{"builtin", i64, 0},
		{"void", Void, 0},
		{"tuple with error", NewUnlabeledTuple(i64, ErrorType{}), HasError},
		{"nested tuple", NewUnlabeledTuple(NewUnlabeledTuple(TypeVariable{ID: 1}), i1), HasVariable},
		{"lambda input", NewThinLambda(Void, TypeVariable{ID: 2}), HasVariable},
		{"lambda env and output", NewLambda(ast.EffectLet, NewUnlabeledTuple(tParam), nil, ErrorType{}), HasGenericTypeParam | HasError},
		{"method receiver", NewMethod(ast.EffectSetOf(ast.EffectLet), tParam, nil, Void), HasGenericTypeParam},
		{"alias", NewTypeAlias("Int", i64), HasNonCanonical},
		{"alias in sum", NewSum(point, NewTypeAlias("P", point)), HasNonCanonical},
		{"value argument", NewBoundGeneric(point, GenericArgument{Name: "n"}), HasGenericValueParam},
		{"remote", NewRemote(ast.EffectInout, TypeVariable{ID: 3}), HasVariable},
		{"metatype", NewMetatype(ErrorType{}), HasError},
		{"associated", NewAssociated(tParam, "Element"), HasGenericTypeParam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Flags(); got != tt.want {
				t.Fatalf("flags = %s, want %s", got, tt.want)
			}
			if err := VerifyFlags(tt.typ); err != nil {
				t.Fatalf("VerifyFlags: %v", err)
			}
		})
	}
}

func TestCtor(t *testing.T) {
	initializer := NewLambda(ast.EffectLet, Void, []CallableParameter{
		param(ast.ConventionSet, point),
		{Label: "x", Type: NewParameter(ast.ConventionSink, i64)},
	}, Void)
	ctor, ok := initializer.Ctor()
	if !ok {
		t.Fatalf("initializer-shaped lambda has no ctor")
	}
	want := NewLambda(ast.EffectLet, Void, []CallableParameter{{Label: "x", Type: NewParameter(ast.ConventionSink, i64)}}, point)
	if !Equal(ctor, want) {
		t.Fatalf("ctor = %s, want %s", ctor, want)
	}

	negatives := []struct {
		name string
		l    LambdaType
	}{
		{"captures", NewLambda(ast.EffectLet, NewUnlabeledTuple(i64), []CallableParameter{param(ast.ConventionSet, point)}, Void)},
		{"returns", NewLambda(ast.EffectLet, Void, []CallableParameter{param(ast.ConventionSet, point)}, i64)},
		{"first not set", NewLambda(ast.EffectLet, Void, []CallableParameter{param(ast.ConventionInout, point)}, Void)},
		{"no inputs", NewThinLambda(Void)},
	}
	for _, tt := range negatives {
		if _, ok := tt.l.Ctor(); ok {
			t.Errorf("%s: %s must not have a ctor", tt.name, tt.l)
		}
	}
}

func TestLambdaFromBundle(t *testing.T) {
	bundle := NewMethod(ast.EffectSetOf(ast.EffectLet, ast.EffectSink), point,
		[]CallableParameter{{Label: "by", Type: NewParameter(ast.ConventionLet, i64)}}, point)

	let, ok := LambdaFromBundle(bundle, ast.EffectLet)
	if !ok {
		t.Fatalf("let variant missing")
	}
	if got, want := let.String(), "[{self: remote let Point}] (by: let Builtin.i64) let -> Point"; got != want {
		t.Fatalf("let variant = %q, want %q", got, want)
	}
	sink, ok := LambdaFromBundle(bundle, ast.EffectSink)
	if !ok {
		t.Fatalf("sink variant missing")
	}
	if got := sink.Captures(); len(got) != 1 || !Equal(got[0].Type, point) {
		t.Fatalf("sink receiver must be captured by value: %v", got)
	}
	if _, ok := LambdaFromBundle(bundle, ast.EffectInout); ok {
		t.Fatalf("inout is not in the capability set")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("yielded must panic")
		}
	}()
	LambdaFromBundle(bundle, ast.EffectYielded)
}

func TestCaptures(t *testing.T) {
	tests := []struct {
		name string
		env  AnyType
		want int
	}{
		{"thin", Void, 0},
		{"tuple", NewTuple(TupleElement{Label: "a", Type: i64}, TupleElement{Type: point}), 2},
		{"bare", i64, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLambda(ast.EffectLet, tt.env, nil, Void)
			if got := l.Captures(); len(got) != tt.want {
				t.Errorf("Captures() = %v, want %d elements", got, tt.want)
			}
		})
	}
}

func TestRendering(t *testing.T) {
	tests := []struct {
		typ  AnyType
		want string
	}{
		{Void, "{}"},
		{Never, "Never"},
		{ErrorType{}, "_"},
		{TypeVariable{ID: 4}, "%τ4"},
		{NewTuple(TupleElement{Label: "a", Type: i64}, TupleElement{Type: i1}), "{a: Builtin.i64, Builtin.i1}"},
		{NewSum(i64, point), "Union<Builtin.i64, Point>"},
		{NewThinLambda(i64, point), "[{}] (let Point) let -> Builtin.i64"},
		{NewRemote(ast.EffectInout, point), "remote inout Point"},
		{NewMetatype(point), "Metatype<Point>"},
		{NewAssociated(tParam, "Element"), "T.Element"},
		{NewExistential(TraitType{Name: "P"}, TraitType{Name: "Q"}), "any P & Q"},
		{NewBoundGeneric(point, GenericArgument{Type: i64}, GenericArgument{Name: "n"}), "Point<Builtin.i64, n>"},
		{NewMethod(ast.EffectSetOf(ast.EffectInout, ast.EffectLet), point, nil, Void), "method[let, inout] Point () -> {}"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTransform(t *testing.T) {
	lam := NewThinLambda(tParam, NewUnlabeledTuple(tParam, i64))

	got := Substitute(lam, map[ast.NodeID[ast.GenericParameterDecl]]AnyType{tParam.Decl: point})
	want := NewThinLambda(point, NewUnlabeledTuple(point, i64))
	if !Equal(got, want) {
		t.Fatalf("Substitute = %s, want %s", got, want)
	}
	if got.Flags().Contains(HasGenericTypeParam) {
		t.Fatalf("substituted type still has generic flags")
	}

	// StepOver at the root must not visit parts.
	visited := 0
	out := Transform(lam, func(u AnyType) TransformAction {
		visited++
		return StepOver(u)
	})
	if visited != 1 || !Equal(out, lam) {
		t.Fatalf("StepOver visited %d types", visited)
	}

	alias := NewTypeAlias("Int", i64)
	canon := Canonical(NewUnlabeledTuple(alias, NewRemote(ast.EffectLet, alias)))
	if !canon.Flags().IsCanonical() {
		t.Fatalf("Canonical left sugar in %s", canon)
	}
	if !Equal(canon, NewUnlabeledTuple(i64, NewRemote(ast.EffectLet, i64))) {
		t.Fatalf("Canonical = %s", canon)
	}
}

func TestKeysAreStructural(t *testing.T) {
	same := []struct{ a, b AnyType }{
		{NewUnlabeledTuple(i64, point), NewUnlabeledTuple(i64, point)},
		{NewThinLambda(Void, i64), NewThinLambda(Void, NewParameter(ast.ConventionLet, i64))},
	}
	for _, tt := range same {
		if !Equal(tt.a, tt.b) {
			t.Errorf("%s and %s must be equal", tt.a, tt.b)
		}
	}
	different := []struct{ a, b AnyType }{
		{NewTuple(TupleElement{Label: "x", Type: i64}), NewUnlabeledTuple(i64)},
		{NewUnlabeledTuple(i64, i64), NewUnlabeledTuple(NewUnlabeledTuple(i64, i64))},
		{ProductType{Name: "ab"}, NewUnlabeledTuple(ProductType{Name: "a"}, ProductType{Name: "b"})},
		{ProductType{Name: "1:a"}, ProductType{Name: "a"}},
		{NewRemote(ast.EffectLet, i64), NewRemote(ast.EffectInout, i64)},
		{ProductType{Decl: ast.NodeID[ast.ProductTypeDecl]{Raw: 1}, Name: "P"}, ProductType{Decl: ast.NodeID[ast.ProductTypeDecl]{Raw: 2}, Name: "P"}},
	}
	for _, tt := range different {
		if Equal(tt.a, tt.b) {
			t.Errorf("%s and %s must differ", tt.a, tt.b)
		}
	}
}

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()
	if b.Void == NoTypeID || b.Int == NoTypeID {
		t.Fatalf("builtins not initialized")
	}
	if got := in.Intern(NewUnlabeledTuple()); got != b.Void {
		t.Fatalf("empty tuple must intern as Void")
	}
	x := in.Intern(NewThinLambda(i64, point))
	y := in.Intern(NewThinLambda(i64, point))
	if x != y {
		t.Fatalf("equal lambdas got %d and %d", x, y)
	}
	if in.MustLookup(x).String() != "[{}] (let Point) let -> Builtin.i64" {
		t.Fatalf("lookup = %s", in.MustLookup(x))
	}
	if _, ok := in.Lookup(NoTypeID); ok {
		t.Fatalf("NoTypeID must miss")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	all := []AnyType{
		i64,
		ErrorType{},
		NewTuple(TupleElement{Label: "a", Type: i64}, TupleElement{Type: NewSum(point, Never)}),
		NewLambda(ast.EffectInout, NewTuple(TupleElement{Label: "self", Type: NewRemote(ast.EffectInout, point)}), []CallableParameter{{Label: "x", Type: NewParameter(ast.ConventionSink, tParam)}}, i1),
		NewMethod(ast.EffectSetOf(ast.EffectLet, ast.EffectSink), point, nil, Void),
		NewTypeAlias("P", NewMetatype(point)),
		NewAssociated(tParam, "E"),
		NewExistential(TraitType{Decl: ast.NodeID[ast.TraitDecl]{Raw: 2}, Name: "P"}),
		NewBoundGeneric(point, GenericArgument{Type: TypeVariable{ID: 9}}, GenericArgument{Value: ast.NodeID[ast.GenericParameterDecl]{Raw: 3}, Name: "n"}),
	}
	for _, typ := range all {
		data, err := msgpack.Marshal(Encode(typ))
		if err != nil {
			t.Fatalf("marshal %s: %v", typ, err)
		}
		var r Record
		if err := msgpack.Unmarshal(data, &r); err != nil {
			t.Fatalf("unmarshal %s: %v", typ, err)
		}
		got, err := Decode(r)
		if err != nil {
			t.Fatalf("decode %s: %v", typ, err)
		}
		if !Equal(got, typ) || got.Flags() != typ.Flags() {
			t.Fatalf("round trip of %s gave %s", typ, got)
		}
	}
	if _, err := Decode(Record{Kind: KindParameter}); err == nil {
		t.Fatalf("parameter record without a part must fail")
	}
}
