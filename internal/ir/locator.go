package ir

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"valc/internal/ast"
	"valc/internal/types"
)

// Source is what a module needs to know about the program it lowers.
type Source interface {
	Syntax() *ast.AST
	Scopes() *ast.ScopeHierarchy
	DeclType(ast.AnyDeclID) types.AnyType
}

// Locate returns the mangled name of decl: one component per enclosing
// declaration from the module inward, then decl itself.
//
// Components:
//
//	M<n><name>               module
//	P<n><name>               product type
//	T<n><name>               trait
//	E<id> / C<id>            extension / conformance, by node id
//	F<n><name>L<k><labels>Y<hash>  named function
//	A<id>Y<hash>             anonymous function
//	I L<k><labels>Y<hash>    initializer
//
// Identifiers are NFC-normalized first so that canonically equivalent
// spellings name the same declaration.
func Locate(src Source, decl ast.AnyDeclID) string {
	chain := []ast.AnyNodeID{decl.AnyNodeID}
	for s := range src.Scopes().Ancestors(decl) {
		chain = append(chain, s)
	}
	slices.Reverse(chain)

	var b strings.Builder
	a := src.Syntax()
	for _, id := range chain {
		d, ok := ast.AsDecl(id)
		if !ok {
			continue
		}
		writeComponent(&b, a, src, d)
	}
	return b.String()
}

func writeComponent(b *strings.Builder, a *ast.AST, src Source, d ast.AnyDeclID) {
	switch n := a.Node(d).(type) {
	case *ast.ModuleDecl:
		b.WriteByte('M')
		writeIdent(b, n.Name)
	case *ast.ProductTypeDecl:
		b.WriteByte('P')
		writeIdent(b, n.Name)
	case *ast.TraitDecl:
		b.WriteByte('T')
		writeIdent(b, n.Name)
	case *ast.ExtensionDecl:
		fmt.Fprintf(b, "E%d", d.Raw)
	case *ast.ConformanceDecl:
		fmt.Fprintf(b, "C%d", d.Raw)
	case *ast.FunDecl:
		if n.Name == "" {
			fmt.Fprintf(b, "A%d", d.Raw)
		} else {
			b.WriteByte('F')
			writeIdent(b, n.Name)
			writeLabels(b, n.Labels(a))
		}
		writeTypeHash(b, src.DeclType(d))
	case *ast.InitializerDecl:
		b.WriteByte('I')
		writeLabels(b, n.Labels(a))
		writeTypeHash(b, src.DeclType(d))
	}
}

func writeIdent(b *strings.Builder, s string) {
	s = norm.NFC.String(s)
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteString(s)
}

func writeLabels(b *strings.Builder, labels []string) {
	fmt.Fprintf(b, "L%d", len(labels))
	for _, l := range labels {
		writeIdent(b, l)
	}
}

// writeTypeHash separates overloads that share a name and labels.
func writeTypeHash(b *strings.Builder, t types.AnyType) {
	h := fnv.New32a()
	h.Write([]byte(types.KeyOf(t)))
	fmt.Fprintf(b, "Y%08x", h.Sum32())
}
