package ast

import (
	"fmt"

	"valc/internal/diag"
)

// ValidateForm reports declarations that are syntactically well formed but
// misplaced: extensions and conformances anywhere but at module level,
// memberwise initializers inside extensions and conformances, functions
// without a body outside a trait, and repeated parameter names. It reports
// whether no error was found.
func ValidateForm(a *AST, module NodeID[ModuleDecl], r diag.Reporter) bool {
	ok := true
	fail := func(code diag.Code, n Node, msg string) {
		ok = false
		diag.ReportError(r, code, n.Site(), msg)
	}

	a.Walk(module, func(id, parent AnyNodeID) bool {
		if id.Category() != CategoryDecl {
			return true
		}
		n := a.Node(id)
		switch d := n.(type) {
		case *ExtensionDecl:
			if parent.Kind != KindModuleDecl {
				fail(diag.SemaUnexpectedExtension, d, "extension declaration must appear at module level")
			}
		case *ConformanceDecl:
			if parent.Kind != KindModuleDecl {
				fail(diag.SemaUnexpectedConformance, d, "conformance declaration must appear at module level")
			}
		case *InitializerDecl:
			if d.IsMemberwise && (parent.Kind == KindExtensionDecl || parent.Kind == KindConformanceDecl) {
				fail(diag.SemaUnexpectedMemberwise, d, "memberwise initializer must be declared in the type's own body")
			}
			if !d.IsMemberwise && !d.Body.IsValid() {
				fail(diag.SemaMissingFunctionBody, d, "initializer requires a body")
			}
			checkParameterNames(a, d.Parameters, fail)
		case *FunDecl:
			if !d.Body.IsValid() && parent.Kind != KindTraitDecl {
				name := d.Name
				if name == "" {
					name = "anonymous function"
				}
				fail(diag.SemaMissingFunctionBody, d, fmt.Sprintf("'%s' requires a body", name))
			}
			checkParameterNames(a, d.Parameters, fail)
		}
		return true
	})
	return ok
}

func checkParameterNames(a *AST, params []NodeID[ParameterDecl], fail func(diag.Code, Node, string)) {
	seen := make(map[string]struct{}, len(params))
	for _, id := range params {
		p := Get(a, id)
		if p.Name == "" || p.Name == "_" {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			fail(diag.SemaDuplicateParameterName, p, fmt.Sprintf("parameter '%s' is declared more than once", p.Name))
			continue
		}
		seen[p.Name] = struct{}{}
	}
}
