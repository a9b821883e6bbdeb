package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Declaration form (3000-3099)
	SemaInfo                   Code = 3000
	SemaUnexpectedConformance  Code = 3001
	SemaUnexpectedExtension    Code = 3002
	SemaUnexpectedMemberwise   Code = 3003
	SemaDuplicateParameterName Code = 3004
	SemaMissingFunctionBody    Code = 3005

	// Lowering (4000-4099)
	LowerInfo             Code = 4000
	LowerUnsupported      Code = 4001
	LowerInvalidCallee    Code = 4002
	LowerUnknownName      Code = 4003
	LowerValidationFailed Code = 4004
)

var codeTitles = map[Code]string{
	UnknownCode:                "Unknown error",
	SemaInfo:                   "Declaration info",
	SemaUnexpectedConformance:  "Conformance declaration is not allowed here",
	SemaUnexpectedExtension:    "Extension declaration is not allowed here",
	SemaUnexpectedMemberwise:   "Memberwise initializer is not allowed here",
	SemaDuplicateParameterName: "Duplicate parameter name",
	SemaMissingFunctionBody:    "Function has no body",
	LowerInfo:                  "Lowering info",
	LowerUnsupported:           "Construct is not supported by lowering",
	LowerInvalidCallee:         "Callee is not a function",
	LowerUnknownName:           "Name does not refer to a lowered value",
	LowerValidationFailed:      "Lowered function is malformed",
}

func (c Code) ID() string {
	switch {
	case c >= 4000 && c < 5000:
		return fmt.Sprintf("LOW%04d", c)
	case c >= 3000 && c < 4000:
		return fmt.Sprintf("SEM%04d", c)
	}
	return fmt.Sprintf("E%04d", c)
}

func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}

func (c Code) String() string { return c.ID() }
