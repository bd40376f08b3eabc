// Package diag defines the structured diagnostics produced by every stage
// of the pipeline: a stable code, a human-readable message, and a span.
// The core never prints; a collaborator (the CLI, a test) formats these.
package diag

import (
	"fmt"
	"sort"

	"tlog.app/go/tlog/tlwire"

	"github.com/quasar-lang/quasar/compiler/source"
)

// Code is a stable diagnostic identifier, e.g. "E0100". Ranges are
// append-only; see SPEC_FULL.md for the full ledger.
type Code string

const (
	// E0000-E0099: scope/identifier. E0000 is the lexer's "unrecognized
	// character"; EInternal names the same code for an internal-invariant
	// failure. The analyzer does not emit EInternal: an unreachable
	// top-level node is logged as a trace instead.
	EIllegalChar    Code = "E0000"
	EInternal       Code = "E0000"
	EUnterminated   Code = "E0001"
	EUnknownIdent   Code = "E0001"
	EDuplicateDecl  Code = "E0002"
	EConstRebind    Code = "E0003"

	// E0100-E0199: type errors.
	ETypeMismatch    Code = "E0100"
	EConditionNotBool Code = "E0101"
	EArithMismatch   Code = "E0102"
	EOrderMismatch   Code = "E0103"
	ELogicalMismatch Code = "E0104"

	// E0200-E0299: control flow.
	EBreakOutsideLoop    Code = "E0200"
	EContinueOutsideLoop Code = "E0201"

	// E0300-E0399: function return paths.
	EReturnTypeMismatch Code = "E0302"
	EMissingReturn      Code = "E0303"
	EReturnOutsideFunc  Code = "E0304"

	// E0400-E0499: print/format strings.
	EPrintArgType   Code = "E0401"
	EPrintSepType   Code = "E0402"
	EPrintEndType   Code = "E0403"
	EPrintNoArgs    Code = "E0406"
	EFormatTooFew   Code = "E0410"
	EFormatTooMany  Code = "E0411"

	// E0500-E0599: lists and ranges.
	EListHeterogeneous Code = "E0500"
	ENotIndexable      Code = "E0501"
	EIndexType         Code = "E0502"
	EIndexAssignType   Code = "E0503"
	ELoopVarReassigned Code = "E0504"
	ENotIterable       Code = "E0505"
	ERangeEndpointType Code = "E0506"
	ERangeOutsideFor   Code = "E0507"
	EEmptyListNoType   Code = "E0508"

	// E0600-E0699: input and casts.
	EInputArgCount Code = "E0600"
	EInputArgType  Code = "E0601"
	ECastArgCount  Code = "E0602"

	// E0800-E0899: structs.
	EStructFieldSet    Code = "E0800"
	EStructFieldType   Code = "E0801"
	EUnknownField      Code = "E0802"
	EStructRedeclared  Code = "E0803"

	// E0900-E0999: imports.
	EDuplicateImport Code = "E0900"
	EImportNotFound  Code = "E0901"
	ECircularImport  Code = "E0902"

	// E1000-E1099: dicts.
	EDictHeterogeneous Code = "E1000"
	EDictKeyType       Code = "E1001"

	// E1100-E1199: primitive methods.
	EMethodGenericMismatch Code = "E1100"
	EJoinNotStringList     Code = "E1102"
	EUnknownMethod         Code = "E1105"
	EMethodArgCount        Code = "E1106"
	EMethodArgType         Code = "E1107"

	// E1200-E1299: enums.
	EEnumRedeclared   Code = "E1200"
	EEnumDupVariant   Code = "E1201"
	EUnknownVariant   Code = "E1202"
	EUnknownType      Code = "E1203"
	EEnumMismatch     Code = "E1204"
	EEnumNonEquality  Code = "E1205"
)

// Diagnostic is a single structured finding.
type Diagnostic struct {
	Code    Code
	Message string
	Span    source.Span
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Code, d.Message)
}

func (d Diagnostic) Error() string { return d.String() }

// Diagnostics is an ordered batch of findings accumulated within a single
// stage. It is the generalized, many-errors analogue of the teacher's
// single UnexpectedError/TypeExpectedError value types (compiler/front and
// compiler/parse): instead of returning on the first problem, a stage
// collects every independent problem it can find and hands the batch to
// its caller.
type Diagnostics []Diagnostic

// Add appends a new diagnostic built from a printf-style message.
func (d *Diagnostics) Add(code Code, span source.Span, format string, args ...any) {
	*d = append(*d, Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// HasErrors reports whether any diagnostic was recorded.
func (d Diagnostics) HasErrors() bool { return len(d) > 0 }

// TlogAppend lets tlog encode a batch directly in its binary wire format
// under -v trace output, rather than falling back to "%v" on the slice —
// one array tag holding one string per diagnostic, mirroring the
// teacher's set.Bitmap.TlogAppend.
func (d Diagnostics) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	if d == nil {
		return e.AppendNil(b)
	}

	b = e.AppendTag(b, tlwire.Array, -1)
	for _, x := range d {
		b = e.AppendString(b, x.String())
	}
	b = e.AppendBreak(b)

	return b
}

// Sort orders diagnostics by file, then position, then code, for
// deterministic output regardless of the order stages discovered them in.
func (d Diagnostics) Sort() {
	sort.SliceStable(d, func(i, j int) bool {
		a, b := d[i].Span, d[j].Span
		if a.File != b.File {
			return a.File < b.File
		}
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		if a.StartCol != b.StartCol {
			return a.StartCol < b.StartCol
		}
		return d[i].Code < d[j].Code
	})
}
