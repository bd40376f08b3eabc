// Package types implements Quasar's closed type system: a finite, sum-typed
// universe with no user-declared generics and no inference. It plays the
// role the teacher's compiler/tp package plays for machine types, adapted
// from a register/size-oriented model to a structural-equality one.
package types

import "fmt"

// Type is implemented by every member of the closed type sum: Primitive,
// List, Dict, Struct, Enum, Module, and Function. Type switches over Type
// (Equal here, and those in the analyzer and emitter) end in a default
// case that treats any other value as a mismatch or as Any.
type Type interface {
	isType()
	String() string
}

// Primitive is one of the atomic, built-in types.
type Primitive int

const (
	Int Primitive = iota
	Float
	Bool
	Str
	Void
	Any
)

func (Primitive) isType() {}

func (p Primitive) String() string {
	switch p {
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case Str:
		return "str"
	case Void:
		return "void"
	case Any:
		return "Any"
	default:
		return "?"
	}
}

// List is a homogeneous ordered sequence.
type List struct{ Elem Type }

func (List) isType() {}
func (l List) String() string {
	return fmt.Sprintf("List[%s]", l.Elem)
}

// Dict is a homogeneous map; Key is restricted to Int, Str, or Bool by the
// analyzer (the Type sum itself does not enforce this — see
// compiler/semantic for the E1001 check).
type Dict struct {
	Key   Type
	Value Type
}

func (Dict) isType() {}
func (d Dict) String() string {
	return fmt.Sprintf("Dict[%s, %s]", d.Key, d.Value)
}

// Struct is a nominal reference to a user-declared struct.
type Struct struct{ Name string }

func (Struct) isType() {}
func (s Struct) String() string { return s.Name }

// Enum is a nominal reference to a user-declared enum.
type Enum struct{ Name string }

func (Enum) isType() {}
func (e Enum) String() string { return e.Name }

// Module is a namespace produced by an import declaration.
type Module struct{ Name string }

func (Module) isType() {}
func (m Module) String() string { return "module " + m.Name }

// Function only ever appears in the symbol table, never in a type
// annotation written by a user.
type Function struct {
	Params []Type
	Result Type
}

func (Function) isType() {}
func (f Function) String() string {
	s := "fn("
	for i, p := range f.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ") -> " + f.Result.String()
}

// Equal reports whether two types are interchangeable for assignment
// purposes. Any is bidirectionally compatible with everything (it matches
// anything and is matched by anything) but two distinct Any-free types
// must agree on variant and, recursively, on every parameter.
func Equal(a, b Type) bool {
	if isAny(a) || isAny(b) {
		return true
	}

	switch a := a.(type) {
	case Primitive:
		b, ok := b.(Primitive)
		return ok && a == b
	case List:
		b, ok := b.(List)
		return ok && Equal(a.Elem, b.Elem)
	case Dict:
		b, ok := b.(Dict)
		return ok && Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case Struct:
		b, ok := b.(Struct)
		return ok && a.Name == b.Name
	case Enum:
		b, ok := b.(Enum)
		return ok && a.Name == b.Name
	case Module:
		b, ok := b.(Module)
		return ok && a.Name == b.Name
	case Function:
		b, ok := b.(Function)
		if !ok || len(a.Params) != len(b.Params) || !Equal(a.Result, b.Result) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IdentityEqual reports strict structural equality, ignoring the
// assignment-compatibility rule that makes Any equal to everything: Any
// matches only Any.
func IdentityEqual(a, b Type) bool {
	if isAny(a) != isAny(b) {
		return false
	}
	return Equal(a, b)
}

func isAny(t Type) bool {
	p, ok := t.(Primitive)
	return ok && p == Any
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p == Int || p == Float)
}

// IsPrintable reports whether t may appear as a print positional argument:
// Int, Float, Bool, or Str.
func IsPrintable(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p == Int || p == Float || p == Bool || p == Str)
}

// IsHashable reports whether t may be used as a Dict key type: Int, Str, or
// Bool (Open Question 2 in SPEC_FULL.md, resolved against Float).
func IsHashable(t Type) bool {
	p, ok := t.(Primitive)
	return ok && (p == Int || p == Str || p == Bool)
}
