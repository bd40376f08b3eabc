package semantic

import "github.com/quasar-lang/quasar/compiler/types"

// symbolKind distinguishes the handful of things a name can be bound to.
type symbolKind int

const (
	symVar symbolKind = iota
	symConst
	symFunc
	symStruct
	symEnum
	symModule
)

// symbol is a single entry in the scope stack or one of the top-level
// registries (structs, enums, modules).
type symbol struct {
	kind symbolKind
	typ  types.Type

	// fields/variants, populated for symStruct/symEnum symbols so member
	// resolution doesn't need a second lookup into a separate registry.
	fields   map[string]types.Type
	order    []string // field or variant names in declaration order
	variants map[string]bool

	// loopVar marks a for-loop's binding: immutable like a const, but
	// reported under its own diagnostic code (E0504) since the cause is
	// distinct from rebinding a `const`.
	loopVar bool
}

// scope is one lexical block's bindings. Scopes nest; lookups walk outward
// through the enclosing function to the module scope, which holds
// top-level let/const bindings, and fail beyond it. Functions, structs,
// enums and modules live in the analyzer's own registries rather than a
// scope frame.
type scope struct {
	parent *scope
	names  map[string]*symbol
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: map[string]*symbol{}}
}

func (s *scope) declare(name string, sym *symbol) bool {
	if _, exists := s.names[name]; exists {
		return false
	}
	s.names[name] = sym
	return true
}

// lookup searches s and its ancestors, returning the symbol and whether it
// was found.
func (s *scope) lookup(name string) (*symbol, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.names[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// lookupLocal searches only s itself, for duplicate-declaration checks
// within a single block.
func (s *scope) lookupLocal(name string) (*symbol, bool) {
	sym, ok := s.names[name]
	return sym, ok
}
