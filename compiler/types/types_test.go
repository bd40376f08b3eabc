package types

import "testing"

func TestEqualPrimitives(t *testing.T) {
	if !Equal(Int, Int) {
		t.Errorf("Int != Int")
	}
	if Equal(Int, Str) {
		t.Errorf("Int == Str")
	}
}

func TestEqualAnyIsBidirectionallyCompatible(t *testing.T) {
	if !Equal(Any, Int) {
		t.Errorf("Any != Int")
	}
	if !Equal(Str, Any) {
		t.Errorf("Str != Any")
	}
	if !Equal(Any, List{Elem: Struct{Name: "Foo"}}) {
		t.Errorf("Any != List[Foo]")
	}
}

func TestIdentityEqualRejectsAnyMismatch(t *testing.T) {
	if IdentityEqual(Any, Int) {
		t.Errorf("IdentityEqual(Any, Int) = true, want false")
	}
	if !IdentityEqual(Any, Any) {
		t.Errorf("IdentityEqual(Any, Any) = false, want true")
	}
	if !IdentityEqual(Int, Int) {
		t.Errorf("IdentityEqual(Int, Int) = false, want true")
	}
}

func TestEqualCompositeTypesRecurse(t *testing.T) {
	a := List{Elem: Int}
	b := List{Elem: Int}
	c := List{Elem: Str}
	if !Equal(a, b) {
		t.Errorf("List[Int] != List[Int]")
	}
	if Equal(a, c) {
		t.Errorf("List[Int] == List[Str]")
	}

	d1 := Dict{Key: Str, Value: Int}
	d2 := Dict{Key: Str, Value: Int}
	d3 := Dict{Key: Str, Value: Bool}
	if !Equal(d1, d2) {
		t.Errorf("Dict[str,int] != Dict[str,int]")
	}
	if Equal(d1, d3) {
		t.Errorf("Dict[str,int] == Dict[str,bool]")
	}
}

func TestEqualNominalTypesCompareByName(t *testing.T) {
	if !Equal(Struct{Name: "Point"}, Struct{Name: "Point"}) {
		t.Errorf("Struct(Point) != Struct(Point)")
	}
	if Equal(Struct{Name: "Point"}, Struct{Name: "Line"}) {
		t.Errorf("Struct(Point) == Struct(Line)")
	}
	if Equal(Struct{Name: "Point"}, Enum{Name: "Point"}) {
		t.Errorf("Struct(Point) == Enum(Point), want distinct kinds")
	}
}

func TestEqualFunctionTypes(t *testing.T) {
	f1 := Function{Params: []Type{Int, Str}, Result: Bool}
	f2 := Function{Params: []Type{Int, Str}, Result: Bool}
	f3 := Function{Params: []Type{Int}, Result: Bool}
	if !Equal(f1, f2) {
		t.Errorf("matching function signatures compared unequal")
	}
	if Equal(f1, f3) {
		t.Errorf("different arity function signatures compared equal")
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric(Int) || !IsNumeric(Float) {
		t.Errorf("Int/Float should be numeric")
	}
	if IsNumeric(Bool) || IsNumeric(Str) {
		t.Errorf("Bool/Str should not be numeric")
	}
}

func TestIsPrintable(t *testing.T) {
	for _, p := range []Primitive{Int, Float, Bool, Str} {
		if !IsPrintable(p) {
			t.Errorf("%v should be printable", p)
		}
	}
	if IsPrintable(Void) || IsPrintable(List{Elem: Int}) {
		t.Errorf("Void/List should not be printable")
	}
}

func TestIsHashable(t *testing.T) {
	for _, p := range []Primitive{Int, Str, Bool} {
		if !IsHashable(p) {
			t.Errorf("%v should be hashable", p)
		}
	}
	if IsHashable(Float) {
		t.Errorf("Float should not be hashable (resolved Open Question)")
	}
}

func TestStringFormsAreHumanReadable(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{Int, "int"},
		{List{Elem: Int}, "List[int]"},
		{Dict{Key: Str, Value: Bool}, "Dict[str, bool]"},
		{Struct{Name: "Point"}, "Point"},
		{Enum{Name: "Color"}, "Color"},
		{Module{Name: "math"}, "module math"},
		{Function{Params: []Type{Int}, Result: Bool}, "fn(int) -> bool"},
	}
	for _, c := range cases {
		if got := c.typ.String(); got != c.want {
			t.Errorf("%#v.String() = %q, want %q", c.typ, got, c.want)
		}
	}
}
