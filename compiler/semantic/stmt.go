package semantic

import (
	"context"

	"github.com/quasar-lang/quasar/compiler/ast"
	"github.com/quasar-lang/quasar/compiler/diag"
	"github.com/quasar-lang/quasar/compiler/types"
)

// analyzeFuncBody pushes a fresh scope holding the function's parameters,
// checks the body, and enforces spec.md §4.3's return-path guarantee:
// every function (there being no Void return type a user can write) must
// provably return on every path.
func (a *Analyzer) analyzeFuncBody(ctx context.Context, d *ast.FuncDecl) {
	outer := a.scope
	a.scope = newScope(outer)
	for i, p := range d.Params {
		a.scope.declare(p.Name, &symbol{kind: symVar, typ: d.ParamTypes[i]})
	}

	prevReturn := a.currentReturn
	a.currentReturn = d.ResultType

	a.analyzeBlock(ctx, d.Body)

	if !guaranteesReturn(d.Body) {
		a.diags.Add(diag.EMissingReturn, d.Span(), "function %q does not guarantee a return on every path", d.Name)
	}

	a.currentReturn = prevReturn
	a.scope = outer
}

// guaranteesReturn is the conservative syntactic walk spec.md §4.3
// describes: a block guarantees a return iff its last reachable statement
// is a return, or an if/else where both branches guarantee return. Loops
// never count, since they may execute zero times.
func guaranteesReturn(b *ast.Block) bool {
	if len(b.Stmts) == 0 {
		return false
	}
	last := b.Stmts[len(b.Stmts)-1]
	switch s := last.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.IfStmt:
		return s.Else != nil && guaranteesReturn(s.Then) && guaranteesReturn(s.Else)
	default:
		return false
	}
}

func (a *Analyzer) analyzeBlock(ctx context.Context, b *ast.Block) {
	outer := a.scope
	a.scope = newScope(outer)
	for i, s := range b.Stmts {
		b.Stmts[i] = a.analyzeStmt(ctx, s)
	}
	a.scope = outer
}

func (a *Analyzer) analyzeStmt(ctx context.Context, s ast.Stmt) ast.Stmt {
	switch n := s.(type) {
	case *ast.VarDecl:
		a.analyzeVarDecl(ctx, n)
	case *ast.AssignStmt:
		a.analyzeAssign(ctx, n)
	case *ast.ExprStmt:
		n.X = a.analyzeExpr(ctx, n.X)
	case *ast.PrintStmt:
		a.analyzePrint(ctx, n)
	case *ast.IfStmt:
		a.analyzeIf(ctx, n)
	case *ast.WhileStmt:
		a.analyzeWhile(ctx, n)
	case *ast.ForStmt:
		a.analyzeFor(ctx, n)
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.diags.Add(diag.EBreakOutsideLoop, n.Span(), "break outside a loop")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.diags.Add(diag.EContinueOutsideLoop, n.Span(), "continue outside a loop")
		}
	case *ast.ReturnStmt:
		a.analyzeReturn(ctx, n)
	}
	return s
}

func (a *Analyzer) analyzeVarDecl(ctx context.Context, n *ast.VarDecl) {
	declared := a.resolveTypeExpr(n.DeclaredType)
	n.ResolvedType = declared

	n.Init = a.analyzeExprExpect(ctx, n.Init, declared)
	if it := exprType(n.Init); !types.Equal(it, declared) {
		a.diags.Add(diag.ETypeMismatch, n.Init.Span(), "%q declared as %s, initializer is %s", n.Name, declared, it)
	}

	kind := symVar
	if n.Const {
		kind = symConst
	}
	if !a.scope.declare(n.Name, &symbol{kind: kind, typ: declared}) {
		a.diags.Add(diag.EDuplicateDecl, n.Span(), "%q already declared in this scope", n.Name)
	}
}

func (a *Analyzer) analyzeAssign(ctx context.Context, n *ast.AssignStmt) {
	switch target := n.Target.(type) {
	case *ast.Ident:
		sym, ok := a.scope.lookup(target.Name)
		if !ok {
			a.diags.Add(diag.EUnknownIdent, target.Span(), "undeclared identifier %q", target.Name)
			n.Value = a.analyzeExpr(ctx, n.Value)
			return
		}
		if sym.kind == symConst {
			a.diags.Add(diag.EConstRebind, n.Span(), "cannot reassign const %q", target.Name)
		}
		if sym.loopVar {
			a.diags.Add(diag.ELoopVarReassigned, n.Span(), "cannot reassign loop variable %q", target.Name)
		}
		target.Type = sym.typ
		n.Value = a.analyzeExprExpect(ctx, n.Value, sym.typ)
		if vt := exprType(n.Value); !types.Equal(vt, sym.typ) {
			a.diags.Add(diag.ETypeMismatch, n.Value.Span(), "%q is %s, cannot assign %s", target.Name, sym.typ, vt)
		}
	case *ast.IndexExpr:
		n.Target = a.analyzeExpr(ctx, target)
		idx := n.Target.(*ast.IndexExpr)
		rt := exprType(idx.Receiver)

		var elemType types.Type
		switch c := rt.(type) {
		case types.List:
			elemType = c.Elem
		case types.Dict:
			elemType = c.Value
		default:
			elemType = types.Any
		}

		n.Value = a.analyzeExprExpect(ctx, n.Value, elemType)
		if vt := exprType(n.Value); !types.Equal(vt, elemType) {
			a.diags.Add(diag.EIndexAssignType, n.Value.Span(), "assignment expects %s, got %s", elemType, vt)
		}
	case *ast.MemberExpr:
		n.Target = a.analyzeExpr(ctx, target)
		mt := exprType(n.Target)
		n.Value = a.analyzeExprExpect(ctx, n.Value, mt)
		if vt := exprType(n.Value); !types.Equal(vt, mt) {
			a.diags.Add(diag.EStructFieldType, n.Value.Span(), "field assignment expects %s, got %s", mt, vt)
		}
	default:
		n.Value = a.analyzeExpr(ctx, n.Value)
	}
}

func (a *Analyzer) analyzeIf(ctx context.Context, n *ast.IfStmt) {
	n.Cond = a.analyzeExpr(ctx, n.Cond)
	if ct := exprType(n.Cond); !types.Equal(ct, types.Bool) {
		a.diags.Add(diag.EConditionNotBool, n.Cond.Span(), "if condition must be Bool, got %s", ct)
	}
	a.analyzeBlock(ctx, n.Then)
	if n.Else != nil {
		a.analyzeBlock(ctx, n.Else)
	}
}

func (a *Analyzer) analyzeWhile(ctx context.Context, n *ast.WhileStmt) {
	n.Cond = a.analyzeExpr(ctx, n.Cond)
	if ct := exprType(n.Cond); !types.Equal(ct, types.Bool) {
		a.diags.Add(diag.EConditionNotBool, n.Cond.Span(), "while condition must be Bool, got %s", ct)
	}
	a.loopDepth++
	a.analyzeBlock(ctx, n.Body)
	a.loopDepth--
}

// analyzeFor types the iterable per spec.md §4.3's "For-loop typing": a
// range expression yields an Int loop variable; a List[T] receiver yields
// T; anything else is rejected. The loop variable's scope is the body
// alone, and it is marked immutable (E0504 on reassignment).
func (a *Analyzer) analyzeFor(ctx context.Context, n *ast.ForStmt) {
	var varType types.Type

	if rng, ok := n.Iterable.(*ast.RangeExpr); ok {
		rng.Start = a.analyzeExpr(ctx, rng.Start)
		rng.End = a.analyzeExpr(ctx, rng.End)
		if st := exprType(rng.Start); !types.Equal(st, types.Int) {
			a.diags.Add(diag.ERangeEndpointType, rng.Start.Span(), "range start must be Int, got %s", st)
		}
		if et := exprType(rng.End); !types.Equal(et, types.Int) {
			a.diags.Add(diag.ERangeEndpointType, rng.End.Span(), "range end must be Int, got %s", et)
		}
		rng.Type = types.Int
		n.Iterable = rng
		varType = types.Int
	} else {
		n.Iterable = a.analyzeExpr(ctx, n.Iterable)
		it := exprType(n.Iterable)
		lt, ok := it.(types.List)
		if !ok {
			if p, ok := it.(types.Primitive); !ok || p != types.Any {
				a.diags.Add(diag.ENotIterable, n.Iterable.Span(), "%s is not iterable", it)
			}
			varType = types.Any
		} else {
			varType = lt.Elem
		}
	}
	n.VarType = varType

	outer := a.scope
	a.scope = newScope(outer)
	a.scope.declare(n.Var, &symbol{kind: symVar, typ: varType, loopVar: true})

	a.loopDepth++
	a.analyzeBlock(ctx, n.Body)
	a.loopDepth--

	a.scope = outer
}

func (a *Analyzer) analyzeReturn(ctx context.Context, n *ast.ReturnStmt) {
	if a.currentReturn == nil {
		a.diags.Add(diag.EReturnOutsideFunc, n.Span(), "return outside any function body")
		n.Value = a.analyzeExpr(ctx, n.Value)
		return
	}
	n.Value = a.analyzeExprExpect(ctx, n.Value, a.currentReturn)
	if vt := exprType(n.Value); !types.Equal(vt, a.currentReturn) {
		a.diags.Add(diag.EReturnTypeMismatch, n.Value.Span(), "function returns %s, got %s", a.currentReturn, vt)
	}
}

// analyzePrint validates positional arguments, sep/end, and — when the
// first positional argument is a string literal containing `{}`
// placeholders — the format-mode placeholder count (spec.md §4.3, "Print
// statement").
func (a *Analyzer) analyzePrint(ctx context.Context, n *ast.PrintStmt) {
	for i, arg := range n.Args {
		arg = a.analyzeExpr(ctx, arg)
		n.Args[i] = arg
		if at := exprType(arg); !types.IsPrintable(at) && !isAnyPair(at, at) {
			a.diags.Add(diag.EPrintArgType, arg.Span(), "print arguments must be int, float, bool, or str, got %s", at)
		}
	}

	if n.Sep != nil {
		n.Sep = a.analyzeExpr(ctx, n.Sep)
		if st := exprType(n.Sep); !types.Equal(st, types.Str) {
			a.diags.Add(diag.EPrintSepType, n.Sep.Span(), "sep must be Str, got %s", st)
		}
	}
	if n.End != nil {
		n.End = a.analyzeExpr(ctx, n.End)
		if et := exprType(n.End); !types.Equal(et, types.Str) {
			a.diags.Add(diag.EPrintEndType, n.End.Span(), "end must be Str, got %s", et)
		}
	}

	if len(n.Args) == 0 {
		a.diags.Add(diag.EPrintNoArgs, n.Span(), "print requires at least one positional argument")
		return
	}

	lit, isLit := n.Args[0].(*ast.StringLit)
	if !n.FirstIsFormat || !isLit {
		return
	}
	placeholders := ast.ScanPlaceholders(lit.Value)
	if placeholders == 0 {
		return // a plain string with no placeholders is not format mode
	}
	remaining := len(n.Args) - 1
	if placeholders > remaining {
		a.diags.Add(diag.EFormatTooFew, n.Span(), "format string expects %d argument(s), got %d", placeholders, remaining)
	} else if placeholders < remaining {
		a.diags.Add(diag.EFormatTooMany, n.Span(), "format string expects %d argument(s), got %d", placeholders, remaining)
	}
}
