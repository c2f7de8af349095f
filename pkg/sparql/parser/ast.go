package parser

import (
	"github.com/quercusdb/quercus/pkg/rdf"
)

// Expr is a FILTER/BIND/ORDER BY expression tree node.
type Expr interface {
	exprNode()
}

// ConstExpr is a literal constant.
type ConstExpr struct {
	Value rdf.Value
}

// VarExpr references a variable binding in the current row.
type VarExpr struct {
	Name string
}

// CallExpr calls a built-in operator or function. Operator names are the
// surface symbols ("=", "&&", "+", "!"); function names are uppercase
// ("STRLEN", "IF"). IF and COALESCE are identified by name so the
// evaluator can short-circuit them.
type CallExpr struct {
	Name string
	Args []Expr
}

// ExtExpr calls an extension function registered with the store, by its
// prefixed name (e.g. "quercus:pname").
type ExtExpr struct {
	Name string
	Args []Expr
}

func (*ConstExpr) exprNode() {}
func (*VarExpr) exprNode()   {}
func (*CallExpr) exprNode()  {}
func (*ExtExpr) exprNode()   {}

// Pattern is one position of a triple pattern: either a variable or a
// constant value.
type Pattern struct {
	Var   string // non-empty for a variable position
	Value rdf.Value
}

func Variable(name string) Pattern { return Pattern{Var: name} }
func Constant(v rdf.Value) Pattern { return Pattern{Value: v} }

func (p Pattern) IsVariable() bool { return p.Var != "" }

// TriplePattern matches triples position by position.
type TriplePattern struct {
	Subject   Pattern
	Predicate Pattern
	Object    Pattern
}

// Algebra is a node of the query algebra tree.
type Algebra interface {
	algebraNode()
}

// Basic matches a single triple pattern against the store.
type Basic struct {
	Pattern TriplePattern
}

// Group is a conjunction: children evaluate left to right and inner-join
// into the running solution. Filter and Bind children apply in place.
type Group struct {
	Children []Algebra
}

// Optional left-outer-joins its child against the enclosing group.
type Optional struct {
	Child Algebra
}

// Bind evaluates Expr per row and binds the result to Name.
type Bind struct {
	Expr Expr
	Name string
}

// Filter retains rows whose expression has an effective boolean value of
// true.
type Filter struct {
	Expr Expr
}

func (*Basic) algebraNode()    {}
func (*Group) algebraNode()    {}
func (*Optional) algebraNode() {}
func (*Bind) algebraNode()     {}
func (*Filter) algebraNode()   {}

// OrderKey is one ORDER BY sort key with its direction.
type OrderKey struct {
	Expr Expr
	Desc bool
}

// Query is a parsed SELECT query.
type Query struct {
	Select   []string // projection variables, in SELECT order
	Wildcard bool     // SELECT *
	Distinct bool
	Where    *Group
	OrderBy  []OrderKey
	Limit    *int
}

// Vars returns the variables the algebra binds, in first-appearance
// order: pattern variables position by position, then BIND targets.
func Vars(node Algebra) []string {
	var names []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var walk func(Algebra)
	walk = func(node Algebra) {
		switch n := node.(type) {
		case *Basic:
			add(n.Pattern.Subject.Var)
			add(n.Pattern.Predicate.Var)
			add(n.Pattern.Object.Var)
		case *Group:
			for _, c := range n.Children {
				walk(c)
			}
		case *Optional:
			walk(n.Child)
		case *Bind:
			add(n.Name)
		}
	}
	walk(node)
	return names
}

// Extensions returns the extension function names referenced anywhere in
// the algebra or the given order keys.
func Extensions(node Algebra, orderBy []OrderKey) []string {
	var names []string
	seen := map[string]bool{}
	var walkExpr func(Expr)
	walkExpr = func(e Expr) {
		switch ex := e.(type) {
		case *ExtExpr:
			if !seen[ex.Name] {
				seen[ex.Name] = true
				names = append(names, ex.Name)
			}
			for _, a := range ex.Args {
				walkExpr(a)
			}
		case *CallExpr:
			for _, a := range ex.Args {
				walkExpr(a)
			}
		}
	}
	var walk func(Algebra)
	walk = func(node Algebra) {
		switch n := node.(type) {
		case *Group:
			for _, c := range n.Children {
				walk(c)
			}
		case *Optional:
			walk(n.Child)
		case *Bind:
			walkExpr(n.Expr)
		case *Filter:
			walkExpr(n.Expr)
		}
	}
	walk(node)
	for _, key := range orderBy {
		walkExpr(key.Expr)
	}
	return names
}
