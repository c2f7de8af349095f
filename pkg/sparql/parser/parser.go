package parser

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/quercusdb/quercus/pkg/rdf"
)

// ParseError is a compile-time error with the position it was detected
// at.
type ParseError struct {
	Msg  string
	Line int
	Col  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s on line %d col %d", e.Msg, e.Line, e.Col)
}

// implicitPrefixes expand even without a PREFIX declaration, matching
// the namespaces every store carries.
var implicitPrefixes = map[string]string{
	"xsd":  "http://www.w3.org/2001/XMLSchema#",
	"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
	"owl":  "http://www.w3.org/2002/07/owl#",
}

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Parser is a cursor over the query text. Keywords are matched
// case-insensitively at word boundaries; everything else is consumed
// byte by byte.
type Parser struct {
	input       string
	pos         int
	prefixes    map[string]string
	lastKeyword string
}

// Parse parses a SELECT query.
func Parse(input string) (*Query, error) {
	p := &Parser{input: input, prefixes: make(map[string]string)}
	query, err := p.parseQuery()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.pos < len(p.input) {
		return nil, p.errorf("unexpected %q after end of query", p.rest(12))
	}
	return query, nil
}

func (p *Parser) parseQuery() (*Query, error) {
	for p.matchKeyword("PREFIX") {
		if err := p.parsePrefixDecl(); err != nil {
			return nil, err
		}
	}

	if !p.matchKeyword("SELECT") {
		return nil, p.errorf("expected SELECT")
	}

	query := &Query{}
	query.Distinct = p.matchKeyword("DISTINCT")

	for {
		p.skipWhitespace()
		if p.peek() == '*' {
			p.pos++
			query.Wildcard = true
			continue
		}
		if p.peek() == '?' {
			name, err := p.parseVarName()
			if err != nil {
				return nil, err
			}
			query.Select = append(query.Select, name)
			continue
		}
		break
	}
	if !query.Wildcard && len(query.Select) == 0 {
		return nil, p.errorf("expected variables or * after SELECT")
	}
	if dupes := findDupes(query.Select); len(dupes) > 0 {
		return nil, p.errorf("Select clause has duplicates: %s", strings.Join(dupes, " "))
	}

	p.matchKeyword("WHERE")
	p.skipWhitespace()
	if !p.match("{") {
		return nil, p.errorf("expected { to open the WHERE clause")
	}
	where, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	query.Where = where

	if p.matchKeyword("ORDER") {
		if !p.matchKeyword("BY") {
			return nil, p.errorf("expected BY after ORDER")
		}
		keys, err := p.parseOrderKeys()
		if err != nil {
			return nil, err
		}
		query.OrderBy = keys
	}

	if p.matchKeyword("LIMIT") {
		p.skipWhitespace()
		start := p.pos
		for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			p.pos++
		}
		if start == p.pos {
			return nil, p.errorf("expected a count after LIMIT")
		}
		n, err := strconv.Atoi(p.input[start:p.pos])
		if err != nil {
			return nil, p.errorf("bad LIMIT count %q", p.input[start:p.pos])
		}
		query.Limit = &n
	}

	return query, nil
}

func (p *Parser) parsePrefixDecl() error {
	p.skipWhitespace()
	start := p.pos
	for p.pos < len(p.input) && isNameChar(p.input[p.pos]) {
		p.pos++
	}
	prefix := p.input[start:p.pos]
	if !p.match(":") {
		return p.errorf("expected : after PREFIX %s", prefix)
	}
	p.skipWhitespace()
	iri, err := p.parseIRIRef()
	if err != nil {
		return err
	}
	p.prefixes[prefix] = iri
	return nil
}

// parseGroup parses the elements between { and } into a Group,
// preserving their order: triple patterns become Basic nodes, OPTIONAL
// blocks nest, FILTER and BIND stay in place.
func (p *Parser) parseGroup() (*Group, error) {
	group := &Group{}
	for {
		p.skipWhitespace()
		if p.match("}") {
			return group, nil
		}
		if p.pos >= len(p.input) {
			return nil, p.errorf("expected } to close the group")
		}

		switch {
		case p.matchKeyword("OPTIONAL"):
			p.skipWhitespace()
			if !p.match("{") {
				return nil, p.errorf("expected { after OPTIONAL")
			}
			inner, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, &Optional{Child: inner})

		case p.matchKeyword("FILTER"):
			expr, err := p.parseConstraint()
			if err != nil {
				return nil, err
			}
			group.Children = append(group.Children, &Filter{Expr: expr})

		case p.matchKeyword("BIND"):
			p.skipWhitespace()
			if !p.match("(") {
				return nil, p.errorf("expected ( after BIND")
			}
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if !p.matchKeyword("AS") {
				return nil, p.errorf("expected AS in BIND")
			}
			p.skipWhitespace()
			name, err := p.parseVarName()
			if err != nil {
				return nil, err
			}
			p.skipWhitespace()
			if !p.match(")") {
				return nil, p.errorf("expected ) to close BIND")
			}
			group.Children = append(group.Children, &Bind{Expr: expr, Name: name})

		default:
			if err := p.parseTriplesBlock(group); err != nil {
				return nil, err
			}
		}

		p.skipWhitespace()
		p.match(".")
	}
}

// parseTriplesBlock parses one subject with its predicate-object list,
// appending a Basic node per (subject, predicate, object) combination.
// ";" continues with another predicate, "," with another object.
func (p *Parser) parseTriplesBlock(group *Group) error {
	subject, err := p.parsePatternTerm()
	if err != nil {
		return err
	}
	for {
		verb, err := p.parseVerb()
		if err != nil {
			return err
		}
		for {
			object, err := p.parsePatternTerm()
			if err != nil {
				return err
			}
			group.Children = append(group.Children, &Basic{Pattern: TriplePattern{
				Subject:   subject,
				Predicate: verb,
				Object:    object,
			}})
			p.skipWhitespace()
			if !p.match(",") {
				break
			}
		}
		p.skipWhitespace()
		if !p.match(";") {
			return nil
		}
		p.skipWhitespace()
		// a dangling ; before . or } is allowed
		if c := p.peek(); c == '.' || c == '}' {
			return nil
		}
	}
}

func (p *Parser) parseVerb() (Pattern, error) {
	p.skipWhitespace()
	if p.peek() == '?' {
		name, err := p.parseVarName()
		if err != nil {
			return Pattern{}, err
		}
		return Variable(name), nil
	}
	if p.matchKeyword("a") {
		return Constant(rdf.IRI(rdfType)), nil
	}
	return p.parsePatternTerm()
}

// parsePatternTerm parses a term in a triple pattern position: a
// variable, an IRI, a prefixed name, a blank label, or a literal.
func (p *Parser) parsePatternTerm() (Pattern, error) {
	p.skipWhitespace()
	switch c := p.peek(); {
	case c == '?':
		name, err := p.parseVarName()
		if err != nil {
			return Pattern{}, err
		}
		return Variable(name), nil
	case c == '<':
		iri, err := p.parseIRIRef()
		if err != nil {
			return Pattern{}, err
		}
		return Constant(rdf.IRI(iri)), nil
	case c == '\'' || c == '"':
		v, err := p.parseLiteral()
		if err != nil {
			return Pattern{}, err
		}
		return Constant(v), nil
	case c == '+' || c == '-' || isDigit(c):
		v, err := p.parseNumber()
		if err != nil {
			return Pattern{}, err
		}
		return Constant(v), nil
	case isNameStart(c) || c == '_':
		v, err := p.parseNamedTerm()
		if err != nil {
			return Pattern{}, err
		}
		return Constant(v), nil
	default:
		return Pattern{}, p.errorf("expected a variable, IRI, or literal but found %q", p.rest(12))
	}
}

// parseNamedTerm handles true/false, blank labels, and prefixed names
// outside expressions.
func (p *Parser) parseNamedTerm() (rdf.Value, error) {
	name := p.scanPName()
	switch {
	case name == "true":
		return rdf.Bool(true), nil
	case name == "false":
		return rdf.Bool(false), nil
	case strings.HasPrefix(name, "_:"):
		return rdf.Blank(name), nil
	case strings.Contains(name, ":"):
		return rdf.IRI(p.expandPName(name)), nil
	default:
		return rdf.Unbound(), p.errorf("expected a prefixed name but found %q", name)
	}
}

// parseConstraint parses a FILTER constraint: either a bracketted
// expression or a bare function call.
func (p *Parser) parseConstraint() (Expr, error) {
	p.skipWhitespace()
	if p.match("(") {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.match(")") {
			return nil, p.errorf("expected ) to close FILTER")
		}
		return expr, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if !p.match("||") {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &CallExpr{Name: "||", Args: []Expr{left, right}}
	}
}

func (p *Parser) parseAnd() (Expr, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		if !p.match("&&") {
			return left, nil
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &CallExpr{Name: "&&", Args: []Expr{left, right}}
	}
}

var relationalOps = []string{"<=", ">=", "!=", "=", "<", ">"}

func (p *Parser) parseRelational() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	for _, op := range relationalOps {
		if p.match(op) {
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			return &CallExpr{Name: op, Args: []Expr{left, right}}, nil
		}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		var op string
		switch {
		case p.match("+"):
			op = "+"
		case p.match("-"):
			op = "-"
		default:
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &CallExpr{Name: op, Args: []Expr{left, right}}
	}
}

func (p *Parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipWhitespace()
		var op string
		switch {
		case p.match("*"):
			op = "*"
		case p.match("/"):
			op = "/"
		default:
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &CallExpr{Name: op, Args: []Expr{left, right}}
	}
}

func (p *Parser) parseUnary() (Expr, error) {
	p.skipWhitespace()
	for _, op := range []string{"!", "-", "+"} {
		if p.match(op) {
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &CallExpr{Name: op, Args: []Expr{operand}}, nil
		}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (Expr, error) {
	p.skipWhitespace()
	switch c := p.peek(); {
	case c == '(':
		p.pos++
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		p.skipWhitespace()
		if !p.match(")") {
			return nil, p.errorf("expected ) to close the expression")
		}
		return expr, nil
	case c == '?':
		name, err := p.parseVarName()
		if err != nil {
			return nil, err
		}
		return &VarExpr{Name: name}, nil
	case c == '<':
		iri, err := p.parseIRIRef()
		if err != nil {
			return nil, err
		}
		return &ConstExpr{Value: rdf.IRI(iri)}, nil
	case c == '\'' || c == '"':
		v, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ConstExpr{Value: v}, nil
	case isDigit(c):
		v, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return &ConstExpr{Value: v}, nil
	case isNameStart(c) || c == '_':
		return p.parseCallOrName()
	default:
		return nil, p.errorf("expected an expression but found %q", p.rest(12))
	}
}

// parseCallOrName handles identifiers inside expressions: booleans,
// built-in function calls, extension calls, and prefixed-name IRI
// constants.
func (p *Parser) parseCallOrName() (Expr, error) {
	name := p.scanPName()
	if name == "" {
		return nil, p.errorf("expected an identifier but found %q", p.rest(12))
	}
	switch strings.ToLower(name) {
	case "true":
		return &ConstExpr{Value: rdf.Bool(true)}, nil
	case "false":
		return &ConstExpr{Value: rdf.Bool(false)}, nil
	}

	p.skipWhitespace()
	if p.match("(") {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if strings.Contains(name, ":") {
			return &ExtExpr{Name: name, Args: args}, nil
		}
		return &CallExpr{Name: canonicalFunc(name), Args: args}, nil
	}

	switch {
	case strings.HasPrefix(name, "_:"):
		return &ConstExpr{Value: rdf.Blank(name)}, nil
	case strings.Contains(name, ":"):
		return &ConstExpr{Value: rdf.IRI(p.expandPName(name))}, nil
	default:
		return nil, p.errorf("%s is not a known function or prefixed name", name)
	}
}

func (p *Parser) parseArgs() ([]Expr, error) {
	var args []Expr
	p.skipWhitespace()
	if p.match(")") {
		return args, nil
	}
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipWhitespace()
		if p.match(",") {
			continue
		}
		if p.match(")") {
			return args, nil
		}
		return nil, p.errorf("expected , or ) in argument list")
	}
}

func (p *Parser) parseOrderKeys() ([]OrderKey, error) {
	var keys []OrderKey
	for {
		p.skipWhitespace()
		switch {
		case p.matchKeyword("ASC"), p.matchKeyword("DESC"):
			desc := strings.EqualFold(p.lastKeyword, "DESC")
			p.skipWhitespace()
			if !p.match("(") {
				return nil, p.errorf("expected ( after %s", strings.ToUpper(p.lastKeyword))
			}
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.skipWhitespace()
			if !p.match(")") {
				return nil, p.errorf("expected ) to close the sort key")
			}
			keys = append(keys, OrderKey{Expr: expr, Desc: desc})
		case p.peek() == '(':
			p.pos++
			expr, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			p.skipWhitespace()
			if !p.match(")") {
				return nil, p.errorf("expected ) to close the sort key")
			}
			keys = append(keys, OrderKey{Expr: expr})
		case p.peek() == '?':
			name, err := p.parseVarName()
			if err != nil {
				return nil, err
			}
			keys = append(keys, OrderKey{Expr: &VarExpr{Name: name}})
		default:
			if len(keys) == 0 {
				return nil, p.errorf("expected at least one sort key after ORDER BY")
			}
			return keys, nil
		}
	}
}

// ---- literals --------------------------------------------------------------

// parseLiteral parses a quoted string with its optional @lang or
// ^^datatype suffix, producing the corresponding value.
func (p *Parser) parseLiteral() (rdf.Value, error) {
	lexeme, err := p.parseStringBody()
	if err != nil {
		return rdf.Unbound(), err
	}
	switch {
	case p.match("@"):
		start := p.pos
		for p.pos < len(p.input) && (isNameChar(p.input[p.pos]) || p.input[p.pos] == '-') {
			p.pos++
		}
		if start == p.pos {
			return rdf.Unbound(), p.errorf("expected a language tag after @")
		}
		return rdf.String(lexeme, p.input[start:p.pos]), nil
	case p.match("^^"):
		p.skipWhitespace()
		var datatype string
		if p.peek() == '<' {
			datatype, err = p.parseIRIRef()
			if err != nil {
				return rdf.Unbound(), err
			}
		} else {
			name := p.scanPName()
			if !strings.Contains(name, ":") {
				return rdf.Unbound(), p.errorf("expected a datatype IRI after ^^")
			}
			datatype = p.expandPName(name)
		}
		return rdf.LiteralToValue(lexeme, datatype, ""), nil
	default:
		return rdf.String(lexeme, ""), nil
	}
}

func (p *Parser) parseStringBody() (string, error) {
	quote := p.peek()
	long := strings.HasPrefix(p.input[p.pos:], strings.Repeat(string(quote), 3))
	if long {
		p.pos += 3
	} else {
		p.pos++
	}

	var b strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		switch {
		case c == '\\':
			if p.pos+1 >= len(p.input) {
				return "", p.errorf("unterminated escape in string")
			}
			esc := p.input[p.pos+1]
			switch esc {
			case 't':
				b.WriteByte('\t')
			case 'b':
				b.WriteByte('\b')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 'f':
				b.WriteByte('\f')
			case '"', '\'', '\\':
				b.WriteByte(esc)
			default:
				return "", p.errorf("unknown escape \\%c in string", esc)
			}
			p.pos += 2
		case c == quote:
			if long {
				if strings.HasPrefix(p.input[p.pos:], strings.Repeat(string(quote), 3)) {
					p.pos += 3
					return b.String(), nil
				}
				b.WriteByte(c)
				p.pos++
				continue
			}
			p.pos++
			return b.String(), nil
		case !long && (c == '\n' || c == '\r'):
			return "", p.errorf("newline in single-quoted string")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *Parser) parseNumber() (rdf.Value, error) {
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
	}
	digits := false
	for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
		p.pos++
		digits = true
	}
	isFloat := false
	if p.pos < len(p.input) && p.input[p.pos] == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			p.pos++
			digits = true
		}
	}
	if p.pos < len(p.input) && (p.input[p.pos] == 'e' || p.input[p.pos] == 'E') {
		isFloat = true
		p.pos++
		if c := p.peek(); c == '+' || c == '-' {
			p.pos++
		}
		for p.pos < len(p.input) && isDigit(p.input[p.pos]) {
			p.pos++
		}
	}
	text := p.input[start:p.pos]
	if !digits {
		return rdf.Unbound(), p.errorf("expected a number but found %q", text)
	}
	if isFloat {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return rdf.Unbound(), p.errorf("bad numeric literal %q", text)
		}
		return rdf.Float(v), nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return rdf.Unbound(), p.errorf("bad numeric literal %q", text)
	}
	return rdf.Int(v), nil
}

// ---- scanning helpers ------------------------------------------------------

func (p *Parser) parseVarName() (string, error) {
	if p.peek() != '?' {
		return "", p.errorf("expected a variable but found %q", p.rest(12))
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.input) && isNameChar(p.input[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return "", p.errorf("expected a variable name after ?")
	}
	return p.input[start:p.pos], nil
}

func (p *Parser) parseIRIRef() (string, error) {
	if p.peek() != '<' {
		return "", p.errorf("expected < to open an IRI")
	}
	p.pos++
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != '>' {
		if c := p.input[p.pos]; c == '\n' || c == '\r' || c == ' ' {
			return "", p.errorf("whitespace inside IRI")
		}
		p.pos++
	}
	if p.pos >= len(p.input) {
		return "", p.errorf("unterminated IRI")
	}
	iri := p.input[start:p.pos]
	p.pos++
	return iri, nil
}

// scanPName consumes an identifier with an optional :local suffix, e.g.
// "got:Eddard_Stark", "_:b0", or "CONTAINS".
func (p *Parser) scanPName() string {
	start := p.pos
	for p.pos < len(p.input) && isNameChar(p.input[p.pos]) {
		p.pos++
	}
	if p.pos < len(p.input) && p.input[p.pos] == ':' {
		p.pos++
		for p.pos < len(p.input) && (isNameChar(p.input[p.pos]) || p.input[p.pos] == '-') {
			p.pos++
		}
	}
	return p.input[start:p.pos]
}

func (p *Parser) expandPName(name string) string {
	i := strings.Index(name, ":")
	prefix, local := name[:i], name[i+1:]
	if path, ok := p.prefixes[prefix]; ok {
		return path + local
	}
	if path, ok := implicitPrefixes[prefix]; ok {
		return path + local
	}
	return name
}

func (p *Parser) peek() byte {
	if p.pos < len(p.input) {
		return p.input[p.pos]
	}
	return 0
}

func (p *Parser) rest(n int) string {
	end := p.pos + n
	if end > len(p.input) {
		end = len(p.input)
	}
	return p.input[p.pos:end]
}

// match consumes tok when the input starts with it. Single-character
// arithmetic symbols never match the first half of a two-character
// operator ("<" does not consume "<=").
func (p *Parser) match(tok string) bool {
	if !strings.HasPrefix(p.input[p.pos:], tok) {
		return false
	}
	if len(tok) == 1 && p.pos+1 < len(p.input) {
		next := p.input[p.pos+1]
		if (tok == "<" || tok == ">" || tok == "!") && next == '=' {
			return false
		}
	}
	p.pos += len(tok)
	return true
}

// matchKeyword consumes the keyword case-insensitively when it appears
// at a word boundary (not part of a longer identifier or prefixed name).
func (p *Parser) matchKeyword(kw string) bool {
	p.skipWhitespace()
	if len(p.input)-p.pos < len(kw) {
		return false
	}
	if !strings.EqualFold(p.input[p.pos:p.pos+len(kw)], kw) {
		return false
	}
	if end := p.pos + len(kw); end < len(p.input) {
		if c := p.input[end]; isNameChar(c) || c == ':' {
			return false
		}
	}
	p.pos += len(kw)
	p.lastKeyword = kw
	return true
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.input) {
		switch c := p.input[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '#':
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *Parser) errorf(format string, args ...interface{}) *ParseError {
	line, col := 1, 1
	for i := 0; i < p.pos && i < len(p.input); i++ {
		if p.input[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Msg: fmt.Sprintf(format, args...), Line: line, Col: col}
}

func isDigit(c byte) bool     { return c >= '0' && c <= '9' }
func isNameStart(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '_'
}

// canonicalFunc normalizes a built-in function name to its algebra
// spelling. ISURI is the legacy alias of ISIRI.
func canonicalFunc(name string) string {
	upper := strings.ToUpper(name)
	if upper == "ISURI" {
		return "ISIRI"
	}
	return upper
}

func findDupes(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	var dupes []string
	for i := 0; i+1 < len(sorted); i++ {
		if sorted[i] == sorted[i+1] && (len(dupes) == 0 || dupes[len(dupes)-1] != sorted[i]) {
			dupes = append(dupes, sorted[i])
		}
	}
	return dupes
}
