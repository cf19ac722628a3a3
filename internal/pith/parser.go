// parser.go — recursive-descent statement parser with a precedence-climbing
// expression parser.
//
// The parser never consumes NEWLINE inside a statement; it skips newlines at
// statement boundaries and relies on INDENT/DEDENT as the only block
// delimiters. It is deliberately permissive: match() silently tolerates a
// missing token, and only structurally fatal shapes (a foreach without `in`,
// a do without while) record a ParseError. The first recorded error is
// returned alongside whatever partial tree was built.
package pith

import "fmt"

// Parser consumes a token slice and produces an AST.
type Parser struct {
	toks []Token
	pos  int
	err  error
}

// NewParser wraps a token slice produced by the lexer.
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// Parse parses a whole program. When lexing fails the node is nil and err is
// the *LexError; otherwise the node is non-nil and err is the first syntax
// error encountered, if any.
func Parse(src string) (*Node, error) {
	toks, err := NewLexer(src).Scan()
	if err != nil {
		return nil, err
	}
	p := NewParser(toks)
	root := p.parseProgram()
	return root, p.err
}

func (p *Parser) peek() Token { return p.toks[p.pos] }

func (p *Parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) match(tt TokenType) bool {
	if p.peek().Type == tt {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *Parser) checkKw(word string) bool {
	t := p.peek()
	return t.Type == KEYWORD && t.Lexeme == word
}

func (p *Parser) matchKw(word string) bool {
	if p.checkKw(word) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) report(line int, format string, args ...interface{}) {
	if p.err == nil {
		p.err = &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
	}
}

// --- programs and blocks ----------------------------------------------------

func (p *Parser) parseProgram() *Node {
	root := newNode(NdProgram, "root", 0)
	for !p.check(EOF) {
		if p.match(NEWLINE) {
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			root.add(stmt)
		}
	}
	return root
}

// parseBlock consumes `:` NEWLINE INDENT statements DEDENT. A block opener
// not followed by an INDENT (an empty `case 2:` arm falling through to the
// next case) yields an empty block.
func (p *Parser) parseBlock() *Node {
	t := p.peek()
	p.match(COLON)
	for p.match(NEWLINE) {
	}
	block := newNode(NdBlock, "", t.Line)
	if !p.match(INDENT) {
		return block
	}
	for !p.check(DEDENT) && !p.check(EOF) {
		if p.match(NEWLINE) {
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.add(stmt)
		} else {
			p.advance()
		}
	}
	p.match(DEDENT)
	return block
}

// --- expressions ------------------------------------------------------------

// binaryPrec returns the binding power of the binary operator at the current
// token, or 0 when the token does not continue an expression. All Pith binary
// operators are left-associative, including `^`.
func (p *Parser) binaryPrec() (int, string) {
	t := p.peek()
	switch t.Type {
	case KEYWORD:
		switch t.Lexeme {
		case "or":
			return 1, "or"
		case "and":
			return 2, "and"
		}
	case EQ, NEQ:
		return 3, t.Lexeme
	case LT, GT, LTE, GTE:
		return 4, t.Lexeme
	case PLUS, MINUS:
		return 5, t.Lexeme
	case STAR, SLASH, PERCENT:
		return 6, t.Lexeme
	case CARET:
		return 7, t.Lexeme
	}
	return 0, ""
}

func (p *Parser) parseExpression() *Node {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) *Node {
	left := p.parseUnary()
	for {
		prec, op := p.binaryPrec()
		if prec < minPrec || prec == 0 {
			return left
		}
		opTok := p.advance()
		right := p.parseBinary(prec + 1)
		node := newNode(NdBinaryOp, op, opTok.Line)
		node.add(left)
		node.add(right)
		left = node
	}
}

func (p *Parser) parseUnary() *Node {
	if p.check(BANG) || p.check(MINUS) {
		op := p.advance()
		node := newNode(NdUnaryOp, op.Lexeme, op.Line)
		node.add(p.parseUnary())
		return node
	}
	return p.parsePostfix()
}

// parsePostfix parses a primary followed by any chain of calls, field
// accesses, and index accesses.
func (p *Parser) parsePostfix() *Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.check(LPAREN):
			t := p.advance()
			call := newNode(NdCall, "", t.Line)
			call.add(expr)
			if !p.check(RPAREN) {
				call.add(p.parseExpression())
				for p.match(COMMA) {
					call.add(p.parseExpression())
				}
			}
			p.match(RPAREN)
			expr = call
		case p.check(DOT):
			t := p.advance()
			member := p.advance()
			access := newNode(NdFieldAccess, member.Lexeme, t.Line)
			access.add(expr)
			expr = access
		case p.check(LBRACKET):
			t := p.advance()
			index := p.parseExpression()
			p.match(RBRACKET)
			access := newNode(NdIndexAccess, "", t.Line)
			access.add(expr)
			access.add(index)
			expr = access
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() *Node {
	t := p.peek()
	switch {
	case p.matchKw("new"):
		node := newNode(NdNewExpr, "", t.Line)
		node.add(p.parsePostfix())
		return node
	case t.Type == INT_LIT:
		p.advance()
		return newNode(NdIntLit, t.Lexeme, t.Line)
	case t.Type == FLOAT_LIT:
		p.advance()
		return newNode(NdFloatLit, t.Lexeme, t.Line)
	case t.Type == STRING_LIT:
		p.advance()
		return newNode(NdStringLit, t.Lexeme, t.Line)
	case p.checkKw("true") || p.checkKw("false"):
		p.advance()
		return newNode(NdBoolLit, t.Lexeme, t.Line)
	case t.Type == IDENT:
		p.advance()
		return newNode(NdVarRef, t.Lexeme, t.Line)
	case t.Type == LPAREN:
		p.advance()
		expr := p.parseExpression()
		p.match(RPAREN)
		return expr
	case t.Type == LBRACKET:
		p.advance()
		list := newNode(NdListLit, "", t.Line)
		if !p.check(RBRACKET) {
			list.add(p.parseExpression())
			for p.match(COMMA) {
				list.add(p.parseExpression())
			}
		}
		p.match(RBRACKET)
		return list
	case t.Type == LBRACE:
		p.advance()
		m := newNode(NdMapLit, "", t.Line)
		if !p.check(RBRACE) {
			for {
				key := p.parseExpression()
				p.match(COLON)
				val := p.parseExpression()
				m.add(key)
				m.add(val)
				if !p.match(COMMA) {
					break
				}
			}
		}
		p.match(RBRACE)
		return m
	}
	return nil
}

// --- declarations -----------------------------------------------------------

// typeKeywords are the primitive type names that open a typed declaration.
var typeKeywords = map[string]bool{
	"int": true, "string": true, "float": true, "bool": true,
	"map": true, "list": true,
}

// parseGenericSuffix consumes `<T>` or `<K,V>` after a `list`/`map` keyword,
// returning the full declared type name.
func (p *Parser) parseGenericSuffix(base string) string {
	if !p.check(LT) {
		return base
	}
	p.advance()
	inner1 := p.advance()
	if p.match(COMMA) {
		inner2 := p.advance()
		p.match(GT)
		return fmt.Sprintf("%s<%s,%s>", base, inner1.Lexeme, inner2.Lexeme)
	}
	p.match(GT)
	return fmt.Sprintf("%s<%s>", base, inner1.Lexeme)
}

// parseTypedDecl parses a declaration opened by a primitive type keyword:
// optional generics, an optional `[size]` array specifier, a name, and an
// optional initializer.
func (p *Parser) parseTypedDecl() *Node {
	typeName := p.advance() // type keyword
	fullType := typeName.Lexeme
	if typeName.Lexeme == "list" || typeName.Lexeme == "map" {
		fullType = p.parseGenericSuffix(fullType)
	}

	var arraySpec *Node
	if p.check(LBRACKET) {
		p.advance()
		arraySpec = newNode(NdArraySpec, "", p.peek().Line)
		if !p.check(RBRACKET) {
			arraySpec.add(p.parseExpression())
		}
		p.match(RBRACKET)
	}

	name := p.advance()
	node := newNode(NdVarDecl, name.Lexeme, name.Line)
	node.TypeName = fullType
	if arraySpec != nil {
		node.add(arraySpec)
	}
	if p.match(ASSIGN) {
		node.add(p.parseExpression())
	}
	return node
}

// parseUserTypedDecl parses `TypeName name [= expr]` where both tokens are
// identifiers. With no initializer the variable is bound to void.
func (p *Parser) parseUserTypedDecl() *Node {
	typeName := p.advance()
	varName := p.advance()
	node := newNode(NdVarDecl, varName.Lexeme, varName.Line)
	node.TypeName = typeName.Lexeme
	if p.match(ASSIGN) {
		node.add(p.parseExpression())
	}
	return node
}

// parseFuncDef parses `define [ReturnType] Name(params) block`. Return and
// parameter types are consumed and discarded; parameter names are retained.
func (p *Parser) parseFuncDef() *Node {
	p.advance() // define
	var name Token
	if p.peekAt(1).Type == LPAREN {
		name = p.advance()
	} else {
		ret := p.advance() // return type
		if ret.Type == KEYWORD && (ret.Lexeme == "list" || ret.Lexeme == "map") {
			p.parseGenericSuffix(ret.Lexeme)
		}
		if p.check(LBRACKET) {
			p.advance()
			p.match(RBRACKET)
		}
		name = p.advance()
	}

	p.match(LPAREN)
	fn := newNode(NdFuncDef, name.Lexeme, name.Line)
	if !p.check(RPAREN) {
		for {
			p.skipParamType()
			arg := p.advance()
			fn.addArg(arg.Lexeme)
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.match(RPAREN)
	fn.add(p.parseBlock())
	return fn
}

// skipParamType discards a parameter's declared type, if present: either a
// primitive type keyword (with optional generics) or an identifier directly
// followed by the parameter name.
func (p *Parser) skipParamType() {
	t := p.peek()
	if t.Type == KEYWORD && typeKeywords[t.Lexeme] {
		p.advance()
		if t.Lexeme == "list" || t.Lexeme == "map" {
			p.parseGenericSuffix(t.Lexeme)
		}
		return
	}
	if t.Type == IDENT && p.peekAt(1).Type == IDENT {
		p.advance()
	}
}

// parseClassDef parses `class Name [extends Parent]:` followed by a body of
// method definitions, field declarations, and `pass` (discarded).
func (p *Parser) parseClassDef() *Node {
	p.advance() // class
	name := p.advance()
	node := newNode(NdClassDef, name.Lexeme, name.Line)

	// `extends` is a contextual word, not a reserved one.
	if p.check(IDENT) && p.peek().Lexeme == "extends" {
		p.advance()
		parent := p.advance()
		node.Parent = parent.Lexeme
	}

	p.match(COLON)
	p.match(NEWLINE)
	p.match(INDENT)
	for !p.check(DEDENT) && !p.check(EOF) {
		if p.match(NEWLINE) {
			continue
		}
		switch {
		case p.checkKw("define"):
			node.add(p.parseFuncDef())
		case p.matchKw("pass"):
			// nothing: no field, no method
		default:
			typeName := p.advance()
			fullType := typeName.Lexeme
			if typeName.Lexeme == "list" || typeName.Lexeme == "map" {
				fullType = p.parseGenericSuffix(fullType)
			}
			if p.check(LBRACKET) {
				p.advance()
				p.match(RBRACKET)
			}
			fieldName := p.advance()
			field := newNode(NdFieldDecl, fieldName.Lexeme, fieldName.Line)
			field.TypeName = fullType
			node.add(field)
		}
	}
	p.match(DEDENT)
	return node
}

// --- statements -------------------------------------------------------------

func (p *Parser) parseStatement() *Node {
	t := p.peek()

	switch {
	case p.checkKw("class"):
		return p.parseClassDef()

	case p.checkKw("define"):
		return p.parseFuncDef()

	case p.matchKw("print"):
		node := newNode(NdPrint, "", t.Line)
		p.match(LPAREN)
		if !p.check(RPAREN) {
			node.add(p.parseExpression())
			for p.match(COMMA) {
				node.add(p.parseExpression())
			}
		}
		p.match(RPAREN)
		return node

	case p.matchKw("import"):
		name := p.advance()
		return newNode(NdImport, name.Lexeme, name.Line)

	case t.Type == KEYWORD && typeKeywords[t.Lexeme]:
		return p.parseTypedDecl()

	case t.Type == IDENT && p.peekAt(1).Type == IDENT:
		return p.parseUserTypedDecl()

	case p.matchKw("if"):
		node := newNode(NdIf, "", t.Line)
		node.add(p.parseExpression())
		node.add(p.parseBlock())

		current := node
		for p.checkKw("elif") {
			elifTok := p.advance()
			elifNode := newNode(NdIf, "", elifTok.Line)
			elifNode.add(p.parseExpression())
			elifNode.add(p.parseBlock())
			current.add(elifNode)
			current = elifNode
		}
		if p.matchKw("else") {
			current.add(p.parseBlock())
		}
		return node

	case p.matchKw("while"):
		node := newNode(NdWhile, "", t.Line)
		node.add(p.parseExpression())
		node.add(p.parseBlock())
		return node

	case p.matchKw("foreach"):
		p.match(LPAREN)
		typeName := p.advance()
		fullType := typeName.Lexeme
		if typeName.Lexeme == "list" || typeName.Lexeme == "map" {
			fullType = p.parseGenericSuffix(fullType)
		}
		varName := p.advance()
		if !p.matchKw("in") {
			p.report(t.Line, "Expected 'in' keyword in foreach-loop.")
		}
		collection := p.parseExpression()
		p.match(RPAREN)

		node := newNode(NdForeach, varName.Lexeme, t.Line)
		node.TypeName = fullType
		node.add(collection)
		node.add(p.parseBlock())
		return node

	case p.matchKw("for"):
		p.match(LPAREN)
		init := p.parseStatement()
		p.match(SEMICOLON)
		cond := p.parseExpression()
		p.match(SEMICOLON)
		incr := p.parseStatement()
		p.match(RPAREN)

		node := newNode(NdFor, "", t.Line)
		node.add(init)
		node.add(cond)
		node.add(incr)
		node.add(p.parseBlock())
		return node

	case p.matchKw("do"):
		node := newNode(NdDoWhile, "", t.Line)
		node.add(p.parseBlock())
		if p.matchKw("while") {
			p.match(LPAREN)
			node.add(p.parseExpression())
			p.match(RPAREN)
		} else {
			p.report(t.Line, "Expected 'while' after 'do' block.")
		}
		return node

	case p.matchKw("switch"):
		p.match(LPAREN)
		subject := p.parseExpression()
		p.match(RPAREN)

		node := newNode(NdSwitch, "", t.Line)
		node.add(subject)

		p.match(COLON)
		p.match(NEWLINE)
		p.match(INDENT)
		for !p.check(DEDENT) && !p.check(EOF) {
			if p.match(NEWLINE) {
				continue
			}
			switch {
			case p.checkKw("case"):
				caseTok := p.advance()
				caseNode := newNode(NdCase, "", caseTok.Line)
				caseNode.add(p.parseExpression())
				caseNode.add(p.parseBlock())
				node.add(caseNode)
			case p.checkKw("default"):
				defTok := p.advance()
				defNode := newNode(NdDefault, "", defTok.Line)
				defNode.add(p.parseBlock())
				node.add(defNode)
			default:
				p.advance()
			}
		}
		p.match(DEDENT)
		return node

	case p.matchKw("return"):
		node := newNode(NdReturn, "", t.Line)
		node.add(p.parseExpression())
		return node

	case p.matchKw("pass"):
		return newNode(NdBlock, "", t.Line)

	case p.matchKw("break"):
		return newNode(NdBreak, "", t.Line)

	case p.matchKw("continue"):
		return newNode(NdContinue, "", t.Line)
	}

	expr := p.parseExpression()
	if expr != nil {
		if p.match(ASSIGN) {
			right := p.parseExpression()
			node := newNode(NdAssign, "", expr.Line)
			node.add(expr)
			node.add(right)
			return node
		}
		return expr
	}

	p.advance()
	return nil
}
