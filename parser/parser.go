// Package parser implements a recursive-descent parser with a Pratt-style
// precedence chain for expressions.
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// Grounded on informatter-nilan/parser/parser.go's token-cursor shape
// (peek/previous/advance/isMatch/consume) and recursive-descent structure,
// generalized from Nilan's expression-and-var-decl-only grammar to the
// full declaration/statement grammar spec.md §4.2/§4.3 requires: function
// and class declarations, call/property-access chains, logical and/or,
// if/while/return, and parse-time `for` desugaring.
package parser

import (
	"lumen/ast"
	"lumen/token"
)

var comparisonKinds = []token.Type{
	token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL,
}

var equalityKinds = []token.Type{token.BANG_EQUAL, token.EQUAL_EQUAL}

var termKinds = []token.Type{token.MINUS, token.PLUS}

var factorKinds = []token.Type{token.STAR, token.SLASH}

var binaryOperators = map[token.Type]ast.BinaryOperator{
	token.PLUS:          ast.BinaryPlus,
	token.MINUS:         ast.BinaryMinus,
	token.STAR:          ast.BinaryStar,
	token.SLASH:         ast.BinarySlash,
	token.EQUAL_EQUAL:   ast.BinaryEqualEqual,
	token.BANG_EQUAL:    ast.BinaryBangEqual,
	token.LESS:          ast.BinaryLess,
	token.LESS_EQUAL:    ast.BinaryLessEqual,
	token.GREATER:       ast.BinaryGreater,
	token.GREATER_EQUAL: ast.BinaryGreaterEqual,
}

// Parser consumes a flat token stream and produces an Ast. Its position is
// always one unit ahead of the token last returned by previous().
type Parser struct {
	tokens   []token.Token
	position int
}

// Make creates a Parser over an already-scanned token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.position]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.position-1]
}

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool {
	return p.peek().Is(token.EOF)
}

func (p *Parser) check(kind token.Type) bool {
	if p.isFinished() {
		return false
	}
	return p.peek().Is(kind)
}

func (p *Parser) match(kinds ...token.Type) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it has the expected kind,
// otherwise returns a ParseError describing what was expected.
func (p *Parser) consume(kind token.Type, expected string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	got := p.peek()
	return token.Token{}, newParseError(got.Span, "Expected %s got %s", expected, got.Type)
}

// Parse parses the entire token stream into a program. The parser is
// fatal-on-first-bad-token: it does not resync past a bad statement and
// returns immediately on the first error (spec.md §7). Per-statement error
// aggregation is the compiler's job, not the parser's (spec.md §4.5/§9).
func (p *Parser) Parse() (ast.Ast, []error) {
	var statements ast.Ast

	for !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, []error{err}
		}
		statements = append(statements, stmt)
	}

	return statements, nil
}

func (p *Parser) declaration() (ast.Stmt, error) {
	switch {
	case p.match(token.VAR):
		return p.varDeclaration()
	case p.match(token.FUN):
		return p.function()
	case p.match(token.CLASS):
		return p.classDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) varDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "variable name")
	if err != nil {
		return nil, err
	}

	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(token.SEMICOLON, "';'"); err != nil {
		return nil, err
	}

	return ast.VarStmt{
		Name:        ast.IdentSpan{Name: name.Lexeme, Span: name.Span},
		Initializer: initializer,
	}, nil
}

// function parses `Identifier ( params? ) { declaration* }`, used both for
// a standalone `fun` declaration and for a class method (spec.md §4.3).
func (p *Parser) function() (ast.FunctionStmt, error) {
	name, err := p.consume(token.IDENTIFIER, "function name")
	if err != nil {
		return ast.FunctionStmt{}, err
	}
	if _, err := p.consume(token.LPAREN, "'(' after function name"); err != nil {
		return ast.FunctionStmt{}, err
	}

	var params []ast.Identifier
	if !p.check(token.RPAREN) {
		for {
			param, err := p.consume(token.IDENTIFIER, "parameter name")
			if err != nil {
				return ast.FunctionStmt{}, err
			}
			params = append(params, param.Lexeme)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "')' after parameters"); err != nil {
		return ast.FunctionStmt{}, err
	}
	if _, err := p.consume(token.LBRACE, "'{' before function body"); err != nil {
		return ast.FunctionStmt{}, err
	}

	body, err := p.block()
	if err != nil {
		return ast.FunctionStmt{}, err
	}

	return ast.FunctionStmt{Name: name.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "class name")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Identifier
	if p.match(token.LESS) {
		super, err := p.consume(token.IDENTIFIER, "superclass name")
		if err != nil {
			return nil, err
		}
		superName := super.Lexeme
		superclass = &superName
	}

	if _, err := p.consume(token.LBRACE, "'{' before class body"); err != nil {
		return nil, err
	}

	var methods []ast.FunctionStmt
	for !p.check(token.RBRACE) && !p.isFinished() {
		method, err := p.function()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := p.consume(token.RBRACE, "'}' after class body"); err != nil {
		return nil, err
	}

	return ast.ClassStmt{Name: name.Lexeme, Superclass: superclass, Methods: methods}, nil
}

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.LBRACE):
		statements, err := p.block()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Statements: statements}, nil
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) printStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';' after value"); err != nil {
		return nil, err
	}
	return ast.PrintStmt{Expression: expr}, nil
}

func (p *Parser) expressionStatement() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "';' after expression"); err != nil {
		return nil, err
	}
	return ast.ExpressionStmt{Expression: expr}, nil
}

func (p *Parser) ifStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPAREN, "'(' after 'if'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "')' after if condition"); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}

	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	return ast.IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch}, nil
}

func (p *Parser) whileStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPAREN, "'(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RPAREN, "')' after while condition"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return ast.WhileStmt{Condition: condition, Body: body}, nil
}

func (p *Parser) returnStatement() (ast.Stmt, error) {
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		var err error
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "';' after return value"); err != nil {
		return nil, err
	}
	return ast.ReturnStmt{Value: value}, nil
}

// forStatement desugars `for (init; cond; incr) body` into an equivalent
// Block/While shape at parse time (spec.md §4.3), omitting the init
// wrapper block when init is absent and the incr body wrapper when incr
// is absent.
func (p *Parser) forStatement() (ast.Stmt, error) {
	if _, err := p.consume(token.LPAREN, "'(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.check(token.VAR):
		p.advance()
		var err error
		initializer, err = p.varDeclaration()
		if err != nil {
			return nil, err
		}
	default:
		var err error
		initializer, err = p.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		var err error
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "';' after loop condition"); err != nil {
		return nil, err
	}

	var increment ast.Expr
	if !p.check(token.RPAREN) {
		var err error
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RPAREN, "')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = ast.BlockStmt{Statements: []ast.Stmt{body, ast.ExpressionStmt{Expression: increment}}}
	}

	if condition == nil {
		condition = ast.Boolean{Value: true}
	}
	loop := ast.WhileStmt{Condition: condition, Body: body}

	if initializer == nil {
		return loop, nil
	}
	return ast.BlockStmt{Statements: []ast.Stmt{initializer, loop}}, nil
}

func (p *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt

	for !p.check(token.RBRACE) && !p.isFinished() {
		stmt, err := p.declaration()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := p.consume(token.RBRACE, "'}' after block"); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

// assignment parses `lhs = rhs` as right-associative, folding a Variable
// LHS into Assign and a Get LHS into Set; any other LHS is an "invalid
// assignment target" error (spec.md §4.2 rule 1).
func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(token.EQUAL) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case ast.Variable:
			return ast.Assign{Name: target.Name, Value: value}, nil
		case ast.Get:
			return ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
		default:
			return nil, newParseError(equals.Span, "Invalid assignment target")
		}
	}

	return expr, nil
}

func (p *Parser) or() (ast.Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(token.OR) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: ast.LogicalOr, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.AND) {
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: ast.LogicalAnd, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.leftAssocBinary(p.comparison, equalityKinds)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.leftAssocBinary(p.term, comparisonKinds)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.leftAssocBinary(p.factor, termKinds)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.leftAssocBinary(p.unary, factorKinds)
}

// leftAssocBinary folds a left-associative chain of binary operators at a
// single precedence level: operand (op operand)*.
func (p *Parser) leftAssocBinary(operand func() (ast.Expr, error), kinds []token.Type) (ast.Expr, error) {
	expr, err := operand()
	if err != nil {
		return nil, err
	}
	for p.match(kinds...) {
		operator := binaryOperators[p.previous().Type]
		right, err := operand()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.BANG, token.MINUS) {
		operatorTok := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		op := ast.UnaryBang
		if operatorTok.Type == token.MINUS {
			op = ast.UnaryMinus
		}
		return ast.Unary{Operator: op, Right: right}, nil
	}
	return p.call()
}

// call parses a primary followed by zero or more `(args)` or `.name`
// suffixes (spec.md §4.2 rule 9).
func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LPAREN):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.DOT):
			name, err := p.consume(token.IDENTIFIER, "property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.Get{Object: expr, Name: name.Lexeme}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RPAREN, "')' after arguments"); err != nil {
		return nil, err
	}
	return ast.Call{Callee: callee, Arguments: args}, nil
}

func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.FALSE):
		return ast.Boolean{Value: false}, nil
	case p.match(token.TRUE):
		return ast.Boolean{Value: true}, nil
	case p.match(token.NIL):
		return ast.Nil{}, nil
	case p.match(token.NUMBER):
		return ast.Number{Value: p.previous().Literal.(float64)}, nil
	case p.match(token.STRING):
		return ast.String{Value: p.previous().Literal.(string)}, nil
	case p.match(token.THIS):
		return ast.This{}, nil
	case p.match(token.SUPER):
		if _, err := p.consume(token.DOT, "'.' after 'super'"); err != nil {
			return nil, err
		}
		method, err := p.consume(token.IDENTIFIER, "superclass method name")
		if err != nil {
			return nil, err
		}
		return ast.Super{Method: method.Lexeme}, nil
	case p.match(token.IDENTIFIER):
		return ast.Variable{Name: p.previous().Lexeme}, nil
	case p.match(token.LPAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RPAREN, "')' after expression"); err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr}, nil
	default:
		got := p.peek()
		return nil, newParseError(got.Span, "unexpected token: %s", got.Type)
	}
}
