package parser

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/token"
)

// unaryPrecedence is where a prefix operator (unary '-', 'not', or any
// other operator-class lexeme used as a prefix) binds: tighter than every
// infix operator (<=10 on the spec §6.2 table) but looser than the postfix
// ladder ('.', '[', '(' at 11), so "-a.b" parses as "-(a.b)" while
// "-a * b" parses as "(-a) * b".
const unaryPrecedence = 10

// parseExpr parses a full expression (the Pratt entry point, minimum
// binding power 0).
func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseExprPrec(0)
}

// parseType parses a type annotation: "type = expr(9) | 'proc' anonProcHead"
// (spec §4.1). Minimum binding power 9 admits only '^' (10) and the postfix
// ladder (dot/index/call at 11), e.g. "Box[number]"; every looser operator
// ends the type. ':' never ends up in a type because it scans as COLON,
// not as an infix operator.
func (p *parser) parseType() (ast.Expr, error) {
	if p.tok == token.PROC {
		return p.parseProcType()
	}
	return p.parseExprPrec(9)
}

func (p *parser) parseProcType() (ast.Expr, error) {
	procPos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var paramTypes []ast.Expr
	for p.tok != token.RPAREN {
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		paramTypes = append(paramTypes, ty)
		if p.tok == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	retTy, err := p.parseArrowType()
	if err != nil {
		return nil, err
	}
	return &ast.ProcType{ProcPos: procPos, ParamTypes: paramTypes, ReturnType: retTy}, nil
}

// parseExprPrec parses an expression binding tighter than minPrec.
func (p *parser) parseExprPrec(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	return p.parseExprFromPrefix(left, minPrec)
}

// parseExprFromPrefix continues the infix/postfix ladder given an
// already-parsed leading operand. Split out from parseExprPrec so call-site
// code that must peek past a leading identifier (object-constructor
// "name: value" arguments) can feed that identifier back in as the prefix.
func (p *parser) parseExprFromPrefix(left ast.Expr, minPrec int) (ast.Expr, error) {
	for {
		prec, ok := p.currentInfixPrec()
		if !ok || prec <= minPrec {
			return left, nil
		}
		next, err := p.applyInfix(left, prec)
		if err != nil {
			return nil, err
		}
		left = next
	}
}

// currentInfixPrec reports the left-binding precedence of the current token
// as an infix/left-extension operator. '.', '[' and '(' sit at the tightest
// level (11, spec §6.2) since they are left-extensions of a value, not
// independent operators; the keyword operators and/or/is/in carry their
// precedence on Value.Op exactly like a symbol operator, since the scanner
// populates it identically for both.
func (p *parser) currentInfixPrec() (int, bool) {
	switch p.tok {
	case token.DOT, token.LBRACK, token.LPAREN:
		return 11, true
	case token.OP, token.AND, token.OR, token.IS, token.IN:
		return p.val.Op.Precedence, true
	default:
		return 0, false
	}
}

func (p *parser) applyInfix(left ast.Expr, prec int) (ast.Expr, error) {
	switch p.tok {
	case token.DOT:
		dotPos := p.val.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		return &ast.DotExpr{X: left, Dot: dotPos, Name: name}, nil

	case token.LBRACK:
		return p.parseIndexExpr(left)

	case token.LPAREN:
		return p.parseCallExprTail(left)

	default: // OP, AND, OR, IS, IN
		opVal := p.val
		leftAssoc := opVal.Op.LeftAssoc
		if err := p.advance(); err != nil {
			return nil, err
		}
		nextMin := prec
		if !leftAssoc {
			nextMin = prec - 1
		}
		right, err := p.parseExprPrec(nextMin)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{X: left, OpPos: opVal.Pos, Op: opVal, Y: right}, nil
	}
}

func (p *parser) parseIndexExpr(x ast.Expr) (ast.Expr, error) {
	lbrack := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.tok != token.RBRACK {
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
		if p.tok == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	rbrack, err := p.expect(token.RBRACK)
	if err != nil {
		return nil, err
	}
	return &ast.IndexExpr{X: x, Lbrack: lbrack, Args: args, Rbrack: rbrack}, nil
}

func (p *parser) parseCallExprTail(fn ast.Expr) (ast.Expr, error) {
	lparen := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	args, err := p.parseCallArgs()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Fn: fn, Lparen: lparen, Args: args, Rparen: rparen}, nil
}

// parseCallArgs parses a comma-separated call-argument list. Each argument
// is either a plain expression or a "name: value" ColonExpr pair (valid
// only here, as an object-constructor field initializer).
func (p *parser) parseCallArgs() ([]ast.Expr, error) {
	var args []ast.Expr
	for p.tok != token.RPAREN {
		arg, err := p.parseCallArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.tok == token.COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return args, nil
}

func (p *parser) parseCallArg() (ast.Expr, error) {
	if p.tok != token.IDENT {
		return p.parseExpr()
	}
	id := &ast.Ident{NamePos: p.val.Pos, Name: p.val.Raw}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok != token.COLON {
		// not a colon-pair after all: keep climbing the infix ladder from
		// this identifier like any other expression.
		return p.parseExprFromPrefix(id, 0)
	}
	colonPos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ColonExpr{Name: id, Colon: colonPos, Value: val}, nil
}

// parsePrefix parses an atom or a prefix-operator application: the leaf of
// the Pratt climb before any infix/postfix extension is considered.
func (p *parser) parsePrefix() (ast.Expr, error) {
	switch p.tok {
	case token.NUMBER:
		lit := &ast.NumberLit{ValPos: p.val.Pos, Raw: p.val.Raw, Value: p.val.Number}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil

	case token.STRING:
		lit := &ast.StringLit{ValPos: p.val.Pos, Raw: p.val.Raw, Value: p.val.String}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil

	case token.TRUE:
		lit := &ast.BoolLit{ValPos: p.val.Pos, Value: true}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil

	case token.FALSE:
		lit := &ast.BoolLit{ValPos: p.val.Pos, Value: false}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil

	case token.NULL:
		lit := &ast.NullLit{ValPos: p.val.Pos}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return lit, nil

	case token.IDENT:
		return p.parseIdent()

	case token.LPAREN:
		return p.parseParenExpr()

	case token.IF:
		return p.parseIfExpr()

	case token.PROC:
		return p.parseProcLit()

	case token.NOT, token.OP:
		return p.parseUnary()

	default:
		return nil, p.errorExpected("expression")
	}
}

func (p *parser) parseUnary() (ast.Expr, error) {
	opVal := p.val
	if err := p.advance(); err != nil {
		return nil, err
	}
	x, err := p.parseExprPrec(unaryPrecedence)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{OpPos: opVal.Pos, Op: opVal, X: x}, nil
}

func (p *parser) parseParenExpr() (ast.Expr, error) {
	lparen := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	rparen, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	return &ast.ParenExpr{Lparen: lparen, X: x, Rparen: rparen}, nil
}

func (p *parser) parseIfExpr() (ast.Expr, error) {
	ifExpr := &ast.IfExpr{IfPos: p.val.Pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	ifExpr.Conds = append(ifExpr.Conds, cond)
	ifExpr.Bodies = append(ifExpr.Bodies, body)

	for p.tok == token.ELIF {
		if err := p.advance(); err != nil {
			return nil, err
		}
		c, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		b, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		ifExpr.Conds = append(ifExpr.Conds, c)
		ifExpr.Bodies = append(ifExpr.Bodies, b)
	}

	if p.tok == token.ELSE {
		ifExpr.ElsePos = p.val.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		elseBody, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		ifExpr.Else = elseBody
	}
	return ifExpr, nil
}

// parseProcLit parses an anonymous procedure literal, "proc(params) -> ret
// { body }", used in expression position (no name, no generics).
func (p *parser) parseProcLit() (ast.Expr, error) {
	procPos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	retTy, err := p.parseArrowType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ProcLit{ProcPos: procPos, Params: params, ReturnType: retTy, Body: body}, nil
}
