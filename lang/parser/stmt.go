package parser

import (
	"github.com/mna/bryony/lang/ast"
	"github.com/mna/bryony/lang/token"
)

// parseStmt dispatches on the leading token to one of the grammar's
// statement productions.
func (p *parser) parseStmt() (ast.Stmt, error) {
	switch p.tok {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR, token.LET:
		return p.parseVarDecl()
	case token.PROC:
		return p.parseProcDecl()
	case token.ITERATOR:
		return p.parseIteratorDecl()
	case token.OBJECT:
		return p.parseObjectDecl()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.BREAK:
		pos := p.val.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{BreakPos: pos}, nil
	case token.CONTINUE:
		pos := p.val.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{ContinuePos: pos}, nil
	case token.RETURN:
		return p.parseReturnStmt()
	case token.YIELD:
		return p.parseYieldStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseVarDecl parses "('var'|'let') identDefs", where
// identDefs = Ident {',' Ident} [':' type] ['=' expr].
func (p *parser) parseVarDecl() (ast.Stmt, error) {
	decl := &ast.VarDecl{DeclPos: p.val.Pos, Let: p.tok == token.LET}
	if err := p.advance(); err != nil {
		return nil, err
	}

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	decl.Names = append(decl.Names, name)
	for p.tok == token.COMMA {
		if err := p.advance(); err != nil {
			return nil, err
		}
		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		decl.Names = append(decl.Names, name)
	}

	if p.tok == token.COLON {
		if err := p.advance(); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		decl.Type = ty
	}

	if p.tok == token.ASSIGN {
		if err := p.advance(); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Value = val
	}
	return decl, nil
}

// parseProcDecl parses "'proc' Ident ['[' Gs ']'] '(' params ')' ['->' type] block".
func (p *parser) parseProcDecl() (ast.Stmt, error) {
	procPos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenerics()
	if err != nil {
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
	return &ast.ProcDecl{
		ProcPos:    procPos,
		Name:       name,
		Generics:   generics,
		Params:     params,
		ReturnType: retTy,
		Body:       body,
	}, nil
}

// parseIteratorDecl parses "'iterator' Ident ['[' Gs ']'] '(' params ')'
// ['->' type] block"; it shares the proc's arrow-type syntax, routing the
// arrow type into YieldType instead of ReturnType (the generator rejects a
// missing YieldType, spec §4.5 Iterators).
func (p *parser) parseIteratorDecl() (ast.Stmt, error) {
	iterPos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	yieldTy, err := p.parseArrowType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.IteratorDecl{
		IterPos:   iterPos,
		Name:      name,
		Generics:  generics,
		Params:    params,
		YieldType: yieldTy,
		Body:      body,
	}, nil
}

// parseObjectDecl parses "'object' Ident ['[' Gs ']'] '{' fieldGroup {sep
// fieldGroup} '}'", where each fieldGroup = Ident {',' Ident} ':' type
// shares one type annotation across its names, and groups are separated by
// a linefeed or ';' exactly like any other statement list (no comma
// between groups: that would be ambiguous with the within-group name
// list).
func (p *parser) parseObjectDecl() (ast.Stmt, error) {
	objPos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	generics, err := p.parseGenerics()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}

	var fields []*ast.Field
	if err := p.skipSeparators(); err != nil {
		return nil, err
	}
	for p.tok != token.RBRACE {
		group, err := p.parseFieldGroup()
		if err != nil {
			return nil, err
		}
		fields = append(fields, group...)

		if p.tok == token.RBRACE {
			break
		}
		if p.tok != token.NEWLINE && p.tok != token.SEMI {
			return nil, p.errorExpected("end of field declaration")
		}
		if err := p.skipSeparators(); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ObjectDecl{ObjectPos: objPos, Name: name, Generics: generics, Fields: fields}, nil
}

func (p *parser) parseFieldGroup() ([]*ast.Field, error) {
	var names []*ast.Ident
	id, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	names = append(names, id)
	for p.tok == token.COMMA {
		if err := p.advance(); err != nil {
			return nil, err
		}
		id, err := p.parseIdent()
		if err != nil {
			return nil, err
		}
		names = append(names, id)
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}

	fields := make([]*ast.Field, len(names))
	for i, n := range names {
		fields[i] = &ast.Field{Name: n, Type: ty}
	}
	return fields, nil
}

// parseWhileStmt parses "'while' expr block".
func (p *parser) parseWhileStmt() (ast.Stmt, error) {
	pos := p.val.Pos
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
	return &ast.WhileStmt{WhilePos: pos, Cond: cond, Body: body}, nil
}

// parseForStmt parses "'for' Ident 'in' expr block", requiring the
// post-'in' expression to reduce to a call (the only shape an iterator
// reference can take).
func (p *parser) parseForStmt() (ast.Stmt, error) {
	pos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	varIdent, err := p.parseIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	iterExpr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	call, ok := ast.Unwrap(iterExpr).(*ast.CallExpr)
	if !ok {
		return nil, p.syntaxf(iterExpr.Pos(), "for-loop iterator must be a call expression")
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{ForPos: pos, Var: varIdent, Iter: call, Body: body}, nil
}

// parseReturnStmt parses "'return' [expr]".
func (p *parser) parseReturnStmt() (ast.Stmt, error) {
	pos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	var val ast.Expr
	if p.canStartExpr() {
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		val = v
	}
	return &ast.ReturnStmt{ReturnPos: pos, Value: val}, nil
}

// parseYieldStmt parses "'yield' expr".
func (p *parser) parseYieldStmt() (ast.Stmt, error) {
	pos := p.val.Pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.YieldStmt{YieldPos: pos, Value: val}, nil
}

// parseExprOrAssignStmt parses either a bare expression statement or an
// assignment "lhs = rhs" (spec §4.5 Assignment); whether Left is a valid
// assignment target is left to the generator (ast.IsAssignable).
func (p *parser) parseExprOrAssignStmt() (ast.Stmt, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok == token.ASSIGN {
		pos := p.val.Pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.AssignStmt{Left: e, Assign: pos, Right: rhs}, nil
	}
	return &ast.ExprStmt{X: e}, nil
}
