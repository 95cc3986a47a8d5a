package sql

import (
	"strconv"
)

// Parser consumes a token stream and produces a SelectStatement. Grounded
// on go-corset's pkg/sexp recursive-descent structure (a cursor over a
// token slice with peek/expect helpers), adapted to this grammar's infix
// clauses rather than s-expressions.
type Parser struct {
	toks []Token
	pos  int
}

// Parse parses a single SELECT statement.
func Parse(query string) (*SelectStatement, error) {
	toks, err := Tokenize(query)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	stmt, err := p.parseSelect()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, grammarErrorf("unexpected trailing input at position %d", p.cur().Pos)
	}
	return stmt, nil
}

func (p *Parser) cur() Token { return p.toks[p.pos] }

func (p *Parser) atEOF() bool { return p.cur().Kind == TokEOF }

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) isKeyword(kw string) bool {
	t := p.cur()
	return t.Kind == TokKeyword && t.Text == kw
}

func (p *Parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return grammarErrorf("expected keyword %q at position %d, found %q", kw, p.cur().Pos, p.cur().Text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	t := p.cur()
	if t.Kind != TokIdent {
		return "", grammarErrorf("expected identifier at position %d, found %q", t.Pos, t.Text)
	}
	p.advance()
	return t.Text, nil
}

func (p *Parser) expectNumber() (uint64, error) {
	t := p.cur()
	if t.Kind != TokNumber {
		return 0, grammarErrorf("expected number at position %d, found %q", t.Pos, t.Text)
	}
	p.advance()
	v, err := strconv.ParseUint(t.Text, 10, 64)
	if err != nil {
		return 0, grammarErrorf("invalid number %q at position %d", t.Text, t.Pos)
	}
	return v, nil
}

// parseSelect implements:
//
//	SELECT <select-list>
//	FROM <table>
//	[JOIN <table> ON <col> = <col>]*
//	[WHERE <predicate>]
//	[GROUP BY <col>[,<col>]*]
//	[HAVING <agg> <op> <number>]
//	[ORDER BY <col> [ASC|DESC]]
func (p *Parser) parseSelect() (*SelectStatement, error) {
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}
	stmt := &SelectStatement{}
	if err := p.parseSelectList(stmt); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	from, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	stmt.From = from

	for p.isJoinStart() {
		jc, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		stmt.Joins = append(stmt.Joins, jc)
	}

	if p.isKeyword("where") {
		p.advance()
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		stmt.Where = pred
	}

	if p.isKeyword("group") {
		p.advance()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stmt.GroupBy = append(stmt.GroupBy, col)
		for p.cur().Kind == TokComma {
			p.advance()
			col, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			stmt.GroupBy = append(stmt.GroupBy, col)
		}
	}

	if p.isKeyword("having") {
		p.advance()
		hc, err := p.parseHaving()
		if err != nil {
			return nil, err
		}
		stmt.Having = hc
	}

	if p.isKeyword("order") {
		p.advance()
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		col, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		dir := Asc
		if p.isKeyword("asc") {
			p.advance()
		} else if p.isKeyword("desc") {
			p.advance()
			dir = Desc
		}
		stmt.OrderBy = append(stmt.OrderBy, OrderByClause{Column: col, Direction: dir})
	}

	return stmt, nil
}

func (p *Parser) parseSelectList(stmt *SelectStatement) error {
	for {
		if p.cur().Kind == TokStar {
			p.advance()
			stmt.Columns = append(stmt.Columns, "*")
		} else if p.isAggregateKeyword() {
			agg, err := p.parseAggregation()
			if err != nil {
				return err
			}
			stmt.Aggregations = append(stmt.Aggregations, agg)
		} else {
			col, err := p.expectIdent()
			if err != nil {
				return err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if p.cur().Kind != TokComma {
			return nil
		}
		p.advance()
	}
}

func (p *Parser) isAggregateKeyword() bool {
	t := p.cur()
	if t.Kind != TokKeyword {
		return false
	}
	switch t.Text {
	case "sum", "count", "max", "min", "avg":
		return true
	default:
		return false
	}
}

func aggFuncFromKeyword(kw string) AggregateFunction {
	switch kw {
	case "sum":
		return FuncSum
	case "count":
		return FuncCount
	case "max":
		return FuncMax
	case "min":
		return FuncMin
	case "avg":
		return FuncAvg
	default:
		return FuncSum
	}
}

func (p *Parser) parseAggregation() (AggregationClause, error) {
	fn := aggFuncFromKeyword(p.cur().Text)
	p.advance()
	if p.cur().Kind != TokLParen {
		return AggregationClause{}, grammarErrorf("expected '(' after aggregate function at position %d", p.cur().Pos)
	}
	p.advance()
	col, err := p.expectIdent()
	if err != nil {
		return AggregationClause{}, err
	}
	if p.cur().Kind != TokRParen {
		return AggregationClause{}, grammarErrorf("expected ')' at position %d", p.cur().Pos)
	}
	p.advance()
	return AggregationClause{Function: fn, Column: col}, nil
}

func (p *Parser) isJoinStart() bool {
	t := p.cur()
	if t.Kind != TokKeyword {
		return false
	}
	switch t.Text {
	case "join", "inner", "left", "right", "full":
		return true
	default:
		return false
	}
}

func (p *Parser) parseJoin() (JoinClause, error) {
	jt := JoinInner
	switch p.cur().Text {
	case "inner":
		p.advance()
	case "left":
		jt = JoinLeft
		p.advance()
	case "right":
		jt = JoinRight
		p.advance()
	case "full":
		jt = JoinFull
		p.advance()
	}
	if err := p.expectKeyword("join"); err != nil {
		return JoinClause{}, err
	}
	table, err := p.expectIdent()
	if err != nil {
		return JoinClause{}, err
	}
	if err := p.expectKeyword("on"); err != nil {
		return JoinClause{}, err
	}
	left, err := p.parseMaybeQualifiedColumn()
	if err != nil {
		return JoinClause{}, err
	}
	if p.cur().Kind != TokOpEqual {
		return JoinClause{}, grammarErrorf("expected '=' in JOIN ON clause at position %d", p.cur().Pos)
	}
	p.advance()
	right, err := p.parseMaybeQualifiedColumn()
	if err != nil {
		return JoinClause{}, err
	}
	return JoinClause{Table: table, LeftColumn: left, RightColumn: right, Type: jt}, nil
}

// parseMaybeQualifiedColumn accepts both "col" and "table.col", discarding
// the table qualifier (the compiler resolves columns against an explicit
// catalog table, not a qualifier string).
func (p *Parser) parseMaybeQualifiedColumn() (string, error) {
	first, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	if p.cur().Kind == TokDot {
		p.advance()
		return p.expectIdent()
	}
	return first, nil
}

// parsePredicate parses an OR-level expression: and-expr (OR and-expr)*.
func (p *Parser) parsePredicate() (*Predicate, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		p.advance()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		left = &Predicate{Op: BoolOr, Left: left, Right: right}
	}
	return left, nil
}

// parseAndExpr parses an AND-level expression: comparison (AND comparison)*.
func (p *Parser) parseAndExpr() (*Predicate, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &Predicate{Op: BoolAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseComparison() (*Predicate, error) {
	col, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var op CompareOp
	switch p.cur().Kind {
	case TokOpLess:
		op = OpLess
	case TokOpGreater:
		op = OpGreater
	case TokOpEqual:
		op = OpEqual
	default:
		return nil, grammarErrorf("expected comparison operator at position %d", p.cur().Pos)
	}
	p.advance()
	val, err := p.expectNumber()
	if err != nil {
		return nil, err
	}
	return leafPredicate(Comparison{Column: col, Op: op, Value: val}), nil
}

func (p *Parser) parseHaving() (*HavingClause, error) {
	if !p.isAggregateKeyword() {
		return nil, grammarErrorf("expected aggregate function in HAVING clause at position %d", p.cur().Pos)
	}
	agg, err := p.parseAggregation()
	if err != nil {
		return nil, err
	}
	var op HavingOp
	switch p.cur().Kind {
	case TokOpLess:
		op = HavingLess
	case TokOpGreater:
		op = HavingGreater
	case TokOpEqual:
		op = HavingEqual
	default:
		return nil, grammarErrorf("expected comparison operator in HAVING clause at position %d", p.cur().Pos)
	}
	p.advance()
	val, err := p.expectNumber()
	if err != nil {
		return nil, err
	}
	return &HavingClause{Aggregation: agg, Op: op, Value: val}, nil
}
