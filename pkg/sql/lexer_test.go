package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeBasicQuery(t *testing.T) {
	toks, err := Tokenize("SELECT id FROM orders WHERE amount < 100")
	require.NoError(t, err)

	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokKeyword, TokIdent, TokKeyword, TokIdent, TokKeyword, TokIdent,
		TokOpLess, TokNumber, TokEOF,
	}, kinds)
}

func TestTokenizeKeywordsAreCaseInsensitive(t *testing.T) {
	toks, err := Tokenize("SeLeCt")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, TokKeyword, toks[0].Kind)
	assert.Equal(t, "select", toks[0].Text)
}

func TestTokenizePunctuation(t *testing.T) {
	toks, err := Tokenize("a.b, (c) * =")
	require.NoError(t, err)
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []TokenKind{
		TokIdent, TokDot, TokIdent, TokComma, TokLParen, TokIdent, TokRParen,
		TokStar, TokOpEqual, TokEOF,
	}, kinds)
}

func TestTokenizeRejectsUnexpectedCharacter(t *testing.T) {
	_, err := Tokenize("SELECT id FROM orders WHERE amount # 1")
	assert.Error(t, err)
	var ce *CompileError
	assert.ErrorAs(t, err, &ce)
	assert.Equal(t, KindGrammar, ce.Kind)
}

func TestTokenizeNumber(t *testing.T) {
	toks, err := Tokenize("12345")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "12345", toks[0].Text)
}
