package render

import (
	"dql/parser"
	"strings"
)

// Highlight styles the tokens of the source text. Whitespace and comments between the tokens are kept. When the
// source cannot be tokenized, it is returned unchanged.
func (r *Renderer) Highlight(source string, options parser.Options) string {
	tokens, err := parser.TokenizeWithOptions(source, options)
	if err != nil {
		return source
	}

	runes := []rune(source)
	var sb strings.Builder
	offset := 0
	for _, token := range tokens {
		span := token.Span()
		sb.WriteString(r.trivia(string(runes[offset:span.Start.Offset])))
		sb.WriteString(r.token(token.Kind(), string(runes[span.Start.Offset:span.End.Offset])))
		offset = span.End.Offset
	}
	sb.WriteString(r.trivia(string(runes[offset:])))

	return sb.String()
}

func (r *Renderer) trivia(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	return r.style(r.commentStyle, text)
}

func (r *Renderer) token(kind parser.TokenKind, text string) string {
	switch kind {
	case parser.TokenKindKeyword:
		return r.style(r.keywordStyle, text)
	case parser.TokenKindIdentifier, parser.TokenKindQuotedIdentifier:
		return r.style(r.identifierStyle, text)
	case parser.TokenKindString, parser.TokenKindRegex:
		return r.style(r.stringStyle, text)
	case parser.TokenKindNumber:
		return r.style(r.numberStyle, text)
	case parser.TokenKindOperator:
		return r.style(r.operatorStyle, text)
	case parser.TokenKindNamedParam, parser.TokenKindPositionalParam:
		return r.style(r.paramStyle, text)
	}
	return text
}
