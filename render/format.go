package render

import (
	"dql/config"
	"dql/parser"
	"dql/query"
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"strings"
)

// Statements renders the statements in one of the output formats "tree", "json" or "yaml".
func Statements(statements []query.Statement, format string) (string, error) {
	switch format {
	case config.FormatTree:
		var sb strings.Builder
		for _, statement := range statements {
			sb.WriteString(query.Dump(statement))
		}
		return sb.String(), nil
	case config.FormatJson, config.FormatYaml:
		return encode(query.EncodeStatements(statements), format)
	}
	return "", errors.Errorf("Unknown output format '%s'", format)
}

// TokenNode is the plain representation of a token.
type TokenNode struct {
	Kind   string      `json:"kind" yaml:"kind"`
	Lexeme string      `json:"lexeme" yaml:"lexeme"`
	Value  string      `json:"value" yaml:"value"`
	Span   parser.Span `json:"span" yaml:"span"`
}

func EncodeTokens(tokens []*parser.Token) []TokenNode {
	nodes := make([]TokenNode, len(tokens))
	for i, token := range tokens {
		nodes[i] = TokenNode{
			Kind:   kindName(token.Kind()),
			Lexeme: token.Lexeme(),
			Value:  token.Value(),
			Span:   token.Span(),
		}
	}
	return nodes
}

// Tokens renders the tokens in one of the output formats. The "tree" format is a table with one token per line.
func Tokens(tokens []*parser.Token, format string) (string, error) {
	switch format {
	case config.FormatTree:
		var sb strings.Builder
		for _, token := range tokens {
			start := token.Span().Start
			location := fmt.Sprintf("%d:%d", start.Line, start.Column)
			sb.WriteString(fmt.Sprintf("%-8s %-16s %s\n", location, kindName(token.Kind()), token.Lexeme()))
		}
		return sb.String(), nil
	case config.FormatJson, config.FormatYaml:
		return encode(EncodeTokens(tokens), format)
	}
	return "", errors.Errorf("Unknown output format '%s'", format)
}

func encode(value any, format string) (string, error) {
	if format == config.FormatJson {
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "Unable to encode as JSON")
		}
		return string(data) + "\n", nil
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return "", errors.Wrap(err, "Unable to encode as YAML")
	}
	return string(data), nil
}

func kindName(kind parser.TokenKind) string {
	return strings.TrimPrefix(kind.String(), "TokenKind")
}
