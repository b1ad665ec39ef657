// Package stylesheet extracts the class tokens used in CSS, SCSS and LESS
// selector lists.
package stylesheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// CSSExtractor implements domain.StylesheetExtractor with the tdewolff CSS
// lexer. Preprocessor syntax the lexer does not know is tolerated; only
// `.class` tokens in rule preludes are collected.
type CSSExtractor struct{}

func New() *CSSExtractor {
	return &CSSExtractor{}
}

type token struct {
	tt   css.TokenType
	data []byte
	line int
}

func (e *CSSExtractor) ExtractStylesheet(file domain.SourceFile) (domain.StylesheetFile, error) {
	content := file.Content
	switch strings.ToLower(path.Ext(file.Path)) {
	case ".scss", ".less":
		content = stripLineComments(content)
	}

	out := domain.StylesheetFile{Path: file.Path}
	l := css.NewLexer(parse.NewInputString(content))

	line := 1
	var prelude []token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return domain.StylesheetFile{}, fmt.Errorf("lexing %s: %w", file.Path, err)
			}
			break
		}

		switch tt {
		case css.LeftBraceToken:
			out.Classes = append(out.Classes, classes(file.Path, prelude)...)
			prelude = prelude[:0]
		case css.RightBraceToken, css.SemicolonToken:
			prelude = prelude[:0]
		case css.CommentToken, css.WhitespaceToken:
		default:
			prelude = append(prelude, token{tt: tt, data: bytes.Clone(data), line: line})
		}
		line += bytes.Count(data, []byte("\n"))
	}
	return out, nil
}

// classes returns the .class tokens of a rule prelude. At-rule preludes
// (@media, @supports) carry no selectors.
func classes(file string, prelude []token) []domain.Selector {
	if len(prelude) == 0 || prelude[0].tt == css.AtKeywordToken {
		return nil
	}
	var out []domain.Selector
	for i := 0; i+1 < len(prelude); i++ {
		t := prelude[i]
		if t.tt != css.DelimToken || !bytes.Equal(t.data, []byte(".")) || prelude[i+1].tt != css.IdentToken {
			continue
		}
		out = append(out, domain.Selector{
			Kind:   domain.SelectorClass,
			Name:   string(prelude[i+1].data),
			File:   file,
			Line:   prelude[i+1].line,
			Source: domain.KindStylesheet,
		})
		i++
	}
	return out
}

// stripLineComments blanks // comments outside strings and parentheses, so
// url(http://...) survives.
func stripLineComments(s string) string {
	b := []byte(s)
	var quote byte
	depth := 0
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote || c == '\n' {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == '/' && depth == 0 && i+1 < len(b) && b[i+1] == '/':
			for i < len(b) && b[i] != '\n' {
				b[i] = ' '
				i++
			}
		}
	}
	return string(b)
}
