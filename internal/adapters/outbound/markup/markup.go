// Package markup extracts DOM hooks and inline code from HTML and HTML-like
// template files.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
	"golang.org/x/net/html"
)

// templateExpr matches server and client template interpolations.
var templateExpr = regexp.MustCompile(`<%.*?%>|\{\{.*?\}\}|\$\{.*?\}`)

// codeTypes are <script type> values that hold executable code.
var codeTypes = map[string]bool{
	"":                       true,
	"module":                 true,
	"text/javascript":        true,
	"application/javascript": true,
	"text/ecmascript":        true,
	"application/ecmascript": true,
	"text/babel":             true,
	"text/jsx":               true,
}

// HTMLExtractor implements domain.MarkupExtractor using the x/net/html
// tokenizer. Template tags outside attribute values are tokenized as text.
type HTMLExtractor struct{}

func New() *HTMLExtractor {
	return &HTMLExtractor{}
}

func (e *HTMLExtractor) ExtractMarkup(file domain.SourceFile) (domain.MarkupFile, error) {
	out := domain.MarkupFile{Path: file.Path}
	z := html.NewTokenizer(strings.NewReader(file.Content))

	line := 1
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return domain.MarkupFile{}, fmt.Errorf("tokenizing %s: %w", file.Path, z.Err())
		}
		raw := bytes.Clone(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			var attrs []attribute
			if hasAttr {
				attrs = readAttributes(z, raw, line)
			}
			for _, a := range attrs {
				out.Selectors = append(out.Selectors, selectors(file.Path, a)...)
				if isHandler(a.key) {
					out.Inline = append(out.Inline, domain.InlineCode{Line: a.line, Attribute: a.key})
				}
			}
			if tag == "script" && tt == html.StartTagToken && isInlineScript(attrs) {
				out.Inline = append(out.Inline, domain.InlineCode{Line: line})
			}
		}

		line += bytes.Count(raw, []byte("\n"))
	}
	return out, nil
}

type attribute struct {
	key  string
	val  string
	line int
}

// readAttributes returns the tag's attributes with the line each starts on.
func readAttributes(z *html.Tokenizer, raw []byte, line int) []attribute {
	lower := bytes.ToLower(raw)
	cursor := 0
	var out []attribute
	for more := true; more; {
		var k, v []byte
		k, v, more = z.TagAttr()
		if len(k) == 0 {
			continue
		}
		key := string(k)
		at := line
		if idx := bytes.Index(lower[cursor:], k); idx >= 0 {
			at += bytes.Count(raw[:cursor+idx], []byte("\n"))
			cursor += idx + len(k)
		}
		out = append(out, attribute{key: key, val: string(v), line: at})
	}
	return out
}

func selectors(path string, a attribute) []domain.Selector {
	base := domain.Selector{File: path, Line: a.line, Source: domain.KindMarkup}
	static, dynamic := stripTemplates(a.val)

	var out []domain.Selector
	add := func(kind domain.SelectorKind, name, value string) {
		s := base
		s.Kind, s.Name, s.Value = kind, name, value
		out = append(out, s)
	}

	switch {
	case a.key == "class":
		for _, c := range strings.Fields(static) {
			add(domain.SelectorClass, c, "")
		}
		if dynamic {
			s := base
			s.Kind, s.Dynamic = domain.SelectorClass, true
			out = append(out, s)
		}
	case a.key == "id":
		if dynamic {
			s := base
			s.Kind, s.Name, s.Dynamic = domain.SelectorID, strings.TrimSpace(static), true
			out = append(out, s)
		} else if id := strings.TrimSpace(static); id != "" {
			add(domain.SelectorID, id, "")
		}
	case a.key == "role":
		for _, r := range strings.Fields(static) {
			add(domain.SelectorRole, r, "")
		}
	case strings.HasPrefix(a.key, "data-"):
		add(domain.SelectorData, a.key, strings.TrimSpace(static))
		out[len(out)-1].Dynamic = dynamic
	}
	return out
}

// stripTemplates removes template interpolations from an attribute value and
// reports whether any were present.
func stripTemplates(v string) (string, bool) {
	if !templateExpr.MatchString(v) {
		return v, false
	}
	return templateExpr.ReplaceAllString(v, " "), true
}

func isHandler(key string) bool {
	if len(key) <= 2 || !strings.HasPrefix(key, "on") {
		return false
	}
	for _, r := range key[2:] {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func isInlineScript(attrs []attribute) bool {
	typ := ""
	for _, a := range attrs {
		switch a.key {
		case "src":
			return false
		case "type":
			typ = strings.ToLower(strings.TrimSpace(a.val))
		}
	}
	return codeTypes[typ]
}
