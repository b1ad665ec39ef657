package script

import (
	"sort"
	"strings"
)

// stripComments blanks out comments and regular expression literals while
// keeping string and template literals intact. masked additionally blanks
// the inside of string literals so call sites are only searched in code.
// Newlines survive so offsets map to the same lines as in the source.
func stripComments(src string) (code, masked string) {
	b := []byte(src)
	out := []byte(src)
	var prev byte
	blank := func(from, to int) {
		for ; from < to; from++ {
			if out[from] != '\n' {
				out[from] = ' '
			}
		}
	}
	var strs [][2]int
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '/' && i+1 < len(b) && b[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(b) - i
			}
			blank(i, i+end)
			i += end
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			stop := len(b)
			if end := strings.Index(src[i+2:], "*/"); end >= 0 {
				stop = i + 2 + end + 2
			}
			blank(i, stop)
			i = stop
		case c == '\'' || c == '"' || c == '`':
			end := skipString(src, i)
			strs = append(strs, [2]int{i + 1, end - 1})
			i = end
			prev = c
		case c == '/' && regexAllowed(prev):
			end := skipRegex(src, i)
			if end > i+1 {
				blank(i+1, end)
			}
			i = end
			prev = '/'
		default:
			if !isSpace(c) {
				prev = c
			}
			i++
		}
	}
	code = string(out)
	for _, r := range strs {
		blank(r[0], max(r[0], r[1]))
	}
	return code, string(out)
}

// skipString returns the offset just past the literal opening at i.
// Unterminated single-line strings end at the newline.
func skipString(s string, i int) int {
	quote := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			if quote != '`' {
				return j
			}
		}
	}
	return len(s)
}

// skipRegex returns the offset past a regular expression literal at i, or
// i+1 when the slash turns out to be a division.
func skipRegex(s string, i int) int {
	inClass := false
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return i + 1
		case '/':
			if inClass {
				continue
			}
			j++
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			return j
		}
	}
	return i + 1
}

func regexAllowed(prev byte) bool {
	return prev == 0 || strings.IndexByte("(,=:[!&|?{};+-*%<>~^", prev) >= 0
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

func readIdentifier(s string, i int) (string, int) {
	start := i
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return s[start:i], i
}

// arg is one call argument with its offset in the source.
type arg struct {
	text  string
	start int
}

// readArgs splits the arguments of the call whose '(' is at open. It returns
// the offset of the closing ')', or -1 when the call is unterminated.
func readArgs(s string, open int) ([]arg, int) {
	var args []arg
	depth := 0
	start := open + 1
	for i := open + 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '"', '`':
			i = skipString(s, i) - 1
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				if c != ')' {
					return nil, -1
				}
				if text := strings.TrimSpace(s[start:i]); text != "" || len(args) > 0 {
					args = append(args, arg{text: text, start: start})
				}
				return args, i
			}
			depth--
		case ',':
			if depth == 0 {
				args = append(args, arg{text: strings.TrimSpace(s[start:i]), start: start})
				start = i + 1
			}
		}
	}
	return nil, -1
}

type argKind int

const (
	argLiteral argKind = iota // a single string literal
	argDynamic                // a string assembled at runtime
	argExpr                   // anything else: identifiers, elements, functions
)

// classify reports what a call argument is. For literals it returns the
// unquoted value.
func classify(text string) (argKind, string) {
	if text == "" {
		return argExpr, ""
	}
	if q := text[0]; (q == '\'' || q == '"' || q == '`') && skipString(text, 0) == len(text) {
		body := text[1 : len(text)-1]
		if q == '`' && strings.Contains(body, "${") {
			return argDynamic, ""
		}
		return argLiteral, unescape(body)
	}
	if strings.ContainsAny(text, "'\"`") && !strings.HasPrefix(text, "function") && !strings.Contains(text, "=>") {
		return argDynamic, ""
	}
	return argExpr, ""
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// lineIndex maps byte offsets to 1-based line numbers.
type lineIndex []int

func newLineIndex(s string) lineIndex {
	idx := lineIndex{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (l lineIndex) line(offset int) int {
	return sort.Search(len(l), func(i int) bool { return l[i] > offset })
}
