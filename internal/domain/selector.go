package domain

import (
	"sort"
	"strings"
)

// ParseSelectorList splits a CSS selector string as passed to a DOM query
// into simple selectors. top holds the first compound of every
// comma-separated group, without the tag name when the compound also names a
// class, id, data or role selector; all holds every simple selector.
// Attribute selectors other than data-* and role are ignored, as are
// pseudo-classes.
func ParseSelectorList(raw string) (top, all []Selector) {
	for _, group := range splitTopLevel(raw, ',') {
		for i, compound := range splitCompounds(group) {
			simple := parseCompound(compound)
			if i == 0 {
				top = append(top, unqualified(simple)...)
			}
			all = append(all, simple...)
		}
	}
	return top, all
}

// splitTopLevel splits s on sep outside brackets, parens and quotes.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitCompounds splits one selector group on whitespace and combinators.
func splitCompounds(group string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	var quote byte
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(group); i++ {
		c := group[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(group) {
				i++
				cur.WriteByte(group[i])
			} else if c == quote {
				quote = 0
			}
			continue
		case c == '"' || c == '\'':
			quote = c
		case c == '[' || c == '(':
			depth++
		case c == ']' || c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && (c == ' ' || c == '\t' || c == '\n' || c == '>' || c == '+' || c == '~'):
			flush()
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return out
}

// unqualified drops the tag name from a compound that is identified by
// something else: a[data-js-menu] and button.js-menu are the menu.
func unqualified(compound []Selector) []Selector {
	if len(compound) < 2 || compound[0].Kind != SelectorElement {
		return compound
	}
	return compound[1:]
}

func parseCompound(c string) []Selector {
	var out []Selector
	i := 0
	if i < len(c) && isIdentStart(c[i]) {
		name, n := readIdent(c, i)
		out = append(out, Selector{Kind: SelectorElement, Name: strings.ToLower(name)})
		i = n
	}
	for i < len(c) {
		switch c[i] {
		case '.':
			name, n := readIdent(c, i+1)
			if name != "" {
				out = append(out, Selector{Kind: SelectorClass, Name: name})
			}
			i = max(n, i+1)
		case '#':
			name, n := readIdent(c, i+1)
			if name != "" {
				out = append(out, Selector{Kind: SelectorID, Name: name})
			}
			i = max(n, i+1)
		case '[':
			end := closingBracket(c, i)
			if sel, ok := parseAttribute(c[i+1 : end]); ok {
				out = append(out, sel)
			}
			i = end + 1
		case ':':
			j := i
			for j < len(c) && c[j] == ':' {
				j++
			}
			_, j = readIdent(c, j)
			if j < len(c) && c[j] == '(' {
				j = skipParens(c, j)
			}
			i = j
		default:
			i++
		}
	}
	return out
}

func skipParens(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

func closingBracket(s string, open int) int {
	var quote byte
	for i := open + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ']':
			return i
		}
	}
	return len(s) - 1
}

func parseAttribute(body string) (Selector, bool) {
	body = strings.TrimSpace(body)
	name, value := body, ""
	if idx := strings.IndexAny(body, "~|^$*="); idx >= 0 {
		name = strings.TrimSpace(body[:idx])
		rest := strings.TrimLeft(body[idx:], "~|^$*=")
		value = strings.TrimSpace(rest)
		if fields := strings.Fields(value); len(fields) > 1 && (fields[len(fields)-1] == "i" || fields[len(fields)-1] == "s") {
			value = strings.Join(fields[:len(fields)-1], " ")
		}
		value = strings.Trim(value, `"'`)
	}
	name = strings.ToLower(name)
	switch {
	case name == "role":
		if value == "" {
			return Selector{}, false
		}
		return Selector{Kind: SelectorRole, Name: value}, true
	case strings.HasPrefix(name, "data-"):
		return Selector{Kind: SelectorData, Name: name, Value: value}, true
	}
	return Selector{}, false
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func readIdent(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if isIdentStart(c) || (c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return strings.ReplaceAll(s[start:i], `\`, ""), i
}

// behaviorAttributes take their family from the attribute value.
var behaviorAttributes = map[string]bool{
	"data-js":        true,
	"data-behavior":  true,
	"data-behaviour": true,
	"data-role":      true,
}

// Family returns the component a selector refers to, with the rsjs
// disambiguating prefixes removed: .js-menu, #js-menu, [data-js-menu],
// [data-js~="menu"] and [role~="menu"] all belong to "menu".
func Family(s Selector) string {
	switch s.Kind {
	case SelectorClass, SelectorID:
		return strings.TrimPrefix(s.Name, "js-")
	case SelectorData:
		if behaviorAttributes[s.Name] && s.Value != "" {
			return s.Value
		}
		name := strings.TrimPrefix(s.Name, "data-js-")
		if name == s.Name {
			name = strings.TrimPrefix(s.Name, "data-")
		}
		return name
	default:
		return s.Name
	}
}

// HasJSPrefix reports whether a selector is reserved for scripts by a js-
// or data-js- prefix.
func HasJSPrefix(s Selector) bool {
	switch s.Kind {
	case SelectorClass, SelectorID:
		return strings.HasPrefix(s.Name, "js-")
	case SelectorData:
		return s.Name == "data-js" || strings.HasPrefix(s.Name, "data-js-")
	}
	return false
}

// PrimaryFamilies reduces families to their top-level components. A family
// that extends another present family with "-" or "__" (menu-item, menu__item)
// is folded into it. The result is sorted and deduplicated.
func PrimaryFamilies(families []string) []string {
	set := make(map[string]bool, len(families))
	for _, f := range families {
		if f != "" {
			set[f] = true
		}
	}
	var out []string
	for f := range set {
		parent := false
		for g := range set {
			if g != f && (strings.HasPrefix(f, g+"-") || strings.HasPrefix(f, g+"__")) {
				parent = true
				break
			}
		}
		if !parent {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
