// Package script extracts DOM queries, event bindings, emptiness guards and
// module requires from JavaScript source. Extraction is lexical: comments
// are stripped, then call sites are located by pattern and their arguments
// read with bracket and string awareness.
package script

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rsjslint/rsjslint/internal/domain"
)

// LexicalExtractor implements domain.ScriptExtractor.
type LexicalExtractor struct{}

func New() *LexicalExtractor {
	return &LexicalExtractor{}
}

// receiver is an expression event listeners can be attached to.
type receiver struct {
	target domain.BindingTarget
	query  int // index into queries, -1 for document/window
	end    int // offset where the method chain starts
	full   bool
}

type extraction struct {
	path string
	code string
	// masked is code with string literal contents blanked; call sites are
	// located in masked and their arguments read from code.
	masked   string
	lines    lineIndex
	queries  []domain.Query
	offsets  []int
	ends     []int // offset of each query's closing paren
	bindings []domain.Binding
	boffsets []int
	// heads maps the start offset of every query or global wrapper call to
	// the receiver it yields.
	heads map[int]receiver
	// vars are variables initialized from a query, in source order.
	vars []variable
}

// variable is a declaration holding the result of a query.
type variable struct {
	name  string
	at    int
	query int
}

func (e *LexicalExtractor) ExtractScript(file domain.SourceFile) (domain.ScriptFile, error) {
	code, masked := stripComments(file.Content)
	x := &extraction{
		path:   file.Path,
		code:   code,
		masked: masked,
		lines:  newLineIndex(code),
		heads:  make(map[int]receiver),
	}

	receivers := x.findQueries()
	receivers = append(receivers, x.findGlobals()...)
	receivers = append(receivers, x.findVariables()...)
	sort.SliceStable(receivers, func(i, j int) bool { return receivers[i].end < receivers[j].end })
	for _, r := range receivers {
		x.walkChain(r)
	}
	x.findHandlerProperties()

	out := domain.ScriptFile{Path: file.Path}
	var remap []int
	out.Queries, out.Bindings, remap = x.ordered()
	out.Guards = x.guards(remap)
	if ready := x.matchLines(code, readyPatterns); len(ready) > 0 {
		out.ReadyLine = ready[0]
	}
	out.IncludeGuard = len(x.matchLines(code, includeGuardPatterns)) > 0
	out.Requires = requires(file.Content, code, x.lines)
	for _, r := range out.Requires {
		if r.Kind == domain.RequireSprockets {
			out.Manifest = true
			break
		}
	}
	return out, nil
}

// findQueries records every $(), jQuery(), document.* and nested query call.
func (x *extraction) findQueries() []receiver {
	var out []receiver
	code := x.code

	for _, m := range jqueryHead.FindAllStringSubmatchIndex(x.masked, -1) {
		start := m[2]
		if start > 0 && (isIdentChar(code[start-1]) || code[start-1] == '.') {
			continue
		}
		open := m[1] - 1
		args, end := readArgs(code, open)
		if end < 0 || len(args) == 0 {
			continue
		}
		call := code[m[2]:m[3]]
		kind, value := classify(args[0].text)
		switch kind {
		case argLiteral:
			if strings.HasPrefix(strings.TrimSpace(value), "<") {
				continue
			}
			out = append(out, x.addQuery(start, end, call, value, false, false))
		case argDynamic:
			out = append(out, x.addQuery(start, end, call, "", true, false))
		case argExpr:
			switch t := args[0].text; {
			case t == "document" || t == "document.body" || t == "document.documentElement":
				out = append(out, x.addGlobal(start, end, domain.TargetDocument))
			case t == "window":
				out = append(out, x.addGlobal(start, end, domain.TargetWindow))
			case selectorVariable.MatchString(t):
				out = append(out, x.addQuery(start, end, call, "", true, false))
			}
		}
	}

	for _, m := range documentHead.FindAllStringSubmatchIndex(x.masked, -1) {
		start := m[0]
		open := m[1] - 1
		args, end := readArgs(code, open)
		if end < 0 || len(args) == 0 {
			continue
		}
		call := code[m[2]:m[3]]
		kind, value := classify(args[0].text)
		if kind != argLiteral {
			out = append(out, x.addQuery(start, end, call, "", true, false))
			continue
		}
		out = append(out, x.addQuery(start, end, call, selectorFor(call, value), false, false))
	}

	for _, m := range nestedHead.FindAllStringSubmatchIndex(x.masked, -1) {
		if documentReceiver(code, m[0]) {
			continue
		}
		open := m[1] - 1
		args, end := readArgs(code, open)
		if end < 0 || len(args) == 0 {
			continue
		}
		call := code[m[2]:m[3]]
		switch kind, value := classify(args[0].text); kind {
		case argLiteral:
			out = append(out, x.addQuery(m[2], end, call, value, false, true))
		case argDynamic:
			out = append(out, x.addQuery(m[2], end, call, "", true, true))
		}
	}
	return out
}

// documentReceiver reports whether the member call at dot is on document.
func documentReceiver(code string, dot int) bool {
	i := dot
	for i > 0 && isSpace(code[i-1]) {
		i--
	}
	return strings.HasSuffix(code[:i], "document") && (i == len("document") || !isIdentChar(code[i-len("document")-1]))
}

// selectorFor rewrites getElementById and getElementsByClassName arguments
// into the equivalent CSS selector.
func selectorFor(call, value string) string {
	switch call {
	case "getElementById":
		return "#" + strings.TrimSpace(value)
	case "getElementsByClassName":
		return "." + strings.Join(strings.Fields(value), ".")
	}
	return value
}

func (x *extraction) addQuery(start, end int, call, raw string, dynamic, nested bool) receiver {
	line := x.lines.line(start)
	q := domain.Query{Line: line, Call: call, Raw: raw, Dynamic: dynamic, Nested: nested}
	if !dynamic {
		top, all := domain.ParseSelectorList(raw)
		q.TopLevel = x.stamp(top, line)
		q.All = x.stamp(all, line)
	}
	x.queries = append(x.queries, q)
	x.offsets = append(x.offsets, start)
	x.ends = append(x.ends, end)
	r := receiver{target: domain.TargetSelector, query: len(x.queries) - 1, end: end + 1, full: true}
	x.heads[start] = r
	return r
}

func (x *extraction) stamp(sels []domain.Selector, line int) []domain.Selector {
	for i := range sels {
		sels[i].File = x.path
		sels[i].Line = line
		sels[i].Source = domain.KindScript
	}
	return sels
}

func (x *extraction) addGlobal(start, end int, target domain.BindingTarget) receiver {
	r := receiver{target: target, query: -1, end: end + 1, full: true}
	x.heads[start] = r
	return r
}

// findGlobals returns bare document and window references. Only the method
// called directly on them can register a listener.
func (x *extraction) findGlobals() []receiver {
	var out []receiver
	for _, m := range globalIdent.FindAllStringSubmatchIndex(x.masked, -1) {
		target := domain.TargetDocument
		if x.code[m[2]:m[3]] == "window" {
			target = domain.TargetWindow
		}
		out = append(out, receiver{target: target, query: -1, end: m[3], full: false})
	}
	return out
}

// findVariables returns every later reference to a variable initialized
// from a query or a wrapped document/window.
func (x *extraction) findVariables() []receiver {
	var out []receiver
	for _, m := range declaration.FindAllStringSubmatchIndex(x.masked, -1) {
		head, ok := x.heads[m[1]]
		if !ok {
			continue
		}
		name := x.code[m[2]:m[3]]
		if head.target == domain.TargetSelector && head.query >= 0 {
			x.vars = append(x.vars, variable{name: name, at: m[0], query: head.query})
		}
		use := regexp.MustCompile(`(?:^|[^\w$.])` + regexp.QuoteMeta(name) + `\s*\.`)
		for _, u := range use.FindAllStringIndex(x.masked[m[1]:], -1) {
			at := m[1] + u[1] - 1
			for at > 0 && x.code[at] != '.' {
				at--
			}
			r := head
			r.end = at
			out = append(out, r)
		}
	}
	return out
}

// walkChain follows .method() calls after a receiver and records event
// bindings. A nested query ends the chain; it is walked on its own.
func (x *extraction) walkChain(r receiver) {
	code := x.code
	pos := r.end
	for {
		dot := skipSpace(code, pos)
		if dot >= len(code) || code[dot] != '.' {
			return
		}
		nameStart := skipSpace(code, dot+1)
		name, after := readIdentifier(code, nameStart)
		if name == "" {
			return
		}
		open := skipSpace(code, after)
		if open >= len(code) || code[open] != '(' {
			if !r.full {
				return
			}
			pos = after
			continue
		}
		args, end := readArgs(code, open)
		if end < 0 {
			return
		}
		if nestedHead.MatchString(code[dot : open+1]) {
			return
		}
		if _, ok := bindingMethods[name]; ok && len(args) > 0 {
			x.addBinding(r, name, args, nameStart, end)
		} else if !r.full {
			return
		}
		pos = end + 1
	}
}

func (x *extraction) addBinding(r receiver, method string, args []arg, at, end int) {
	b := domain.Binding{
		Line:     x.lines.line(at),
		Method:   method,
		Target:   r.target,
		Query:    r.query,
		Delegate: -1,
		Event:    bindingMethods[method],
	}

	eventArg := 0
	switch method {
	case "delegate":
		eventArg = 1
		if kind, value := classify(args[0].text); kind != argExpr {
			b.Delegated = true
			b.Delegate = x.delegateQuery(args[0], method, value, kind == argDynamic)
		}
	case "on", "one":
		if len(args) >= 3 {
			if kind, value := classify(args[1].text); kind != argExpr {
				b.Delegated = true
				b.Delegate = x.delegateQuery(args[1], method, value, kind == argDynamic)
			}
		}
	case "addEventListener":
		if r.target != domain.TargetSelector && len(args) >= 2 {
			b.Delegate = x.queryWithin(args[1].start, end)
			b.Delegated = b.Delegate >= 0
		}
	}
	if b.Event == "" && eventArg < len(args) {
		if kind, value := classify(args[eventArg].text); kind == argLiteral {
			b.Event = strings.Join(strings.Fields(value), " ")
		}
	}

	x.bindings = append(x.bindings, b)
	x.boffsets = append(x.boffsets, at)
}

func (x *extraction) delegateQuery(a arg, method, value string, dynamic bool) int {
	start := skipSpace(x.code, a.start)
	return x.addQuery(start, start, method, value, dynamic, true).query
}

// queryWithin returns the first nested query located between from and to,
// as used by event.target.closest(...) delegation inside a handler.
func (x *extraction) queryWithin(from, to int) int {
	for i, off := range x.offsets {
		if off >= from && off < to && x.queries[i].Nested {
			return i
		}
	}
	return -1
}

func (x *extraction) findHandlerProperties() {
	for _, m := range handlerProperty.FindAllStringSubmatchIndex(x.masked, -1) {
		target := domain.TargetDocument
		if x.code[m[2]:m[3]] == "window" {
			target = domain.TargetWindow
		}
		event := x.code[m[4]:m[5]]
		x.bindings = append(x.bindings, domain.Binding{
			Line:     x.lines.line(m[0]),
			Method:   "on" + event,
			Event:    event,
			Target:   target,
			Query:    -1,
			Delegate: -1,
		})
		x.boffsets = append(x.boffsets, m[0])
	}
}

// ordered returns queries and bindings in source order with binding
// indexes remapped accordingly. remap maps extraction order to source order.
func (x *extraction) ordered() ([]domain.Query, []domain.Binding, []int) {
	qperm := make([]int, len(x.queries))
	for i := range qperm {
		qperm[i] = i
	}
	sort.SliceStable(qperm, func(a, b int) bool { return x.offsets[qperm[a]] < x.offsets[qperm[b]] })
	remap := make([]int, len(qperm))
	queries := make([]domain.Query, len(qperm))
	for newIdx, oldIdx := range qperm {
		remap[oldIdx] = newIdx
		queries[newIdx] = x.queries[oldIdx]
	}

	bperm := make([]int, len(x.bindings))
	for i := range bperm {
		bperm[i] = i
	}
	sort.SliceStable(bperm, func(a, b int) bool { return x.boffsets[bperm[a]] < x.boffsets[bperm[b]] })
	bindings := make([]domain.Binding, len(bperm))
	for newIdx, oldIdx := range bperm {
		b := x.bindings[oldIdx]
		if b.Query >= 0 {
			b.Query = remap[b.Query]
		}
		if b.Delegate >= 0 {
			b.Delegate = remap[b.Delegate]
		}
		bindings[newIdx] = b
	}
	if len(queries) == 0 {
		queries = nil
	}
	if len(bindings) == 0 {
		bindings = nil
	}
	return queries, bindings, remap
}

// guards finds emptiness checks on query results: a variable initialized
// from a query tested with .length, ! or null, or a query call followed by
// a tested .length. Checks on anything else are not guards.
func (x *extraction) guards(remap []int) []domain.Guard {
	seen := make(map[domain.Guard]bool)
	var out []domain.Guard
	add := func(at, query int) {
		g := domain.Guard{Line: x.lines.line(at), Query: remap[query]}
		if !seen[g] {
			seen[g] = true
			out = append(out, g)
		}
	}

	for _, re := range guardPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(x.masked, -1) {
			if m[2] > 0 && (isIdentChar(x.masked[m[2]-1]) || x.masked[m[2]-1] == '.') {
				continue
			}
			if q := x.queryHeldBy(x.masked[m[2]:m[3]], m[0]); q >= 0 {
				add(m[0], q)
			}
		}
	}

	for i, end := range x.ends {
		if x.queries[i].Nested || end+1 > len(x.masked) {
			continue
		}
		rest := x.masked[end+1:]
		if lengthCompared.MatchString(rest) {
			add(x.offsets[i], i)
			continue
		}
		from := max(0, x.offsets[i]-16)
		if lengthTested.MatchString(rest) && lengthTest.MatchString(x.masked[from:x.offsets[i]]) {
			add(x.offsets[i], i)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Query < out[j].Query
	})
	return out
}

// queryHeldBy returns the query the variable name was last initialized from
// before offset at, or -1.
func (x *extraction) queryHeldBy(name string, at int) int {
	query := -1
	for _, v := range x.vars {
		if v.at >= at {
			break
		}
		if v.name == name {
			query = v.query
		}
	}
	return query
}

func (x *extraction) matchLines(text string, patterns []*regexp.Regexp) []int {
	seen := make(map[int]bool)
	var out []int
	for _, re := range patterns {
		for _, m := range re.FindAllStringIndex(text, -1) {
			if line := x.lines.line(m[0]); !seen[line] {
				seen[line] = true
				out = append(out, line)
			}
		}
	}
	sort.Ints(out)
	return out
}

// requires collects sprockets directives from the raw source and module
// requires from the comment-free code.
func requires(raw, code string, lines lineIndex) []domain.Require {
	var out []domain.Require
	for i, text := range strings.Split(raw, "\n") {
		m := sprocketsDirective.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out = append(out, domain.Require{
			Line:      i + 1,
			Kind:      domain.RequireSprockets,
			Directive: m[1],
			Path:      strings.Trim(m[2], `'"`),
		})
	}
	for _, m := range commonJSRequire.FindAllStringSubmatchIndex(code, -1) {
		out = append(out, domain.Require{
			Line: lines.line(m[0]),
			Kind: domain.RequireCommonJS,
			Path: code[m[2]:m[3]],
		})
	}
	for _, m := range esImport.FindAllStringSubmatchIndex(code, -1) {
		path := ""
		if m[2] >= 0 {
			path = code[m[2]:m[3]]
		} else if m[4] >= 0 {
			path = code[m[4]:m[5]]
		}
		out = append(out, domain.Require{Line: lines.line(m[0]), Kind: domain.RequireImport, Path: path})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Line < out[j].Line })
	return out
}
