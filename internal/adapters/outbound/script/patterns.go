package script

import "regexp"

var (
	// jqueryHead matches $( and jQuery( calls. The character before is checked
	// separately so member calls like foo.$( are skipped.
	jqueryHead = regexp.MustCompile(`(\$|\bjQuery)\s*\(`)
	// documentHead matches document-rooted DOM queries.
	documentHead = regexp.MustCompile(`\bdocument\s*\.\s*(querySelectorAll|querySelector|getElementById|getElementsByClassName)\s*\(`)
	// nestedHead matches queries scoped to an element already located.
	nestedHead = regexp.MustCompile(`\.\s*(find|children|closest|parents|siblings|querySelectorAll|querySelector|matches)\s*\(`)
	// globalIdent matches bare document and window references.
	globalIdent = regexp.MustCompile(`(?:^|[^\w$.])(document|window)\s*\.`)
	// handlerProperty matches window.onresize = fn style registrations.
	handlerProperty = regexp.MustCompile(`\b(window|document)\s*\.\s*on([a-z]+)\s*=[^=]`)
	// declaration matches variable declarations; the initializer is checked
	// against the query heads.
	declaration = regexp.MustCompile(`\b(?:var|let|const)\s+([$A-Za-z_][\w$]*)\s*=\s*`)
	// selectorVariable names an identifier likely to hold a selector string.
	selectorVariable = regexp.MustCompile(`(?i)^[$\w]*sel(ector)?s?$`)

	// guardPatterns match emptiness checks; the group captures the variable
	// tested, which counts only when it holds a query result.
	guardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`([$A-Za-z_][\w$]*)\s*\.\s*length\s*(?:===?|!==?|<=?|>=?)\s*\d`),
		regexp.MustCompile(`\d\s*(?:===?|!==?|<=?|>=?)\s*([$A-Za-z_][\w$]*)\s*\.\s*length\b`),
		regexp.MustCompile(`!\s*([$A-Za-z_][\w$]*)\s*\.\s*length\b`),
		regexp.MustCompile(`\bif\s*\(\s*!?\s*([$A-Za-z_][\w$]*)(?:\s*\.\s*length)?\s*\)`),
		regexp.MustCompile(`([$A-Za-z_][\w$]*)\s*[!=]==?\s*null\b`),
		regexp.MustCompile(`\bnull\s*[!=]==?\s*([$A-Za-z_][\w$]*)`),
	}
	// lengthCompared and lengthTested follow a query call, as in
	// $('.js-menu').length === 0; lengthTest precedes a bare .length.
	lengthCompared = regexp.MustCompile(`^\s*\.\s*length\s*(?:===?|!==?|<=?|>=?)\s*\d`)
	lengthTested   = regexp.MustCompile(`^\s*\.\s*length\b`)
	lengthTest     = regexp.MustCompile(`(?:!|\bif\s*\(\s*!?|\d\s*(?:===?|!==?|<=?|>=?))\s*$`)

	readyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:\$|\bjQuery)\s*\(\s*(?:function\b|(?:\([^)]*\)|[\w$]+)\s*=>)`),
		regexp.MustCompile(`(?:\$|\bjQuery)\s*\(\s*document\s*\)\s*\.\s*ready\s*\(`),
		regexp.MustCompile(`(?:\$|\bjQuery)\s*\(\s*document\s*\)\s*\.\s*on\s*\(\s*['"](?:turbolinks:load|turbo:load|page:load|page:change)['"]`),
		regexp.MustCompile(`addEventListener\s*\(\s*['"](?:DOMContentLoaded|turbolinks:load|turbo:load)['"]`),
	}

	// includeGuardPatterns match markers left on initialized elements, or a
	// flag tested before an early return.
	includeGuardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bonmount\s*\(`),
		regexp.MustCompile(`(?i)\.data\s*\(\s*['"][\w-]*(?:init|bound|loaded)`),
		regexp.MustCompile(`(?i)\.(?:attr|getAttribute|hasAttribute)\s*\(\s*['"]data-[\w-]*(?:init|bound|loaded)`),
		regexp.MustCompile(`(?i)\.dataset\s*\.\s*\w*(?:init|bound|loaded)`),
		regexp.MustCompile(`(?i):not\(\s*\[\s*data-[\w-]*(?:init|bound|loaded)`),
		regexp.MustCompile(`(?i)\bif\s*\([^)]*(?:init|loaded|enabled|bound)\w*[^)]*\)\s*\{?\s*return\b`),
	}

	sprocketsDirective = regexp.MustCompile(`^\s*(?://|#|\*|/\*)=\s*(require_tree|require_directory|require_self|require|include|stub)\b[ \t]*([^\s*]*)`)
	commonJSRequire    = regexp.MustCompile(`\brequire\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	esImport           = regexp.MustCompile(`\bimport\s+(?:[\w$*{}\s,]+?\s+from\s+)?['"]([^'"]+)['"]|\bimport\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

// bindingMethods register event listeners. The value is the event a
// shorthand binds, empty for methods taking the event as an argument.
var bindingMethods = map[string]string{
	"on":               "",
	"one":              "",
	"bind":             "",
	"live":             "",
	"delegate":         "",
	"addEventListener": "",
	"click":            "click",
	"dblclick":         "dblclick",
	"submit":           "submit",
	"change":           "change",
	"focus":            "focus",
	"blur":             "blur",
	"focusin":          "focusin",
	"focusout":         "focusout",
	"keyup":            "keyup",
	"keydown":          "keydown",
	"keypress":         "keypress",
	"mouseenter":       "mouseenter",
	"mouseleave":       "mouseleave",
	"mouseover":        "mouseover",
	"mouseout":         "mouseout",
	"mousedown":        "mousedown",
	"mouseup":          "mouseup",
	"hover":            "hover",
	"scroll":           "scroll",
	"resize":           "resize",
	"contextmenu":      "contextmenu",
}
