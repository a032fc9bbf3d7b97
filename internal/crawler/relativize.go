package crawler

import (
	"errors"
	"strings"
)

// ErrInvalidExpression reports an XPath expression the relativizer could not
// parse, typically an unterminated string literal. The original expression is
// returned alongside the error so callers can decide how to degrade.
var ErrInvalidExpression = errors.New("crawlbus: xpath expression cannot be relativized")

// nonMatchingExpression can never be true (an "a" element whose name is "b"),
// so it preserves union arity without ever matching a node.
const nonMatchingExpression = `a[name() = 'b']`

const xpathSpace = " \t\n\r"

// unreachableAxes are the axes that cannot be traversed from the synthetic
// root node used during relative evaluation: it has no ancestors, siblings,
// or attributes of its own.
var unreachableAxes = []string{
	"ancestor-or-self::",
	"ancestor::",
	"attribute::",
	"following-sibling::",
	"following::",
	"namespace::",
	"parent::",
	"preceding-sibling::",
	"preceding::",
}

// Relativize rewrites each top-level union branch of an XPath expression so
// that it matches only within the subtree rooted at the context node. An
// absolute expression like //div[@id='x'] becomes
// descendant-or-self::div[@id='x'], which a caller can evaluate per node with
// that node as the query context.
//
// Quoted literals and bracketed predicates are never interpreted as branch
// separators; quote skipping takes precedence over bracket counting so that
// brackets inside string literals do not disturb the depth tracking. When the
// expression cannot be parsed, the input is returned verbatim together with
// ErrInvalidExpression.
func Relativize(xpath string) (string, error) {
	xpathLen := len(xpath)
	openedBrackets := 0
	startPosition := spn(xpath, xpathSpace, 0)

	// A blank expression means "no matches" to the caller, which skips
	// evaluation entirely on it. Only empty union branches get the sentinel.
	if startPosition == xpathLen {
		return "", nil
	}

	var expressions []string

	for i := startPosition; i <= xpathLen; i++ {
		i += cspn(xpath, `"'[]|`, i)

		if i < xpathLen {
			switch xpath[i] {
			case '"', '\'':
				closing := strings.IndexByte(xpath[i+1:], xpath[i])
				if closing < 0 {
					return xpath, ErrInvalidExpression
				}
				i += 1 + closing
				continue
			case '[':
				openedBrackets++
				continue
			case ']':
				openedBrackets--
				continue
			}
		}
		if openedBrackets != 0 {
			continue
		}

		parenthesis := ""
		if startPosition < xpathLen && xpath[startPosition] == '(' {
			// A union inside braces keeps its opening braces; the rewrite
			// applies to the expression inside them.
			j := 1 + spn(xpath, "("+xpathSpace, startPosition+1)
			parenthesis = xpath[startPosition : startPosition+j]
			startPosition += j
		}
		expression := strings.TrimRight(xpath[startPosition:i], xpathSpace)

		if rest, ok := strings.CutPrefix(expression, "self::*/"); ok {
			expression = "./" + rest
		}

		switch {
		case expression == "":
			expression = nonMatchingExpression
		case strings.HasPrefix(expression, "//"):
			expression = "descendant-or-self::" + expression[2:]
		case strings.HasPrefix(expression, ".//"):
			expression = "descendant-or-self::" + expression[3:]
		case strings.HasPrefix(expression, "./"):
			expression = "self::" + expression[2:]
		case strings.HasPrefix(expression, "child::"):
			expression = "self::" + expression[7:]
		case strings.HasPrefix(expression, "self::"),
			strings.HasPrefix(expression, "descendant-or-self::"):
			// already relative to the context node, rewriting must be a no-op
		case expression[0] == '/', expression[0] == '.':
			// the synthetic root has no real document root to anchor these
			expression = nonMatchingExpression
		case strings.HasPrefix(expression, "descendant::"):
			expression = "descendant-or-self::" + expression[12:]
		case startsWithUnreachableAxis(expression):
			expression = nonMatchingExpression
		default:
			expression = "self::" + expression
		}
		expressions = append(expressions, parenthesis+expression)

		if i == xpathLen {
			return strings.Join(expressions, " | "), nil
		}

		i += spn(xpath, xpathSpace, i+1)
		startPosition = i + 1
	}

	return xpath, ErrInvalidExpression
}

func startsWithUnreachableAxis(expression string) bool {
	for _, axis := range unreachableAxes {
		if strings.HasPrefix(expression, axis) {
			return true
		}
	}
	return false
}

// spn returns the length of the run of bytes from start that are all in chars.
func spn(s, chars string, start int) int {
	n := 0
	for start+n < len(s) && strings.IndexByte(chars, s[start+n]) >= 0 {
		n++
	}
	return n
}

// cspn returns the number of bytes from start before the first byte in chars.
func cspn(s, chars string, start int) int {
	if start >= len(s) {
		return 0
	}
	if idx := strings.IndexAny(s[start:], chars); idx >= 0 {
		return idx
	}
	return len(s) - start
}
