// Package repair balances punctuation line by line and inserts missing
// statement terminators and closing braces.
//
// Repair only appends characters: line count and order are preserved,
// except for one trailing line of closing braces when the text opens more
// blocks than it closes.
package repair

import (
	"strings"
)

// Balance check messages, reported in this order.
const (
	MsgUnbalancedBraces = "Unbalanced braces detected."
	MsgUnbalancedParens = "Unbalanced parentheses detected."
	MsgUnbalancedQuotes = "Unbalanced double quotes detected."
)

// controlKeywords start lines that never take a terminator.
var controlKeywords = []string{"if", "while"}

// Check reports brace, parenthesis and quote imbalance in text.
func Check(text string) []string {
	var errs []string
	if strings.Count(text, "{") != strings.Count(text, "}") {
		errs = append(errs, MsgUnbalancedBraces)
	}
	if strings.Count(text, "(") != strings.Count(text, ")") {
		errs = append(errs, MsgUnbalancedParens)
	}
	if strings.Count(text, `"`)%2 != 0 {
		errs = append(errs, MsgUnbalancedQuotes)
	}
	return errs
}

// Repair returns text with each line closed off and missing closing braces
// appended on a final line.
func Repair(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = Line(line)
	}
	if deficit := strings.Count(text, "{") - strings.Count(text, "}"); deficit > 0 {
		lines = append(lines, strings.Repeat("}", deficit))
	}
	return strings.Join(lines, "\n")
}

// Line repairs a single line. Blank lines are returned unchanged.
//
// The line is split into core, trailing semicolons and trailing
// whitespace. The result is core, then a closing quote if the quote count
// is odd, then one ")" per unclosed "(", then the original semicolons (or
// a single ";" when the statement needs one), then the whitespace.
func Line(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return line
	}

	body := strings.TrimRight(line, " \t\r\f\v")
	trailing := line[len(body):]
	core := strings.TrimRight(body, ";")
	semis := body[len(core):]

	var sb strings.Builder
	sb.Grow(len(line) + 4)
	sb.WriteString(core)
	if strings.Count(line, `"`)%2 != 0 {
		sb.WriteByte('"')
	}
	if d := strings.Count(line, "(") - strings.Count(line, ")"); d > 0 {
		sb.WriteString(strings.Repeat(")", d))
	}
	switch {
	case semis != "":
		sb.WriteString(semis)
	case needsTerminator(core, trimmed):
		sb.WriteByte(';')
	}
	sb.WriteString(trailing)
	return sb.String()
}

// needsTerminator reports whether a line whose semicolons were stripped
// must end in ";".
func needsTerminator(core, trimmed string) bool {
	end := strings.TrimRight(core, " \t\r\f\v")
	if strings.HasSuffix(end, "{") || strings.HasSuffix(end, "}") {
		return false
	}
	return !startsWithControlKeyword(trimmed)
}

// startsWithControlKeyword matches if and while as whole words, so a line
// such as "iffy = input(...)" still gets its terminator.
func startsWithControlKeyword(s string) bool {
	for _, kw := range controlKeywords {
		if !strings.HasPrefix(s, kw) {
			continue
		}
		if len(s) == len(kw) || !isWordByte(s[len(kw)]) {
			return true
		}
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
