package luatab

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way picoCAD writes numbers: integral values
// without a decimal point, everything else with the fewest digits that parse
// back to the same float64. Exponents are never used.
func FormatNumber(f float64) string {
	switch {
	case f == 0:
		return "0" // also folds -0
	case math.IsNaN(f):
		return "0/0"
	case math.IsInf(f, 1):
		return "1/0"
	case math.IsInf(f, -1):
		return "-1/0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// QuoteString renders s as a single-quoted literal. Only the quote is
// escaped, so a string ending in a backslash does not lex back.
func QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// Format renders v as text. Inline tables look like {1,2,3, c=6, uv={0,0} };
// multiline tables put each positional entry on its own line and group runs
// of inline keyed entries on one line, indented one space per level.
func Format(v Value) string {
	var sb strings.Builder
	writeValue(&sb, v, 0)
	return sb.String()
}

func writeValue(sb *strings.Builder, v Value, depth int) {
	switch v := v.(type) {
	case Number:
		sb.WriteString(FormatNumber(float64(v)))
	case String:
		sb.WriteString(QuoteString(string(v)))
	case Boolean:
		sb.WriteString(strconv.FormatBool(bool(v)))
	case *Array:
		entries := make([]Entry, len(v.Elems))
		for i, e := range v.Elems {
			entries[i] = Entry{Value: e}
		}
		writeEntries(sb, entries, v.Multiline, depth)
	case *Table:
		writeEntries(sb, v.entries, v.Multiline, depth)
	}
}

func writeEntries(sb *strings.Builder, entries []Entry, multiline bool, depth int) {
	if !multiline || len(entries) == 0 {
		writeInline(sb, entries, depth)
		return
	}

	indent := strings.Repeat(" ", depth+1)
	sb.WriteString("{\n")
	lineOpen := false
	for i, e := range entries {
		grouped := !e.Positional() && !isMultiline(e.Value)
		switch {
		case i == 0:
		case lineOpen && grouped:
			sb.WriteString(", ")
		default:
			sb.WriteString(",\n")
		}
		if !lineOpen || !grouped {
			sb.WriteString(indent)
		}
		writeEntry(sb, e, depth+1)
		lineOpen = grouped
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", depth))
	sb.WriteString("}")
}

func writeInline(sb *strings.Builder, entries []Entry, depth int) {
	sb.WriteString("{")
	keyed := false
	for i, e := range entries {
		if i > 0 {
			if e.Positional() && !keyed {
				sb.WriteString(",")
			} else {
				sb.WriteString(", ")
			}
		}
		if !e.Positional() {
			keyed = true
		}
		writeEntry(sb, e, depth)
	}
	if keyed {
		sb.WriteString(" ")
	}
	sb.WriteString("}")
}

func writeEntry(sb *strings.Builder, e Entry, depth int) {
	if !e.Positional() {
		if isIdent(e.Key) {
			sb.WriteString(e.Key)
		} else {
			sb.WriteString("[")
			sb.WriteString(QuoteString(e.Key))
			sb.WriteString("]")
		}
		sb.WriteString("=")
	}
	writeValue(sb, e.Value, depth)
}

func isMultiline(v Value) bool {
	switch v := v.(type) {
	case *Table:
		return v.Multiline && v.Len() > 0
	case *Array:
		return v.Multiline && len(v.Elems) > 0
	default:
		return false
	}
}

func isIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return !reserved[s]
}

// reserved holds the Lua keywords, which cannot be bare keys.
var reserved = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}
