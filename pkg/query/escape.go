package query

import (
	"strings"

	"github.com/kailas-cloud/ftkit/internal/args"
)

// EscapeTag escapes a TAG value so that punctuation and spaces match literally.
func EscapeTag(value string) string {
	return tagEscaper.Replace(value)
}

// EscapeText escapes free text so that query-syntax characters match literally.
func EscapeText(s string) string {
	return queryEscaper.Replace(s)
}

// TagMatch renders "@field:{v1 | v2}" with escaped values.
func TagMatch(field string, values ...string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = EscapeTag(v)
	}
	return "@" + field + ":{" + strings.Join(escaped, " | ") + "}"
}

// NumericMatch renders the inline form "@field:[min max]" of a numeric filter.
func NumericMatch(f NumericFilter) string {
	return "@" + f.Field + ":[" + bound(f.Min, f.ExclusiveMin) + " " + bound(f.Max, f.ExclusiveMax) + "]"
}

// GeoMatch renders the inline form "@field:[lon lat radius unit]" of a geo filter.
func GeoMatch(g GeoFilter) string {
	return "@" + g.Field + ":[" + args.Float(g.Lon) + " " + args.Float(g.Lat) + " " +
		args.Float(g.Radius) + " " + g.Unit.String() + "]"
}

var tagEscaper = strings.NewReplacer(
	"\\", "\\\\",
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
