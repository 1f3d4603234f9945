package host

import (
	"strings"

	"golang.org/x/text/language"
)

// ParseLocale converts a POSIX locale ("fr_FR.UTF-8@euro") into a BCP 47
// tag ("fr-FR"). It returns "" for C/POSIX and anything unparseable.
func ParseLocale(posix string) string {
	v := posix
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	v = strings.TrimSpace(v)
	if v == "" || v == "C" || v == "POSIX" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil {
		return ""
	}
	return tag.String()
}
