package textutil

import "strings"

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a title safe to use as a file name. Path separators
// and a few reserved characters become dashes, the rest are dropped, and
// whitespace is collapsed. An empty result falls back to "summary".
func SanitizeFileName(name string) string {
	name = CollapseSpace(fileNameReplacer.Replace(name))
	name = strings.Trim(name, ". ")
	if name == "" {
		return "summary"
	}
	return name
}
