package similarity

import (
	"strings"
	"unicode/utf8"
)

// maxExtensionLen bounds what counts as an extension: "W. Richard Stevens" keeps its dot.
const maxExtensionLen = 10

// CompareKey strips a trailing extension shorter than maxExtensionLen characters.
// Version-like suffixes ("file.v2") are stripped too.
func CompareKey(filename string) string {
	dot := strings.LastIndexByte(filename, '.')
	if dot < 0 {
		return filename
	}
	if utf8.RuneCountInString(filename[dot+1:]) < maxExtensionLen {
		return filename[:dot]
	}
	return filename
}
