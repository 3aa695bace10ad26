package sitetext

import "strings"

// codeMarkers are strings that show up when script or style blocks leak
// through HTML stripping. Prose from a small-business site contains at most
// one of them by accident.
var codeMarkers = []string{
	"@keyframes",
	"@media",
	"transform:",
	"function(",
	"function (",
	"window.",
	"document.",
	"var ",
	"=>",
	"{",
	"}",
}

// codeCheckWindow bounds how much of the text is inspected; leaked script
// shows up at the top of a stripped page.
const codeCheckWindow = 1200

// LooksLikeCode reports whether the text is judged to be leaked script or
// style rather than prose: two or more distinct markers within the leading
// window.
func LooksLikeCode(text string) bool {
	window := text
	if len(window) > codeCheckWindow {
		window = window[:codeCheckWindow]
	}

	distinct := 0
	for _, marker := range codeMarkers {
		if strings.Contains(window, marker) {
			distinct++
			if distinct >= 2 {
				return true
			}
		}
	}
	return false
}
