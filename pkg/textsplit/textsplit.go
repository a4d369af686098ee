// Package textsplit splits long messages into platform-sized chunks,
// preferring natural break points.
package textsplit

// Lengths are counted in runes: LINE's message limit is a character
// limit, and Japanese text is multi-byte in UTF-8.

// sentenceEnds are the terminators tried when no newline is usable.
const sentenceEnds = "。！？!?."

// Split cuts text into chunks of at most maxLen runes. Text that fits is
// returned as a single chunk, including the empty string. Break characters
// stay with the leading chunk, so concatenating the chunks reproduces the
// input exactly.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxLen {
		cut := breakPoint(runes, maxLen)
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return append(chunks, string(runes))
}

// breakPoint picks where to cut the next chunk: the last newline within
// the window, then the last sentence terminator, then the last space.
// Breaks landing in the first half of the window waste too much room and
// are rejected. Falls back to a hard cut at maxLen.
func breakPoint(runes []rune, maxLen int) int {
	window := runes[:maxLen]
	minCut := maxLen / 2

	if cut := lastBreak(window, "\n"); cut > minCut {
		return cut
	}
	if cut := lastBreak(window, sentenceEnds); cut > minCut {
		return cut
	}
	if cut := lastBreak(window, " "); cut > minCut {
		return cut
	}
	return maxLen
}

// lastBreak returns the cut position just after the last rune in window
// belonging to set, or 0 when none is present.
func lastBreak(window []rune, set string) int {
	for i := len(window) - 1; i >= 0; i-- {
		for _, sep := range set {
			if window[i] == sep {
				return i + 1
			}
		}
	}
	return 0
}
