// Package segment splits story text into ordered chunks, one per scene
// image, so each frame of the assembled video carries a contiguous slice
// of the narration.
package segment

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrTextTooShort is returned when the text cannot be balanced into the
// requested number of non-empty chunks. A chunk of a single character
// cannot be bisected further.
var ErrTextTooShort = errors.New("text too short for requested segment count")

// Split divides text into exactly targetCount ordered non-empty chunks.
//
// Sentences are the grouping unit: the text is cut at sentence-terminal
// punctuation followed by whitespace, consecutive sentences are grouped
// into floor(len/targetCount) per chunk, then the partition is balanced:
// the last two chunks are merged while there are too many, and the longest
// chunk is bisected by character length while there are too few.
func Split(text string, targetCount int) ([]string, error) {
	if targetCount < 1 {
		return nil, fmt.Errorf("invalid segment count %d", targetCount)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("empty text")
	}

	sentences := splitSentences(text)

	groupSize := len(sentences) / targetCount
	if groupSize < 1 {
		groupSize = 1
	}

	var chunks []string
	for i := 0; i < len(sentences); i += groupSize {
		end := i + groupSize
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, strings.Join(sentences[i:end], " "))
	}

	// Too many chunks: fold the tail back in.
	for len(chunks) > targetCount {
		chunks[len(chunks)-2] = chunks[len(chunks)-2] + " " + chunks[len(chunks)-1]
		chunks = chunks[:len(chunks)-1]
	}

	// Too few chunks: bisect the longest until the count matches. Lengths
	// and the midpoint are in runes so a multi-byte character is never
	// severed.
	for len(chunks) < targetCount {
		longest := 0
		longestLen := utf8.RuneCountInString(chunks[0])
		for i, c := range chunks[1:] {
			if n := utf8.RuneCountInString(c); n > longestLen {
				longest = i + 1
				longestLen = n
			}
		}
		if longestLen <= 1 {
			return nil, fmt.Errorf("%w: %d segments requested", ErrTextTooShort, targetCount)
		}

		runes := []rune(chunks[longest])
		half := len(runes) / 2
		first := strings.TrimSpace(string(runes[:half]))
		second := strings.TrimSpace(string(runes[half:]))
		if first == "" || second == "" {
			return nil, fmt.Errorf("%w: %d segments requested", ErrTextTooShort, targetCount)
		}

		chunks[longest] = first
		chunks = append(chunks, "")
		copy(chunks[longest+2:], chunks[longest+1:])
		chunks[longest+1] = second
	}

	return chunks, nil
}

// splitSentences cuts text at '.', '!' or '?' followed by whitespace. The
// terminal punctuation stays with its sentence.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Consume trailing repeats like "?!" or "..."
		for i+1 < len(runes) && isTerminal(runes[i+1]) {
			i++
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
