// Package timeline computes how long each frame of an assembled video is
// held on screen.
package timeline

import "fmt"

// PerFrame returns the display duration in seconds for each of frameCount
// frames spread evenly across audioDuration. Every frame gets an identical
// slice of the narration track; adaptive pacing by segment length is a
// candidate improvement, not implemented.
func PerFrame(audioDuration float64, frameCount int) (float64, error) {
	if frameCount < 1 {
		return 0, fmt.Errorf("invalid frame count %d", frameCount)
	}
	if audioDuration <= 0 {
		return 0, fmt.Errorf("invalid audio duration %.3f", audioDuration)
	}
	return audioDuration / float64(frameCount), nil
}
