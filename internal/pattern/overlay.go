package pattern

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/marshalleq/vhstimecode/internal/dsp"
)

// clockLayout is strftime's "%H:%M:%S" translated to a Go time layout
// once at init, per go-strftime's Layout/Format split — Layout does the
// format-string translation, time.Time.Format does the rendering.
var clockLayout = strftime.Layout("%H:%M:%S")

// Overlay renders frameID (counted from a Timecode phase's start) as a
// decimal HH:MM:SS:FF timecode string — the optional overlay spec.md
// §4.3's table mentions. Purely cosmetic: nothing downstream parses
// this text, the binary strip is the authoritative payload (spec.md
// §4.3.a). Non-drop-frame: frame counts never skip a value, matching
// spec.md §3's literal definition of fps as an exact rational with no
// renumbering rule.
func Overlay(frameID uint32, fps dsp.Rational) string {
	fpsFloat := fps.Float64()
	wholeSeconds := int64(float64(frameID) / fpsFloat)
	frameOfSecond := int64(frameID) - dsp.RoundFrameStart(wholeSeconds, fpsFloat)
	if frameOfSecond < 0 {
		wholeSeconds--
		frameOfSecond = int64(frameID) - dsp.RoundFrameStart(wholeSeconds, fpsFloat)
	}

	clock := time.Unix(wholeSeconds, 0).UTC().Format(clockLayout)
	return fmt.Sprintf("%s:%02d", clock, frameOfSecond)
}
