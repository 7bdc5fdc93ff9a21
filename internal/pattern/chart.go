package pattern

import "github.com/marshalleq/vhstimecode/internal/framecodec"

// fillGrayscaleRamp paints a left-to-right luma ramp across the whole
// frame: the fixed test chart image spec.md §4.3's table calls for,
// rendered as the simplest pattern a locker can tell apart from both
// the Timecode phase's dark field and the silence phases' solid black
// by luma alone.
func fillGrayscaleRamp(frame *framecodec.VideoFrame) {
	width := frame.Width
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < width; x++ {
			frame.Luma[y*width+x] = uint8(255 * x / width)
		}
	}
}
