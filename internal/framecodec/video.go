package framecodec

import "github.com/marshalleq/vhstimecode/internal/bitcodec"

// VideoFrame is a minimal luminance-only frame buffer: row-major,
// values 0 (black) to 255 (white). The codec never needs chroma or a
// pixel format beyond luminance (spec.md §4.2).
type VideoFrame struct {
	Width, Height int
	Luma          []uint8 // len == Width*Height
}

// NewVideoFrame allocates a black frame of the given dimensions.
func NewVideoFrame(width, height int) *VideoFrame {
	return &VideoFrame{Width: width, Height: height, Luma: make([]uint8, width*height)}
}

func (f *VideoFrame) at(x, y int) uint8 {
	return f.Luma[y*f.Width+x]
}

func (f *VideoFrame) set(x, y int, v uint8) {
	f.Luma[y*f.Width+x] = v
}

const (
	stripRows    = 20 // top rows carrying the binary strip
	borderPixels = 40 // outer left/right border excluded from the strip
	numBlocks    = 32 // 24 id bits + 8 checksum bits
)

// EncodeVisualStrip fills record's 32 bits into the top-20-row binary
// strip of frame, one block per bit, MSB of the frame id leftmost
// (spec.md §4.2). The outer 40 pixels on each side are left untouched
// for independent corner sync markers.
func EncodeVisualStrip(frame *VideoFrame, record FrameRecord) {
	usableWidth := frame.Width - 2*borderPixels
	if usableWidth <= 0 || frame.Height < stripRows {
		return
	}
	blockWidth := usableWidth / numBlocks

	bits := bitsMSBFirst(record)
	for b := 0; b < numBlocks; b++ {
		value := uint8(0)
		if bits[b] == bitcodec.One {
			value = 255
		}
		x0 := borderPixels + b*blockWidth
		x1 := x0 + blockWidth
		if b == numBlocks-1 {
			x1 = frame.Width - borderPixels
		}
		for y := 0; y < stripRows; y++ {
			for x := x0; x < x1; x++ {
				frame.set(x, y, value)
			}
		}
	}
}

// DecodeVisualStrip reads the 32-block binary strip, thresholds each
// block at 128, and returns the reconstructed record plus whether its
// checksum validated. Confidence is fixed at 0.90 per spec.md §4.2 for
// a successful strip decode.
func DecodeVisualStrip(frame *VideoFrame) (record FrameRecord, confidence float64, ok bool) {
	usableWidth := frame.Width - 2*borderPixels
	if usableWidth <= 0 || frame.Height < stripRows {
		return FrameRecord{}, 0, false
	}
	blockWidth := usableWidth / numBlocks
	if blockWidth <= 0 {
		return FrameRecord{}, 0, false
	}

	var bits [32]bitcodec.Symbol
	for b := 0; b < numBlocks; b++ {
		x0 := borderPixels + b*blockWidth
		x1 := x0 + blockWidth
		if b == numBlocks-1 {
			x1 = frame.Width - borderPixels
		}
		avg := averageRegionCentered(frame, x0, x1, stripRows)
		if avg >= 128 {
			bits[b] = bitcodec.One
		} else {
			bits[b] = bitcodec.Zero
		}
	}

	rec := frameFromBits(bits)
	if !rec.Valid() {
		return FrameRecord{}, 0, false
	}
	return rec, 0.90, true
}

// averageRegionCentered averages a small sample region (up to 6x6
// pixels) centred on the block [x0,x1) x [0,rows), per spec.md §4.2's
// "average a small region centred on the block".
func averageRegionCentered(frame *VideoFrame, x0, x1, rows int) float64 {
	const sampleSize = 6
	cx := (x0 + x1) / 2
	halfW := sampleSize / 2
	sx0, sx1 := cx-halfW, cx+halfW
	if sx0 < x0 {
		sx0 = x0
	}
	if sx1 > x1 {
		sx1 = x1
	}
	cy := rows / 2
	sy0, sy1 := cy-halfW, cy+halfW
	if sy0 < 0 {
		sy0 = 0
	}
	if sy1 > rows {
		sy1 = rows
	}
	if sx1 <= sx0 || sy1 <= sy0 {
		sx0, sx1, sy0, sy1 = x0, x1, 0, rows
	}

	var sum int
	var count int
	for y := sy0; y < sy1; y++ {
		for x := sx0; x < sx1; x++ {
			sum += int(frame.at(x, y))
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
