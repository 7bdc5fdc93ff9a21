package framecodec

// DecodeVideoTimecodes decodes the visual strip of every frame in
// frames, numbering them starting at firstFrameIndex, and returns one
// VideoDetection per checksum-valid strip (spec.md §4.2, §6). When the
// primary strip decode fails, it retries via DecodeVisualFallback
// before giving up on the frame — spec.md §4.2's "graceful degradation
// on damaged frames" only happens if the fallback is actually tried.
// A frame whose strip and fallback both fail to validate is simply
// absent — partial success is the norm (spec.md §7), not an error.
func DecodeVideoTimecodes(frames []*VideoFrame, firstFrameIndex uint64) []VideoDetection {
	var detections []VideoDetection
	for i, frame := range frames {
		record, confidence, ok := DecodeVisualStrip(frame)
		if !ok {
			record, confidence, ok = DecodeVisualFallback(frame)
		}
		if !ok {
			continue
		}
		detections = append(detections, VideoDetection{
			VideoFrameIndex: firstFrameIndex + uint64(i),
			FrameID:         record.FrameID,
			Confidence:      confidence,
		})
	}
	return detections
}

// DecodeVisualFallback recovers a detection from a frame whose primary
// strip decode failed, using the two optional degraded-confidence
// methods spec.md §4.2 sketches. Both read the same binary-strip
// channel the primary decoder reads (there is no separate corner or
// OCR data channel actually encoded by the generator — only the
// 32-block strip carries the payload), trading robustness for
// confidence:
//
//   - "corner-marker" fallback (0.70): averages the FULL width of each
//     block instead of a small centred region, trading precision for
//     resilience to a damaged strip centre.
//   - "OCR" fallback (0.50): would read a rendered decimal overlay;
//     no OCR library appears anywhere in the example pack, and
//     fabricating one would violate the never-fabricate-dependencies
//     rule, so this always reports no detection — honest graceful
//     degradation rather than a fake reading.
func DecodeVisualFallback(frame *VideoFrame) (record FrameRecord, confidence float64, ok bool) {
	if rec, conf, ok := decodeVisualStripFullBlock(frame); ok {
		return rec, conf, true
	}
	return FrameRecord{}, 0, false
}

func decodeVisualStripFullBlock(frame *VideoFrame) (FrameRecord, float64, bool) {
	usableWidth := frame.Width - 2*borderPixels
	if usableWidth <= 0 || frame.Height < stripRows {
		return FrameRecord{}, 0, false
	}
	blockWidth := usableWidth / numBlocks
	if blockWidth <= 0 {
		return FrameRecord{}, 0, false
	}

	var bits [32]int
	for b := 0; b < numBlocks; b++ {
		x0 := borderPixels + b*blockWidth
		x1 := x0 + blockWidth
		if b == numBlocks-1 {
			x1 = frame.Width - borderPixels
		}
		var sum, count int
		for y := 0; y < stripRows; y++ {
			for x := x0; x < x1; x++ {
				sum += int(frame.at(x, y))
				count++
			}
		}
		if count > 0 && float64(sum)/float64(count) >= 128 {
			bits[b] = 1
		}
	}

	var id uint32
	for i := 0; i < 24; i++ {
		id = (id << 1) | uint32(bits[i])
	}
	var cs uint8
	for i := 0; i < 8; i++ {
		cs = (cs << 1) | uint8(bits[24+i])
	}
	record := FrameRecord{FrameID: id, Checksum: cs}
	if !record.Valid() {
		return FrameRecord{}, 0, false
	}
	return record, 0.70, true
}
