// Command vhssync is a one-shot demonstration of the full pipeline:
// it generates one or more synthetic capture cycles in memory, locks
// each cycle's Timecode phase, decodes both tracks, correlates them,
// and prints the resulting offset report.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/marshalleq/vhstimecode/internal/correlator"
	"github.com/marshalleq/vhstimecode/internal/errs"
	"github.com/marshalleq/vhstimecode/internal/framecodec"
	"github.com/marshalleq/vhstimecode/internal/locker"
	"github.com/marshalleq/vhstimecode/internal/pattern"
	"github.com/marshalleq/vhstimecode/internal/reportstore"
)

func main() {
	// ── Flags ───────────────────────────────────────────
	standard := flag.String("standard", "pal", "Video standard: pal or ntsc")
	cycles := flag.Uint64("cycles", 1, "Number of generator cycles to synthesise")
	tolerant := flag.Bool("tolerant", false, "Use tolerant-mode audio decoding")
	trimOutliers := flag.Bool("trim-outliers", false, "Apply the 3-sigma outlier trim to the offset report")
	cachePath := flag.String("cache", "", "SQLite path for the report cache (disabled if empty)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// ── Logger ──────────────────────────────────────────
	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	runID := uuid.NewString()
	slog.Info("run starting", "run_id", runID, "standard", *standard, "cycles", *cycles)

	// ── Format parameters ────────────────────────────────
	fp, err := formatFor(*standard)
	if err != nil {
		slog.Error("invalid standard", "error", err)
		os.Exit(1)
	}

	// ── Report cache ──────────────────────────────────────
	var cache *reportstore.Cache
	if *cachePath != "" {
		db, err := reportstore.Open(*cachePath)
		if err != nil {
			slog.Error("failed to open report cache", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		cache = reportstore.NewCache(db)
	}

	// ── Generate ──────────────────────────────────────────
	audio, frames := synthesise(fp, *cycles)
	slog.Info("generated capture", "samples", len(audio), "frames", len(frames))

	mode := framecodec.ModeStrict
	if *tolerant {
		mode = framecodec.ModeTolerant
	}

	var contentHash string
	if cache != nil {
		contentHash = reportstore.ContentHash(audio, len(frames), fp)
		if entry, ok := cache.Get(contentHash); ok {
			slog.Info("cache hit", "hash", contentHash)
			printReport(entry.Report)
			return
		}
	}

	// ── Lock, decode, correlate ──────────────────────────
	regions, diag := locker.LockCycles(audio, fp, locker.Hint{FirstCycleAtSampleZero: true})
	if diag != nil {
		reportDiagnostic(diag)
		os.Exit(1)
	}
	slog.Info("locked cycles", "regions", len(regions))

	var video []framecodec.VideoDetection
	var audioDetections []framecodec.AudioDetection
	for _, region := range regions {
		videoSection := frames[region.VideoFrameStart:region.VideoFrameEndExclusive]
		video = append(video, framecodec.DecodeVideoTimecodes(videoSection, region.VideoFrameStart)...)

		audioSection := audio[region.AudioSampleStart:region.AudioSampleEndExclusive]
		audioDetections = append(audioDetections,
			framecodec.DecodeAudioSection(audioSection, region.AudioSampleStart, fp.AudioSampleRate, fp.SamplesPerFrameExact(), mode)...)
	}

	report := correlator.Correlate(video, audioDetections, fp)
	if *trimOutliers {
		report = correlator.TrimOutliers(report)
	}

	if cache != nil {
		if err := cache.Set(contentHash, reportstore.Entry{Regions: regions, Report: report}); err != nil {
			slog.Warn("failed to cache report", "error", err)
		}
	}

	slog.Info("correlation complete",
		"matches", report.MatchCount,
		"mean_offset", humanize.FormatFloat("#,###.######", report.MeanOffsetSeconds))

	printReport(report)
}

func formatFor(standard string) (pattern.FormatParameters, error) {
	switch standard {
	case "pal":
		return pattern.PAL(), nil
	case "ntsc":
		return pattern.NTSC(), nil
	default:
		return pattern.FormatParameters{}, fmt.Errorf("unknown standard %q (want pal or ntsc)", standard)
	}
}

// synthesise runs GenerateCycle cycles times, concatenating audio and
// video into one flat in-memory capture covering the whole run.
func synthesise(fp pattern.FormatParameters, cycles uint64) ([]float32, []*framecodec.VideoFrame) {
	var audio []float32
	var frames []*framecodec.VideoFrame

	for c := uint64(0); c < cycles; c++ {
		err := pattern.GenerateCycle(fp, c,
			func(samples []float32) { audio = append(audio, samples...) },
			func(frame *framecodec.VideoFrame) { frames = append(frames, frame) },
		)
		if err != nil {
			slog.Error("cycle generation failed", "cycle", c, "error", err)
			os.Exit(1)
		}
	}
	return audio, frames
}

func printReport(report correlator.OffsetReport) {
	encoder := json.NewEncoder(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(report); err != nil {
		slog.Error("failed to encode report", "error", err)
		os.Exit(1)
	}
}

func reportDiagnostic(diag *errs.Diagnostic) {
	slog.Error("lock failed", "code", diag.Code.String(), "message", diag.Message, "context", diag.Context)
}
