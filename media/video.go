package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	lab "github.com/BrenchCC/LLM-Lab"
)

// FrameOptions controls frame sampling.
type FrameOptions struct {
	// FPS is the sampling rate in frames per second.
	FPS int
	// MaxFrames caps the number of frames kept.
	MaxFrames int
	// ResizeMax bounds the longest side of each frame in pixels; aspect ratio
	// is preserved and smaller frames are left alone.
	ResizeMax int
	// OutputDir receives the frames. Empty creates a temporary directory.
	OutputDir string
}

// DefaultFrameOptions samples one frame per second, at most eight, with the
// longest side capped at 1024 pixels.
var DefaultFrameOptions = FrameOptions{FPS: 1, MaxFrames: 8, ResizeMax: 1024}

// ErrNoFrames is returned when extraction succeeds but yields no frames.
var ErrNoFrames = errors.New("no frames extracted")

// FrameExtractor samples frames from a video into image files and returns
// their paths in playback order.
type FrameExtractor interface {
	ExtractFrames(ctx context.Context, videoPath string, opts FrameOptions) ([]string, error)
}

// FFmpegExtractor extracts frames by running the ffmpeg binary.
type FFmpegExtractor struct {
	// Binary is the ffmpeg executable; empty uses "ffmpeg" from PATH.
	Binary string
}

// ExtractFrames implements FrameExtractor.
func (f FFmpegExtractor) ExtractFrames(ctx context.Context, videoPath string, opts FrameOptions) ([]string, error) {
	if opts.FPS <= 0 {
		return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: errors.New("fps must be a positive integer")}
	}
	if opts.MaxFrames <= 0 {
		return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: errors.New("max frames must be a positive integer")}
	}
	if _, err := os.Stat(videoPath); err != nil {
		return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: err}
	}

	dir := opts.OutputDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "llm_lab_frames_")
		if err != nil {
			return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: err}
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: err}
	}

	binary := f.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	pattern := filepath.Join(dir, "frame_%03d.jpg")
	cmd := exec.CommandContext(ctx, binary, ffmpegArgs(videoPath, pattern, opts)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: err}
	}

	frames, err := filepath.Glob(filepath.Join(dir, "frame_*.jpg"))
	if err != nil {
		return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: err}
	}
	slices.Sort(frames)
	if len(frames) > opts.MaxFrames {
		frames = frames[:opts.MaxFrames]
	}
	if len(frames) == 0 {
		return nil, &lab.MediaError{Op: "extract", Path: videoPath, Err: ErrNoFrames}
	}
	return frames, nil
}

func ffmpegArgs(videoPath, pattern string, opts FrameOptions) []string {
	filter := fmt.Sprintf("fps=%d", opts.FPS)
	if opts.ResizeMax > 0 {
		filter += fmt.Sprintf(",scale=w='if(gte(iw,ih),min(%[1]d,iw),-2)':h='if(gte(iw,ih),-2,min(%[1]d,ih))'", opts.ResizeMax)
	}
	return []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", videoPath,
		"-vf", filter,
		"-frames:v", fmt.Sprint(opts.MaxFrames),
		"-start_number", "0",
		"-q:v", "2",
		pattern,
	}
}
