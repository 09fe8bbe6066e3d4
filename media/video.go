package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// VideoInfo is the probed shape of a video file.
type VideoInfo struct {
	Width    int
	Height   int
	Duration float64 // seconds
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeVideo asks ffprobe for the dimensions and duration of a video.
func ProbeVideo(ctx context.Context, filePath string) (VideoInfo, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe error for %s: %w - %s", filePath, err, stderr.String())
	}

	var probed ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &probed); err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe output for %s: %w", filePath, err)
	}

	info := VideoInfo{}
	for _, s := range probed.Streams {
		if s.CodecType == "video" {
			info.Width = s.Width
			info.Height = s.Height
			break
		}
	}
	info.Duration, _ = strconv.ParseFloat(probed.Format.Duration, 64)
	return info, nil
}

// EnsureVideo returns the thumbnail path for a video, extracting a
// single frame when missing or stale. The frame is taken at offset, or
// at time zero when the clip is shorter than the offset (black or
// fade-in frames are accepted for very short clips). Extraction failures
// propagate; there is no fallback image.
func (ts *ThumbnailStore) EnsureVideo(ctx context.Context, sourceAbsPath, relativePath string, offset time.Duration) (string, error) {
	thumbPath := ts.Path(relativePath)
	if ts.IsFresh(sourceAbsPath, relativePath) {
		return thumbPath, nil
	}

	if err := os.MkdirAll(filepath.Dir(thumbPath), 0755); err != nil {
		return "", fmt.Errorf("video: failed to create directory for %s: %w", relativePath, err)
	}

	seek := offset.Seconds()
	if info, err := ProbeVideo(ctx, sourceAbsPath); err == nil && info.Duration < seek {
		seek = 0
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", strconv.FormatFloat(seek, 'f', -1, 64),
		"-i", sourceAbsPath,
		"-vframes", "1",
		"-vf", fmt.Sprintf("scale=%d:-1", ts.MaxWidth),
		"-q:v", "2",
		"-y",
		thumbPath,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("video: ffmpeg failed for %s: %w - %s", relativePath, err, stderr.String())
	}

	log.Printf("[video] Generated thumbnail: %s", relativePath)
	return thumbPath, nil
}
