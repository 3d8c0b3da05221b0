// Package media probes uploaded files with ffprobe. Duration must be read
// from the decoded stream metadata before an upload is submitted; the
// backend trusts the client-supplied value.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Info is the subset of ffprobe output the gateway cares about.
type Info struct {
	DurationSecs float64
	Width        int
	Height       int
	VideoCodec   string
}

type ffprobeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Prober runs ffprobe. The zero value uses the binary from PATH.
type Prober struct {
	// Binary overrides the ffprobe executable, mainly for tests.
	Binary string
}

// Probe decodes the container metadata of the file at path.
func (p *Prober) Probe(ctx context.Context, path string) (*Info, error) {
	binary := p.Binary
	if binary == "" {
		binary = "ffprobe"
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe: %w", err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(output, &parsed); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &Info{}
	if parsed.Format.Duration != "" {
		info.DurationSecs, _ = strconv.ParseFloat(parsed.Format.Duration, 64)
	}
	for _, s := range parsed.Streams {
		if s.CodecType == "video" {
			info.VideoCodec = s.CodecName
			info.Width = s.Width
			info.Height = s.Height
		}
	}
	return info, nil
}

// VideoDuration returns the whole-second duration of the file at path.
func (p *Prober) VideoDuration(ctx context.Context, path string) (int64, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return int64(info.DurationSecs), nil
}

// IsVideoType reports whether a declared MIME type names a video format.
func IsVideoType(contentType string) bool {
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.HasPrefix(contentType, "video/")
}
