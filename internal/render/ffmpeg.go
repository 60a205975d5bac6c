package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Output constants — static text slides need neither resolution headroom nor
// a real frame rate.
const videoFPS = 1

// Encoder assembles slide images and a narration track into a video, and
// measures audio length. It is an interface so rendering tests can fail the
// encode step and still observe temp-file cleanup.
type Encoder interface {
	EncodeSlideshow(ctx context.Context, imagePaths []string, slideDuration time.Duration, audioPath, outputPath string) error
	AudioDuration(ctx context.Context, audioPath string) (time.Duration, error)
}

// FFmpegEncoder shells out to ffmpeg/ffprobe.
type FFmpegEncoder struct{}

var _ Encoder = (*FFmpegEncoder)(nil)

func NewFFmpegEncoder() *FFmpegEncoder {
	return &FFmpegEncoder{}
}

// EncodeSlideshow concatenates the slide images in order, each shown for
// slideDuration with no transitions, and attaches the narration track. The
// concat list file lives next to the output and is removed before returning.
func (e *FFmpegEncoder) EncodeSlideshow(ctx context.Context, imagePaths []string, slideDuration time.Duration, audioPath, outputPath string) error {
	if len(imagePaths) == 0 {
		return fmt.Errorf("no slides to encode")
	}

	listPath := filepath.Join(filepath.Dir(outputPath), "concat_list.txt")
	f, err := os.Create(listPath)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}

	// Concat demuxer format: a duration line per file, with the final file
	// repeated so its duration directive takes effect.
	for _, path := range imagePaths {
		fmt.Fprintf(f, "file '%s'\nduration %.3f\n", path, slideDuration.Seconds())
	}
	fmt.Fprintf(f, "file '%s'\n", imagePaths[len(imagePaths)-1])
	f.Close()
	defer os.Remove(listPath)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-i", audioPath,
		"-c:v", "libx264",
		"-r", fmt.Sprintf("%d", videoFPS),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-y",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg slideshow encode failed: %w", err)
	}

	return nil
}

// AudioDuration returns the duration of an audio file via ffprobe.
func (e *FFmpegEncoder) AudioDuration(ctx context.Context, audioPath string) (time.Duration, error) {
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	cmd := exec.CommandContext(ctx, "ffprobe", args...)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var durationSec float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(output)), "%f", &durationSec); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return time.Duration(durationSec * float64(time.Second)), nil
}
