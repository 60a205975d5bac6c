package render

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/transformai/transformai/internal/models"
	"github.com/transformai/transformai/internal/services"
)

// VideoRenderer turns generated text into a narrated slideshow video.
//
// The text is chunked at word boundaries (one chunk per slide), each chunk
// rasterized onto a still image, and the stills concatenated with a single
// narration track synthesized from the entire text. Slide rasterization and
// narration synthesis run in parallel and converge at the encode step.
//
// By default each slide displays for a fixed duration, so the video track is
// slideCount x slideDuration long while the soundtrack is however long the
// narration takes — the two are not reconciled, and playback may truncate the
// audio or trail off in silence. SyncAudioToVideo re-derives the per-slide
// duration from the measured narration length instead.
type VideoRenderer struct {
	tts              services.SpeechSynthesizer
	encoder          Encoder
	tempDir          string
	slideDuration    time.Duration
	syncAudioToVideo bool
}

func NewVideoRenderer(tts services.SpeechSynthesizer, encoder Encoder, tempDir string, slideDuration time.Duration, syncAudioToVideo bool) *VideoRenderer {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		panic(fmt.Sprintf("failed to create temp dir: %v", err))
	}

	return &VideoRenderer{
		tts:              tts,
		encoder:          encoder,
		tempDir:          tempDir,
		slideDuration:    slideDuration,
		syncAudioToVideo: syncAudioToVideo,
	}
}

// Render produces the finished MP4 as bytes. Every intermediate file — slide
// images, narration audio, the encoded output — lives in a directory owned
// exclusively by this call and removed on every exit path.
func (r *VideoRenderer) Render(ctx context.Context, text, langCode string) ([]byte, error) {
	chunks := ChunkText(text, chunkWidth)
	if len(chunks) == 0 {
		return nil, models.NewValidationError("text", "nothing to render")
	}

	workDir, err := os.MkdirTemp(r.tempDir, "render_")
	if err != nil {
		return nil, fmt.Errorf("failed to create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	audioPath := filepath.Join(workDir, "narration.mp3")
	imagePaths := make([]string, len(chunks))

	g, gctx := errgroup.WithContext(ctx)

	// Visual pipeline: one still image per chunk, in chunk order.
	g.Go(func() error {
		for i, chunk := range chunks {
			path := filepath.Join(workDir, fmt.Sprintf("slide_%d.png", i))
			if err := DrawSlide(chunk, path); err != nil {
				return err
			}
			imagePaths[i] = path
		}
		log.Printf("[Render] Rasterized %d slides", len(chunks))
		return nil
	})

	// Audio pipeline: one narration track for the entire text, not per chunk.
	g.Go(func() error {
		speech, err := r.tts.Synthesize(gctx, text, langCode)
		if err != nil {
			return err
		}
		if err := os.WriteFile(audioPath, speech.AudioData, 0644); err != nil {
			return fmt.Errorf("failed to write narration file: %w", err)
		}
		log.Printf("[Render] Narration synthesized (%d bytes)", len(speech.AudioData))
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slideDuration := r.slideDuration
	if r.syncAudioToVideo {
		audioDuration, err := r.encoder.AudioDuration(ctx, audioPath)
		if err != nil {
			log.Printf("[Render] Warning: could not measure narration, keeping fixed slide duration: %v", err)
		} else {
			slideDuration = audioDuration / time.Duration(len(chunks))
			log.Printf("[Render] Audio sync on: %v narration over %d slides = %v per slide",
				audioDuration, len(chunks), slideDuration)
		}
	}

	outputPath := filepath.Join(workDir, "output.mp4")
	if err := r.encoder.EncodeSlideshow(ctx, imagePaths, slideDuration, audioPath, outputPath); err != nil {
		return nil, &models.ServiceError{Service: "ffmpeg", Err: err}
	}

	video, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered video: %w", err)
	}

	log.Printf("[Render] Video rendered (%d slides, %d bytes)", len(chunks), len(video))
	return video, nil
}
