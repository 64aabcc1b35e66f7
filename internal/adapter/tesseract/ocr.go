package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/user/shopscout-service/internal/repository"
)

// OCR shells out to the tesseract binary to read text off a screenshot.
type OCR struct {
	binary  string
	timeout time.Duration
}

func New(binary string, timeout time.Duration) *OCR {
	return &OCR{binary: binary, timeout: timeout}
}

// Recognize runs tesseract over the image and returns its stdout. A crashed
// run that still produced some text yields that partial text rather than an
// error; a crash with no output is ErrOCRFailed.
func (o *OCR) Recognize(ctx context.Context, imagePath string) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("%w: screenshot not found: %v", repository.ErrOCRFailed, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, o.binary, imagePath, "stdout")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	text := stdout.String()

	if runCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("%w: tesseract timed out on %s", repository.ErrOCRFailed, imagePath)
	}
	if err != nil {
		if len(bytes.TrimSpace(stdout.Bytes())) > 0 {
			slog.Warn("Tesseract errored but produced partial output, keeping it",
				"image", imagePath, "error", err, "stderr", truncate(stderr.String(), 200))
			return text, nil
		}
		return "", fmt.Errorf("%w: %v: %s", repository.ErrOCRFailed, err, truncate(stderr.String(), 200))
	}

	return text, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
