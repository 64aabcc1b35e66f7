package tesseract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/shopscout-service/internal/repository"
)

func writeScreenshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, os.WriteFile(path, []byte("not a real png"), 0o644))
	return path
}

// writeFakeBinary creates an executable shell script standing in for the
// tesseract binary, so these tests run without OCR installed.
func writeFakeBinary(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestRecognize(t *testing.T) {
	binary := writeFakeBinary(t, `echo "Nike Air Zoom \$90"`)

	text, err := New(binary, time.Second).Recognize(context.Background(), writeScreenshot(t))
	require.NoError(t, err)
	assert.Contains(t, text, "Nike Air Zoom")
}

func TestRecognize_MissingScreenshot(t *testing.T) {
	binary := writeFakeBinary(t, `echo ok`)

	_, err := New(binary, time.Second).Recognize(context.Background(), "/nonexistent/shot.png")
	assert.ErrorIs(t, err, repository.ErrOCRFailed)
}

func TestRecognize_CrashWithPartialOutputKeepsIt(t *testing.T) {
	binary := writeFakeBinary(t, `echo "partial text"; echo "boom" >&2; exit 1`)

	text, err := New(binary, time.Second).Recognize(context.Background(), writeScreenshot(t))
	require.NoError(t, err)
	assert.Contains(t, text, "partial text")
}

func TestRecognize_CrashWithNoOutput(t *testing.T) {
	binary := writeFakeBinary(t, `echo "boom" >&2; exit 1`)

	_, err := New(binary, time.Second).Recognize(context.Background(), writeScreenshot(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrOCRFailed)
	assert.Contains(t, err.Error(), "boom")
}

func TestRecognize_Timeout(t *testing.T) {
	binary := writeFakeBinary(t, `sleep 5`)

	_, err := New(binary, 50*time.Millisecond).Recognize(context.Background(), writeScreenshot(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrOCRFailed)
	assert.Contains(t, err.Error(), "timed out")
}
