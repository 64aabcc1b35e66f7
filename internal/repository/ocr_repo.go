package repository

import "context"

// OCRRepository converts a screenshot image into raw text.
type OCRRepository interface {
	// Recognize runs OCR over the image at imagePath and returns the raw
	// text. Implementations may return partial text from a process that
	// errored after writing some output.
	Recognize(ctx context.Context, imagePath string) (string, error)
}
