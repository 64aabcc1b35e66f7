package repository

import "errors"

var (
	// ErrFetchExhausted means every fetch strategy in the chain failed.
	ErrFetchExhausted = errors.New("all fetch strategies failed")
	// ErrCaptureFailed means the screenshot render did not produce an image.
	ErrCaptureFailed = errors.New("screenshot capture failed")
	// ErrOCRFailed means the OCR process crashed, timed out, or produced no text.
	ErrOCRFailed = errors.New("ocr produced no output")
	// ErrReconcileParse means the generation call returned output that does
	// not decode into the product record schema.
	ErrReconcileParse = errors.New("reconciliation output is not valid JSON")
	// ErrMissingURL marks a malformed batch entry with no URL.
	ErrMissingURL = errors.New("history item has no url")
)
