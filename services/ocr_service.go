// services/ocr_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"sareeledger-backend/clients"
	"sareeledger-backend/logger"
	"sareeledger-backend/models"
)

const (
	MaxScanBytes = 8 << 20

	noTextWarning     = "No text detected. Try again with better lighting."
	scanFailedWarning = "OCR processing failed. Please try again."

	// Frames narrower than this are upscaled before recognition.
	minScanWidth = 1600
)

type AddressScan struct {
	Success      bool   `json:"success"`
	Text         string `json:"text"`
	DetectedCity string `json:"detectedCity,omitempty"`
	Warning      string `json:"warning,omitempty"`
}

type OCRService struct {
	recognizer clients.TextRecognizer
	log        *logger.Logger
}

func NewOCRService(recognizer clients.TextRecognizer, log *logger.Logger) *OCRService {
	return &OCRService{recognizer: recognizer, log: log.With("service", "OCRService")}
}

// ScanAddress reads an address off a captured frame. Recognition problems
// come back as a warning on an unsuccessful scan; only an unreadable upload
// or a missing recognizer is an error.
func (s *OCRService) ScanAddress(ctx context.Context, frame io.Reader) (*AddressScan, error) {
	prepared, err := PrepareForOCR(io.LimitReader(frame, MaxScanBytes))
	if err != nil {
		return nil, invalid("Could not read the captured image.")
	}

	text, err := s.recognizer.RecognizeText(ctx, prepared)
	if errors.Is(err, clients.ErrOCRDisabled) {
		return nil, unavailable("Address scanning is not configured")
	}
	if err != nil {
		s.log.Warn("text recognition failed", "error", err)
		return &AddressScan{Warning: scanFailedWarning}, nil
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return &AddressScan{Warning: noTextWarning}, nil
	}
	return &AddressScan{Success: true, Text: text, DetectedCity: DetectCity(text)}, nil
}

// PrepareForOCR normalises a camera frame for text recognition and returns it
// PNG encoded.
func PrepareForOCR(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	var out image.Image = imaging.Grayscale(img)
	if w := out.Bounds().Dx(); w > 0 && w < minScanWidth {
		out = imaging.Resize(out, minScanWidth, 0, imaging.Lanczos)
	}
	out = imaging.AdjustContrast(out, 25)
	out = imaging.Sharpen(out, 1.2)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetectCity returns the first known city whose name appears in the text,
// ignoring case, or "" when none does.
func DetectCity(text string) string {
	lower := strings.ToLower(text)
	for _, city := range models.DomesticCities {
		if strings.Contains(lower, strings.ToLower(city)) {
			return city
		}
	}
	return ""
}
