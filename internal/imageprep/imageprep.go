// Package imageprep shrinks photographed pages before OCR so uploads stay
// small without hurting text recognition.
package imageprep

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"
	"log/slog"

	"golang.org/x/image/draw"

	"scorescan/internal/logging"
)

const (
	// maxEdge caps the longer image dimension. Detection accuracy is
	// unchanged at this size while payloads shrink considerably.
	maxEdge = 1024
	// jpegQuality for the re-encoded upload.
	jpegQuality = 85
)

// Optimize decodes the image, scales it down so neither edge exceeds
// maxEdge, and re-encodes it as JPEG. Anything that cannot be decoded is
// returned untouched; the OCR service gets to make the final call.
func Optimize(data []byte, logger *slog.Logger) []byte {
	logger = logging.NewComponentLogger(logger, "imageprep")

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Debug("image decode failed, passing original through", logging.Error(err))
		return data
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxEdge && height <= maxEdge && format == "jpeg" {
		return data
	}

	scaledW, scaledH := width, height
	if width > maxEdge || height > maxEdge {
		if width >= height {
			scaledH = height * maxEdge / width
			scaledW = maxEdge
		} else {
			scaledW = width * maxEdge / height
			scaledH = maxEdge
		}
		if scaledW < 1 {
			scaledW = 1
		}
		if scaledH < 1 {
			scaledH = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		logger.Debug("jpeg encode failed, passing original through", logging.Error(err))
		return data
	}

	logger.Debug("image optimized",
		logging.Int("original_bytes", len(data)),
		logging.Int("optimized_bytes", buf.Len()),
		logging.Int("width", scaledW),
		logging.Int("height", scaledH))
	return buf.Bytes()
}
