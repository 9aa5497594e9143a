package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// NormalizeImage re-encodes an image payload so the stored record stays
// bounded: the result is a JPEG data URL no wider than maxWidth, aspect ratio
// preserved, height rounded to the nearest pixel. The payload may be a raw
// base64 string or a data URL.
//
// Any decode failure returns the original payload unchanged — normalization
// must never block the save flow.
func NormalizeImage(payload string, maxWidth, quality int) string {
	raw, err := decodeBase64Payload(payload)
	if err != nil {
		return payload
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return payload
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth {
		height = int(float64(height)*float64(maxWidth)/float64(width) + 0.5)
		width = maxWidth
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: quality}); err != nil {
		return payload
	}

	return fmt.Sprintf("data:image/jpeg;base64,%s", base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// decodeBase64Payload strips an optional data URL prefix and decodes the
// base64 body.
func decodeBase64Payload(payload string) ([]byte, error) {
	body := payload
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		body = payload[idx+1:]
	}
	return base64.StdEncoding.DecodeString(body)
}
