// Package qr renders QR codes as SVG images.
//
// The provisioning tool prints the device authorization key as a QR code
// so the mobile application can scan it instead of typing 64 hex digits.
package qr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

// ErrNegativeBorder indicates a negative border module count.
var ErrNegativeBorder = errors.New("qr: border must be non-negative")

// SVG encodes content as a QR code and returns it as an SVG image.
//
// The code uses quartile (25%) error correction, so a partly damaged
// label still scans. border is the width of the quiet zone in modules;
// four is the conventional minimum. The output always uses Unix newlines.
//
// Parameters:
//   - content: Text to encode
//   - border: Quiet zone width in modules
//
// Returns:
//   - string: SVG document
//   - error: ErrNegativeBorder or an encoding failure
func SVG(content string, border int) (string, error) {
	if border < 0 {
		return "", ErrNegativeBorder
	}

	code, err := qrcode.New(content, qrcode.High)
	if err != nil {
		return "", fmt.Errorf("qr: encoding content: %w", err)
	}

	// Bitmap() would include its own quiet zone; we draw our own so the
	// border width is exactly what the caller asked for.
	code.DisableBorder = true
	grid := code.Bitmap()

	return renderSVG(grid, border), nil
}

// renderSVG draws the module grid as one SVG path on a white background.
func renderSVG(grid [][]bool, border int) string {
	dimension := len(grid) + 2*border

	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sb.WriteString("<!DOCTYPE svg PUBLIC \"-//W3C//DTD SVG 1.1//EN\" \"http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd\">\n")
	fmt.Fprintf(&sb,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" viewBox=\"0 0 %[1]d %[1]d\" stroke=\"none\">\n",
		dimension)
	sb.WriteString("\t<rect width=\"100%\" height=\"100%\" fill=\"#FFFFFF\"/>\n")
	sb.WriteString("\t<path d=\"")

	first := true
	for y, row := range grid {
		for x, dark := range row {
			if !dark {
				continue
			}
			if !first {
				sb.WriteString(" ")
			}
			first = false
			fmt.Fprintf(&sb, "M%d,%dh1v1h-1z", x+border, y+border)
		}
	}

	sb.WriteString("\" fill=\"#000000\"/>\n")
	sb.WriteString("</svg>\n")
	return sb.String()
}
