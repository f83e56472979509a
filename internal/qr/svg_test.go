package qr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestSVG(t *testing.T) {
	svg, err := SVG("0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF0123456789ABCDEF", 4)
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}

	if !strings.HasPrefix(svg, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n") {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, "<svg xmlns=\"http://www.w3.org/2000/svg\"") {
		t.Error("missing svg element")
	}
	if !strings.Contains(svg, "<rect width=\"100%\" height=\"100%\" fill=\"#FFFFFF\"/>") {
		t.Error("missing white background")
	}
	if !strings.Contains(svg, "fill=\"#000000\"") {
		t.Error("missing black modules")
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("missing closing tag with trailing newline")
	}
	if strings.Contains(svg, "\r") {
		t.Error("output must use Unix newlines only")
	}
}

func TestSVG_Deterministic(t *testing.T) {
	first, err := SVG("same content", 4)
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	second, err := SVG("same content", 4)
	if err != nil {
		t.Fatalf("SVG() error = %v", err)
	}
	if first != second {
		t.Error("same content must produce the same image")
	}
}

func TestSVG_NegativeBorder(t *testing.T) {
	_, err := SVG("content", -1)
	if !errors.Is(err, ErrNegativeBorder) {
		t.Errorf("SVG() error = %v, want ErrNegativeBorder", err)
	}
}

func TestRenderSVG_Dimension(t *testing.T) {
	grid := [][]bool{
		{true, false},
		{false, true},
	}

	svg := renderSVG(grid, 4)

	// 2 modules + 4 border on each side
	if !strings.Contains(svg, "viewBox=\"0 0 10 10\"") {
		t.Errorf("viewBox should be 10x10, got:\n%s", svg)
	}

	// Dark modules are offset by the border.
	if !strings.Contains(svg, "M4,4h1v1h-1z M5,5h1v1h-1z") {
		t.Errorf("path should contain offset modules, got:\n%s", svg)
	}
}

func TestRenderSVG_NoBorder(t *testing.T) {
	grid := [][]bool{{true}}

	svg := renderSVG(grid, 0)

	if !strings.Contains(svg, "viewBox=\"0 0 1 1\"") {
		t.Errorf("viewBox should be 1x1, got:\n%s", svg)
	}
	if !strings.Contains(svg, fmt.Sprintf("M%d,%dh1v1h-1z", 0, 0)) {
		t.Errorf("module should sit at the origin, got:\n%s", svg)
	}
}
