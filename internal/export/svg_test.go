package export

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/icehouse/internal/climate"
	"github.com/san-kum/icehouse/internal/viz"
)

func wellFormed(t *testing.T, doc string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(doc))
	for {
		_, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			t.Fatalf("malformed svg: %v\n%s", err, doc)
		}
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	doc := CanvasToSVG(c, 10)
	wellFormed(t, doc)
	if n := strings.Count(doc, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(doc, `width="40" height="40"`) {
		t.Errorf("unexpected size in\n%s", doc)
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestLineChartRateCurve(t *testing.T) {
	temps, rates := climate.DefaultModel().RateCurve(0.4)

	doc := LineChart([]Series{{X: temps, Y: rates, Stroke: "#ff8844"}}, 600, 300)
	wellFormed(t, doc)
	if !strings.Contains(doc, "stroke-dasharray") {
		t.Error("expected a zero line for a curve crossing zero")
	}
	if !strings.Contains(doc, `stroke="#ff8844"`) {
		t.Error("expected the series colour")
	}
	if LineChart(nil, 100, 100) != "" {
		t.Error("expected empty chart for no data")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plot.svg")
	doc := LineChart([]Series{{X: []float64{0, 1}, Y: []float64{1, 2}}}, 100, 50)

	if err := WriteFile(path, doc); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != doc {
		t.Error("file content mismatch")
	}
	if err := WriteFile(path, ""); err == nil {
		t.Error("expected error for empty document")
	}
}
