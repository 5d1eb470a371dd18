package viz_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/garooinc/itzana-insights/internal/viz"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderBar(t *testing.T) {
	rows := []map[string]any{
		{"ROOM_TYPE": "Beach House", "RATE": 450.0},
		{"ROOM_TYPE": "Garden Suite", "RATE": 320.0},
		{"ROOM_TYPE": "Penthouse", "RATE": 890.0},
	}
	png, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartBar, X: "ROOM_TYPE", Y: "RATE"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderSkipsNilRows(t *testing.T) {
	rows := []map[string]any{
		{"CHANNEL": "OTA", "REVENUE": 1000.0},
		{"CHANNEL": nil, "REVENUE": 500.0},
		{"CHANNEL": "Direct", "REVENUE": nil},
		{"CHANNEL": "Agent", "REVENUE": 250.0},
	}
	png, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartBar, X: "CHANNEL", Y: "REVENUE"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(png) == 0 {
		t.Error("empty output")
	}
}

func TestRenderLineWithDates(t *testing.T) {
	rows := []map[string]any{
		{"MONTH": "2025-02", "REVENUE": 98000.0},
		{"MONTH": "2025-01", "REVENUE": 120000.0},
		{"MONTH": "2025-03", "REVENUE": 143000.0},
	}
	png, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartLine, X: "MONTH", Y: "REVENUE"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderLineWithUnparseableLabels(t *testing.T) {
	// Labels that are not dates fall back to an index series; rendering must
	// still succeed.
	rows := []map[string]any{
		{"WEEK": "week one", "NIGHTS": 12.0},
		{"WEEK": "week two", "NIGHTS": 18.0},
	}
	png, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartLine, X: "WEEK", Y: "NIGHTS"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(png) == 0 {
		t.Error("empty output")
	}
}

func TestRenderPie(t *testing.T) {
	rows := []map[string]any{
		{"CHANNEL": "OTA", "COUNT": 40.0},
		{"CHANNEL": "Direct", "COUNT": 35.0},
		{"CHANNEL": "Agent", "COUNT": 25.0},
	}
	png, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartPie, X: "CHANNEL", Y: "COUNT"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderMissingAxes(t *testing.T) {
	rows := []map[string]any{{"A": "x", "B": 1.0}}
	if _, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartBar, X: "A"}); err == nil {
		t.Error("expected error when Y is empty")
	}
	if _, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartBar, Y: "B"}); err == nil {
		t.Error("expected error when X is empty")
	}
}

func TestRenderNoDrawableRows(t *testing.T) {
	rows := []map[string]any{{"A": nil, "B": nil}}
	if _, err := viz.Render(rows, viz.ChartSpec{Type: viz.ChartBar, X: "A", Y: "B"}); err == nil {
		t.Error("expected error when every row is dropped")
	}
}

func TestInlinePublisher(t *testing.T) {
	ref, err := viz.InlinePublisher{}.Publish(context.Background(), "chart.png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if want := "data:image/png;base64,AQID"; ref != want {
		t.Errorf("ref = %q, want %q", ref, want)
	}
}
