package viz_test

import (
	"reflect"
	"testing"

	"github.com/garooinc/itzana-insights/internal/viz"
)

func TestWantsChart(t *testing.T) {
	cases := []struct {
		question string
		want     bool
	}{
		{"Hazme una grafica de ingresos por canal", true},
		{"Show me a chart of revenue by room type", true},
		{"plot occupancy over time", true},
		{"How many reservations arrived in March?", false},
		{"", false},
	}
	for _, c := range cases {
		if got := viz.WantsChart(c.question); got != c.want {
			t.Errorf("WantsChart(%q) = %v, want %v", c.question, got, c.want)
		}
	}
}

func TestDecideBarByRoomType(t *testing.T) {
	columns := []string{"ROOM_TYPE", "RATE"}
	rows := []map[string]any{
		{"ROOM_TYPE": "Beach House", "RATE": 450.0},
		{"ROOM_TYPE": "Garden Suite", "RATE": 320.0},
	}
	spec := viz.Decide(columns, rows, "chart of average rate by room type")

	if spec.Type != viz.ChartBar {
		t.Errorf("type = %q, want bar", spec.Type)
	}
	if spec.X != "ROOM_TYPE" {
		t.Errorf("x = %q, want ROOM_TYPE", spec.X)
	}
	if spec.Y != "RATE" {
		t.Errorf("y = %q, want RATE", spec.Y)
	}
}

func TestDecideLineForTrend(t *testing.T) {
	columns := []string{"MONTH", "REVENUE"}
	rows := []map[string]any{
		{"MONTH": "2025-01", "REVENUE": 120000.0},
		{"MONTH": "2025-02", "REVENUE": 98000.0},
	}
	spec := viz.Decide(columns, rows, "plot the revenue trend by month")

	if spec.Type != viz.ChartLine {
		t.Errorf("type = %q, want line", spec.Type)
	}
	if spec.X != "MONTH" || spec.Y != "REVENUE" {
		t.Errorf("axes = (%q, %q), want (MONTH, REVENUE)", spec.X, spec.Y)
	}
}

func TestDecidePieForProportion(t *testing.T) {
	columns := []string{"CHANNEL", "COUNT"}
	rows := []map[string]any{{"CHANNEL": "OTA", "COUNT": int64(42)}}
	spec := viz.Decide(columns, rows, "pie chart of the share of bookings per channel")

	if spec.Type != viz.ChartPie {
		t.Errorf("type = %q, want pie", spec.Type)
	}
}

func TestDecideNumericFirstColumn(t *testing.T) {
	// No textual column at all: X falls back to the first column, Y is the
	// first numeric column other than X.
	columns := []string{"NIGHTS", "RATE"}
	rows := []map[string]any{{"NIGHTS": int64(3), "RATE": 450.0}}
	spec := viz.Decide(columns, rows, "chart nights vs rate")

	if spec.X != "NIGHTS" {
		t.Errorf("x = %q, want NIGHTS", spec.X)
	}
	if spec.Y != "RATE" {
		t.Errorf("y = %q, want RATE", spec.Y)
	}
}

func TestDecideNoNumericColumn(t *testing.T) {
	columns := []string{"GUEST", "ROOM_TYPE"}
	rows := []map[string]any{{"GUEST": "A", "ROOM_TYPE": "Suite"}}
	spec := viz.Decide(columns, rows, "chart guests")

	if spec.Y != "" {
		t.Errorf("y = %q, want empty when no numeric column exists", spec.Y)
	}
}

func TestDecideEmptyRows(t *testing.T) {
	spec := viz.Decide([]string{"A", "B"}, nil, "chart it")
	if spec.X != "" || spec.Y != "" {
		t.Errorf("empty rows should yield no axes, got (%q, %q)", spec.X, spec.Y)
	}
}

func TestDecideDeterministic(t *testing.T) {
	columns := []string{"ROOM_TYPE", "NIGHTS", "RATE"}
	rows := []map[string]any{
		{"ROOM_TYPE": "Suite", "NIGHTS": int64(2), "RATE": 300.0},
	}
	first := viz.Decide(columns, rows, "chart of rate by room type")
	for i := 0; i < 10; i++ {
		if got := viz.Decide(columns, rows, "chart of rate by room type"); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: spec %+v differs from first %+v", i, got, first)
		}
	}
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{float64(1.5), 1.5, true},
		{float32(2), 2, true},
		{int(3), 3, true},
		{int64(4), 4, true},
		{uint32(5), 5, true},
		{"6", 0, false},
		{nil, 0, false},
	}
	for _, c := range cases {
		got, ok := viz.ToFloat(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ToFloat(%v) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
