package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/san-kum/oberth/internal/config"
	"github.com/san-kum/oberth/internal/experiment"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func vec(v r3.Vec) string {
	return fmt.Sprintf("(%.4e, %.4e, %.4e)", v.X, v.Y, v.Z)
}

func stateTable(r *experiment.Report) string {
	t := newTable("BODY", "POSITION (m)", "VELOCITY (m/s)")
	for _, b := range r.Bodies {
		t.Row(b.Name, vec(b.Position), vec(b.Velocity))
	}
	return t.String()
}

func conservationTable(r *experiment.Report) string {
	t := newTable("QUANTITY", "VALUE")
	t.Row("integrator", r.Integrator)
	t.Row("ticks", strconv.Itoa(r.Ticks))
	t.Row("simulated", fmt.Sprintf("%.1f days", r.Simulated/config.Day))
	t.Row("wall time", r.Wall.String())
	t.Row("energy drift", fmt.Sprintf("%.3e", r.Drift.Energy))
	t.Row("max energy drift", fmt.Sprintf("%.3e", r.MaxEnergyDrift))
	t.Row("momentum change", fmt.Sprintf("%.3e kg·m/s", r.Drift.Momentum))
	t.Row("angular momentum change", fmt.Sprintf("%.3e kg·m²/s", r.Drift.AngularMomentum))
	t.Row("closest approach", fmt.Sprintf("%.4e m", r.ClosestApproach))
	return t.String()
}

func precisionTable(r *experiment.PrecisionReport) string {
	t := newTable("STEP (s)", "TICKS", "ERROR (m)", "WALL")
	t.Row(fmt.Sprintf("%g", r.Reference.Step), strconv.Itoa(r.Reference.Ticks), "reference", r.Reference.Wall.String())
	for _, res := range r.Results {
		t.Row(fmt.Sprintf("%g", res.Step), strconv.Itoa(res.Ticks), fmt.Sprintf("%.4e", res.Error), res.Wall.String())
	}
	return t.String()
}

func benchTable(results []experiment.BenchResult) string {
	t := newTable("BODIES", "WORKERS", "TICKS", "PER TICK", "TICKS/SEC")
	for _, r := range results {
		rate := 0.0
		if r.Wall > 0 {
			rate = float64(r.Ticks) / r.Wall.Seconds()
		}
		t.Row(strconv.Itoa(r.Bodies), strconv.Itoa(r.Workers), strconv.Itoa(r.Ticks), r.PerTick().String(), fmt.Sprintf("%.1f", rate))
	}
	return t.String()
}

func presetTable() string {
	t := newTable("PRESET", "BODIES", "STEP (s)", "DURATION (days)")
	for _, name := range config.ListPresets() {
		cfg, err := config.GetPreset(name)
		if err != nil {
			continue
		}
		t.Row(name, strconv.Itoa(len(cfg.Bodies)), fmt.Sprintf("%g", cfg.Step), fmt.Sprintf("%.1f", cfg.Duration/config.Day))
	}
	return t.String()
}
