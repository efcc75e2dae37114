package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const gaugeWidth = 24

// View renders the status screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Ansine"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleError.Render("error: " + m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.snapshot == nil {
		if m.loading {
			b.WriteString(styleHelp.Render("connecting…"))
		}
		b.WriteString("\n")
		b.WriteString(m.helpLine())
		return b.String()
	}

	s := m.snapshot

	var status strings.Builder
	status.WriteString(gaugeLine("CPU", ratio(s.CPUDelta.Used, s.CPUDelta.Total), ""))
	status.WriteString("\n")
	status.WriteString(gaugeLine("Memory", ratio(s.Memory.Used, s.Memory.Total),
		fmt.Sprintf("%s / %s", formatBytes(s.Memory.Used), formatBytes(s.Memory.Total))))
	status.WriteString("\n")
	status.WriteString(gaugeLine("Swap", ratio(s.Swap.Used, s.Swap.Size),
		fmt.Sprintf("%s / %s", formatBytes(s.Swap.Used), formatBytes(s.Swap.Size))))
	status.WriteString("\n")
	status.WriteString(styleLabel.Render("Uptime"))
	status.WriteString(formatUptime(s.Uptime.Secs))
	if s.CurrentSystem != nil {
		status.WriteString("\n")
		status.WriteString(styleLabel.Render("System"))
		status.WriteString(*s.CurrentSystem)
	}
	b.WriteString(styleBox.Render(status.String()))
	b.WriteString("\n\n")

	if len(m.services) > 0 {
		names := make([]string, 0, len(m.services))
		for name := range m.services {
			names = append(names, name)
		}
		sort.Strings(names)

		var services strings.Builder
		for i, name := range names {
			if i > 0 {
				services.WriteString("\n")
			}
			svc := m.services[name]
			services.WriteString(styleService.Render(name))
			services.WriteString("  ")
			services.WriteString(styleValue.Render(svc.Description))
			services.WriteString("  ")
			services.WriteString(styleValue.Render(svc.Route))
		}
		b.WriteString(styleBox.Render(services.String()))
		b.WriteString("\n\n")
	}

	if !m.lastUpdate.IsZero() {
		b.WriteString(styleHelp.Render("updated " + m.lastUpdate.Format(time.TimeOnly)))
		b.WriteString("\n")
	}
	b.WriteString(m.helpLine())
	return b.String()
}

func (m Model) helpLine() string {
	return styleHelp.Render("r refresh · q quit")
}

// gaugeLine renders "Label ████░░░░ 42.0% (detail)".
func gaugeLine(label string, r float64, detail string) string {
	filled := int(r*gaugeWidth + 0.5)
	if filled > gaugeWidth {
		filled = gaugeWidth
	}
	bar := gaugeStyle(r).Render(strings.Repeat("█", filled)) +
		styleValue.Render(strings.Repeat("░", gaugeWidth-filled))

	line := styleLabel.Render(label) + bar + fmt.Sprintf(" %5.1f%%", r*100)
	if detail != "" {
		line += styleValue.Render("  " + detail)
	}
	return line
}

func ratio(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total)
}

func formatBytes(b uint64) string {
	const gib = 1 << 30
	const mib = 1 << 20
	if b >= gib {
		return fmt.Sprintf("%.1f GiB", float64(b)/gib)
	}
	return fmt.Sprintf("%.0f MiB", float64(b)/mib)
}

func formatUptime(secs uint64) string {
	d := time.Duration(secs) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
