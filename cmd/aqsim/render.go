package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"aqtimer-go/services/display"
)

var (
	baseStyle  = lipgloss.NewStyle().Margin(1, 2)
	panelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 2)
	litStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	alarmStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true).Blink(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Segment bits, a..g.
const (
	segA = 1 << iota
	segB
	segC
	segD
	segE
	segF
	segG
)

func on(p uint8, bit uint8, s string) string {
	if p&bit != 0 {
		return s
	}
	return " "
}

// renderDigits draws a frame as three text rows. A separator bit is drawn
// as a colon in front of its position.
func renderDigits(f display.Frame) [3]string {
	var rows [3]strings.Builder
	for i, p := range f {
		sep := " "
		if p&display.Separator != 0 {
			sep = ":"
		}
		rows[0].WriteString(" ")
		rows[1].WriteString(sep)
		rows[2].WriteString(sep)

		rows[0].WriteString(" " + on(p, segA, "_") + " ")
		rows[1].WriteString(on(p, segF, "|") + on(p, segG, "_") + on(p, segB, "|"))
		rows[2].WriteString(on(p, segE, "|") + on(p, segD, "_") + on(p, segC, "|"))
		if i < len(f)-1 {
			for r := range rows {
				rows[r].WriteString(" ")
			}
		}
	}
	return [3]string{rows[0].String(), rows[1].String(), rows[2].String()}
}
