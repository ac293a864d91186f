package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"aqtimer-go/hal/fakehal"
	"aqtimer-go/services/app"
	"aqtimer-go/types"
)

const (
	refreshEvery = 50 * time.Millisecond
	rawStep      = 10
	rawMax       = 1023
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type model struct {
	app    *app.App
	fakes  *fakehal.Board
	vision *vision
	raw    uint16
	snap   types.Snapshot
	buzz   bool
}

func newModel(a *app.App, fb *fakehal.Board, v *vision, raw uint16) model {
	fb.ADC.SetRaw(raw)
	return model{app: a, fakes: fb, vision: v, raw: raw}
}

func (m model) Init() tea.Cmd { return tickCmd() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.app.Snapshot()
		m.buzz = m.fakes.Buzzer.Get() || m.snap.Alarm.Active()
		return m, tickCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "m", "1":
			m.fakes.Momentary.Press()
		case "l", "2":
			m.fakes.Latch.Press()
		case "up", "k", "+":
			m.setRaw(int(m.raw) + rawStep)
		case "down", "j", "-":
			m.setRaw(int(m.raw) - rawStep)
		case "pgup":
			m.setRaw(int(m.raw) + 10*rawStep)
		case "pgdown":
			m.setRaw(int(m.raw) - 10*rawStep)
		}
	}
	return m, nil
}

func (m *model) setRaw(v int) {
	if v < 0 {
		v = 0
	}
	if v > rawMax {
		v = rawMax
	}
	m.raw = uint16(v)
	m.fakes.ADC.SetRaw(m.raw)
}

func (m model) View() string {
	var b strings.Builder
	for _, row := range renderDigits(m.vision.Frame()) {
		b.WriteString(litStyle.Render(row))
		b.WriteString("\n")
	}
	face := panelStyle.Render(strings.TrimRight(b.String(), "\n"))

	s := m.snap
	status := []string{
		field("mode", s.Mode.String()),
		field("latched", fmt.Sprint(s.Latched)),
		field("countdown", fmt.Sprintf("%02d:%02d", s.Countdown/60, s.Countdown%60)),
		field("adc", fmt.Sprint(m.raw)),
		field("ppm", fmt.Sprintf("%.1f", s.Reading.PPM)),
		field("tick", fmt.Sprint(s.Tick)),
		field("bounces", fmt.Sprint(s.Bounces)),
		field("overruns", fmt.Sprint(s.Overruns)),
	}
	if m.buzz {
		status = append(status, alarmStyle.Render(fmt.Sprintf("ALARM %s (%d)", s.Alarm.Cause, s.Alarm.Remaining)))
	}
	help := dimStyle.Render("m momentary  l latch  ↑/↓ adc ±10  pgup/pgdn ±100  q quit")
	return baseStyle.Render(face + "\n" + strings.Join(status, "  ") + "\n\n" + help)
}

func field(k, v string) string {
	return labelStyle.Render(k+" ") + valueStyle.Render(v)
}
