package cmd

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fchimpan/gh-kusa-svg/internal/sim"
	"github.com/fchimpan/gh-kusa-svg/internal/tui"
)

func defaultRunPreview(login string, res sim.Result, cfg sim.Config, speed float64) error {
	p := tea.NewProgram(
		tui.NewModel(login, res, cfg, speed),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
