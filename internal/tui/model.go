// Package tui replays a finished simulation in the terminal.
package tui

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fchimpan/gh-kusa-svg/internal/sim"
)

type Model struct {
	login string
	res   sim.Result
	cfg   sim.Config
	speed float64

	lastTick time.Time
	acc      float64 // frames owed to the replay
	frame    int
	paused   bool

	// cells is [row][col] -> index into res.Blocks, or -1.
	cells  [][]int
	index  map[string]int
	health []int
	hitIdx int

	blockCells map[int]string

	w int

	viewBuf bytes.Buffer
}

func NewModel(login string, res sim.Result, cfg sim.Config, speed float64) *Model {
	if speed <= 0 {
		speed = 1
	}
	if res.History == nil {
		res.History = sim.NewHistory()
	}
	m := &Model{
		login: login,
		res:   res,
		cfg:   cfg,
		speed: speed,
		index: make(map[string]int, len(res.Blocks)),
	}
	m.cells = make([][]int, max(cfg.Rows, 0))
	for r := range m.cells {
		m.cells[r] = make([]int, max(cfg.Cols, 0))
		for c := range m.cells[r] {
			m.cells[r][c] = -1
		}
	}
	for i, b := range res.Blocks {
		m.index[b.ID] = i
		if b.Row >= 0 && b.Row < len(m.cells) && b.Col >= 0 && b.Col < len(m.cells[b.Row]) {
			m.cells[b.Row][b.Col] = i
		}
	}

	ramp := cfg.Ramp()
	m.blockCells = make(map[int]string, cfg.HealthRef+1)
	for hp := 1; hp <= cfg.HealthRef; hp++ {
		m.blockCells[hp] = lipgloss.NewStyle().Background(lipgloss.Color(ramp.At(hp).Hex())).Render("  ")
	}
	m.restart()
	return m
}

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tickCmd(time.Second / 60)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w = msg.Width
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if m.lastTick.IsZero() {
			m.lastTick = now
			return m, tickCmd(time.Second / 60)
		}
		dt := now.Sub(m.lastTick).Seconds()
		m.lastTick = now
		// Clamp to avoid a jump after the terminal stalls.
		dt = math.Max(0, math.Min(dt, 0.05))
		if !m.paused {
			m.advance(dt)
		}
		return m, tickCmd(time.Second / 60)
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ", "space", "p":
			m.paused = !m.paused
		case "r", "R":
			m.restart()
		case "+", "=":
			m.speed = math.Min(m.speed*1.25, 16)
		case "-", "_":
			m.speed = math.Max(m.speed/1.25, 0.1)
		}
		return m, nil
	default:
		return m, nil
	}
}

// advance moves the replay forward by dt seconds of wall time.
func (m *Model) advance(dt float64) {
	if m.Done() {
		return
	}
	m.acc += dt * m.cfg.FPS * m.speed
	steps := int(m.acc)
	m.acc -= float64(steps)
	m.seek(min(m.frame+steps, m.lastFrame()))
}

func (m *Model) seek(frame int) {
	m.frame = frame
	hits := m.res.History.Hits
	for m.hitIdx < len(hits) && hits[m.hitIdx].Frame <= frame {
		h := hits[m.hitIdx]
		if i, ok := m.index[h.ID]; ok {
			m.health[i] = h.Health
		}
		m.hitIdx++
	}
}

func (m *Model) restart() {
	m.health = make([]int, len(m.res.Blocks))
	for i, b := range m.res.Blocks {
		m.health[i] = b.MaxHealth
	}
	m.hitIdx = 0
	m.acc = 0
	m.lastTick = time.Time{}
	m.seek(0)
}

func (m *Model) lastFrame() int {
	return max(len(m.res.History.Path)-1, 0)
}

// Done reports whether the replay reached the final recorded frame.
func (m *Model) Done() bool {
	return m.frame >= m.lastFrame()
}

func (m *Model) remaining() int {
	n := 0
	for _, hp := range m.health {
		if hp > 0 {
			n++
		}
	}
	return n
}

func (m *Model) View() string {
	m.viewBuf.Reset()
	b := &m.viewBuf

	b.WriteString(renderHUD(m.login, m.frame, m.res.Frames, m.remaining(), len(m.res.Blocks), m.speed))
	b.WriteByte('\n')

	switch {
	case len(m.res.History.Path) == 0:
		b.WriteString(styleHudDim.Render("no contributions found, nothing to replay (q quit)"))
	case m.Done():
		b.WriteString(styleHudOk.Render("CLEAR! all blocks removed.") + styleHudDim.Render(" (r replay, q quit)"))
	case m.paused:
		b.WriteString(styleHudDim.Render("paused (space resume, q quit)"))
	default:
		b.WriteString(styleHudDim.Render("space pause, r restart, +/- speed, q quit"))
	}
	b.WriteByte('\n')

	m.renderBoard(b)
	if m.w > 0 {
		return lipgloss.PlaceHorizontal(m.w, lipgloss.Center, b.String())
	}
	return b.String()
}

func (m *Model) renderBoard(b *bytes.Buffer) {
	bx, by := -1, -1
	if len(m.res.History.Path) > 0 {
		p := m.res.History.Path[m.frame]
		bx = int(math.Floor(float64(p.X)))
		by = int(math.Floor(float64(p.Y)))
	}

	border := styleBorder.Render("+" + strings.Repeat("--", len(firstRow(m.cells))) + "+")
	b.WriteString(border)
	b.WriteByte('\n')
	for r, row := range m.cells {
		b.WriteString(styleBorder.Render("|"))
		for c, idx := range row {
			switch {
			case r == by && c == bx:
				b.WriteString(ballCell)
			case idx >= 0 && m.health[idx] > 0:
				b.WriteString(m.blockCell(m.health[idx]))
			default:
				b.WriteString("  ")
			}
		}
		b.WriteString(styleBorder.Render("|"))
		b.WriteByte('\n')
	}
	b.WriteString(border)
	b.WriteByte('\n')
}

func (m *Model) blockCell(hp int) string {
	if hp > m.cfg.HealthRef {
		hp = m.cfg.HealthRef
	}
	return m.blockCells[hp]
}

func firstRow(cells [][]int) []int {
	if len(cells) == 0 {
		return nil
	}
	return cells[0]
}

func renderHUD(login string, frame, total, remaining, blocks int, speed float64) string {
	sep := styleHudDim.Render("  |  ")

	barW := 18
	fill := 0
	if total > 1 {
		fill = int(float64(barW) * float64(frame) / float64(total-1))
	}
	fill = min(max(fill, 0), barW)
	bar := styleHudLabel.Render("[") +
		styleHudOk.Render(strings.Repeat("█", fill)) +
		styleHudDim.Render(strings.Repeat("░", barW-fill)) +
		styleHudLabel.Render("]")

	return strings.Join([]string{
		styleHudLabel.Render("user ") + styleHudValue.Render(login),
		sep,
		styleHudLabel.Render("frame ") + styleHudValue.Render(fmt.Sprintf("%7d/%7d", frame, total)) + " " + bar,
		sep,
		styleHudLabel.Render("blocks ") + styleHudValue.Render(fmt.Sprintf("%4d/%4d", remaining, blocks)),
		sep,
		styleHudLabel.Render("speed ") + styleHudValue.Render(fmt.Sprintf("%.2fx", speed)),
	}, "")
}

var (
	styleBall   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	styleBorder = lipgloss.NewStyle().Foreground(lipgloss.Color("#30363d"))

	ballCell = styleBall.Render("()")

	styleHudLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("#8b949e"))
	styleHudValue = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d0d7de"))
	styleHudOk    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7ee787"))
	styleHudDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)
