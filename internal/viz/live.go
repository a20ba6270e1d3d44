package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 46
	historyCapacity = 600
	graphMetric     = "polarization"
)

type TickMsg time.Time

// Model steps a flock on every tick and renders it with a stats panel.
type Model struct {
	flock    *flock.Flock
	metrics  []sim.Metric
	name     string
	canvas   *Canvas
	running  bool
	showHelp bool
	theme    int
	styles   styles
	tickRate time.Duration
	stepTime time.Duration
	graph    int // index into metrics of the plotted series, -1 for none
	history  []float64
}

type Option func(*Model)

func WithMetrics(ms ...sim.Metric) Option {
	return func(m *Model) { m.metrics = append(m.metrics, ms...) }
}

// WithTickRate sets the interval between frames. The default is 60 per second.
func WithTickRate(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.tickRate = d
		}
	}
}

func WithTheme(name string) Option {
	return func(m *Model) {
		for i, t := range Themes {
			if t.Name == name {
				m.theme = i
			}
		}
	}
}

func NewModel(f *flock.Flock, name string, opts ...Option) Model {
	m := Model{
		flock:    f,
		name:     name,
		canvas:   NewCanvas(width, height),
		running:  true,
		tickRate: time.Second / 60,
		graph:    -1,
		history:  make([]float64, 0, historyCapacity),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.styles = newStyles(Themes[m.theme])
	for i, metric := range m.metrics {
		if metric.Name() == graphMetric || m.graph < 0 {
			m.graph = i
		}
	}
	m.observe()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the flock.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = newStyles(Themes[m.theme])
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.canvas.Resize(max(msg.Width-statsWidth-2, 20), max(msg.Height-2, 8))
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	start := time.Now()
	m.flock.Step()
	m.stepTime = time.Since(start)
	m.observe()
}

func (m *Model) reset() {
	m.flock.Reset()
	m.stepTime = 0
	m.history = m.history[:0]
	m.observe()
}

func (m *Model) observe() {
	params := m.flock.Params()
	boids := m.flock.Boids()
	for _, metric := range m.metrics {
		metric.Observe(boids, params)
	}
	if m.graph < 0 {
		return
	}
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, m.metrics[m.graph].Value())
}

// Frame returns the number of frames applied to the flock.
func (m Model) Frame() uint64 { return m.flock.Frame() }

func (m Model) Running() bool { return m.running }

// View renders the canvas and the stats panel.
func (m Model) View() string {
	p := m.flock.Params()
	m.canvas.PlotBoids(m.flock.Boids(), p.Width, p.Height)
	canvasView := m.styles.canvas.Render(m.canvas.String())

	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")
	if m.running {
		s.WriteString(st.running.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("frame", fmt.Sprintf("%d", m.flock.Frame()))
	row("boids", fmt.Sprintf("%d", len(m.flock.Boids())))
	row("area", fmt.Sprintf("%dx%d", p.Width, p.Height))
	if m.stepTime > 0 {
		row("step", fmt.Sprintf("%.2fms", float64(m.stepTime.Microseconds())/1000))
		row("fps", fmt.Sprintf("%.0f", 1/m.stepTime.Seconds()))
	}
	for _, metric := range m.metrics {
		row(metric.Name(), fmt.Sprintf("%.3f", metric.Value()))
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(6), asciigraph.Width(30),
			asciigraph.Caption(m.metrics[m.graph].Name()))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause N:Step R:Reset\nT:Theme  ?:Help   Q:Quit"))
	statsView := st.stats.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Single step (paused)     ║
║  R        - Reset population         ║
║  T        - Cycle themes (` + fmt.Sprintf("%-9s", Themes[m.theme].Name) + `) ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}

// Run starts the live view in the alternate screen and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
