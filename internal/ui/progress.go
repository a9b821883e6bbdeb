package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"valc/internal/driver"
)

const statusWidth = 12

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	items   []programItem
	index   map[string]int
	width   int
	done    bool
}

type programItem struct {
	name    string
	status  string
	stage   driver.Stage
	final   bool
	elapsed time.Duration
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that shows one line per
// program while LowerAll runs. It quits once events is closed.
func NewProgressModel(title string, programs []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]programItem, 0, len(programs))
	index := make(map[string]int, len(programs))
	for i, name := range programs {
		items = append(items, programItem{name: name, status: "queued"})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.prog.Update(msg)
		m.prog = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	finished := 0
	for _, item := range m.items {
		if item.final {
			finished++
		}
	}
	header := fmt.Sprintf("%s [%d/%d]", m.title, finished, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-14, 20)
	for _, item := range m.items {
		status := styleStatus(item.status).Render(fmt.Sprintf("%*s", statusWidth, item.status))
		fmt.Fprintf(&b, "  %s %s", status, truncate(item.name, nameWidth))
		if item.final && item.elapsed > 0 {
			fmt.Fprintf(&b, " (%s)", item.elapsed.Round(time.Millisecond))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

// applyEvent updates the program's line and returns the command that
// animates the bar to the new overall fraction.
func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.Name]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	switch ev.Status {
	case driver.StatusDone, driver.StatusCached, driver.StatusError:
		item.final = true
		item.elapsed = ev.Elapsed
	}
	return m.prog.SetPercent(m.fraction())
}

func (m *progressModel) fraction() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		if item.final {
			total++
		} else {
			total += progressFromStage(item.stage)
		}
	}
	return total / float64(len(m.items))
}

func progressFromStage(stage driver.Stage) float64 {
	switch stage {
	case driver.StageFingerprint:
		return 0.1
	case driver.StageLower:
		return 0.4
	case driver.StageEncode:
		return 0.9
	default:
		return 0.0
	}
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusCached:
		return "cached"
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage driver.Stage) string {
	switch stage {
	case driver.StageFingerprint:
		return "hashing"
	case driver.StageLower:
		return "lowering"
	case driver.StageEncode:
		return "encoding"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done", "cached":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "hashing", "lowering", "encoding":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
