package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"mediasort/internal/app"
	"mediasort/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Messages sent by the run driver. Progress messages are fire-and-forget;
// the sorting loop never waits for the UI.
type (
	PhaseMsg struct {
		Phase app.Phase
	}
	ProgressMsg struct {
		Done  int
		Total int
		File  string
	}
	DoneMsg struct {
		Summary domain.Summary
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Config for the TUI.
type Config struct {
	SourceDir string
	DestDir   string
	Move      bool
}

// Model renders the progress of one sort run.
type Model struct {
	config   Config
	phase    app.Phase
	spinner  spinner.Model
	progress progress.Model
	done     int
	total    int
	current  string
	Summary  domain.Summary
	Err      error
	Finished bool
	Quitting bool
	width    int
}

func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		phase:    app.PhaseValidating,
		spinner:  s,
		progress: p,
		width:    80,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "enter":
			if m.Finished {
				return m, tea.Quit
			}
		}

	case PhaseMsg:
		// The run only moves forward; ignore the trailing idle transition
		// so the final view stays on screen.
		if msg.Phase != app.PhaseIdle {
			m.phase = msg.Phase
		}
		return m, nil

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.current = msg.File
		return m, nil

	case DoneMsg:
		m.Summary = msg.Summary
		m.Finished = true
		return m, nil

	case ErrorMsg:
		m.Err = msg.Err
		m.Finished = true
		return m, nil

	case spinner.TickMsg:
		if !m.Finished {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if !m.Finished {
			var cmds []tea.Cmd
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.done)/float64(m.total)))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.Err != nil:
		b.WriteString(m.renderError())
	case m.Finished:
		b.WriteString(m.renderSummary())
	default:
		b.WriteString(m.renderRunning())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	verb := "Copying"
	if m.config.Move {
		verb = "Moving"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("📷 mediasort"),
		subtitleStyle.Render(verb+" media into date folders"),
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Target: %s", iconFolder, shortenPath(m.config.DestDir))),
	)
}

func (m Model) renderRunning() string {
	label := ""
	switch m.phase {
	case app.PhaseValidating:
		label = "Checking folders..."
	case app.PhaseScanning:
		label = "Scanning for media..."
	case app.PhaseFinalizing:
		label = "Writing report..."
	default:
		label = "Sorting files..."
	}

	if m.phase == app.PhaseSorting && m.total > 0 {
		percent := float64(m.done) / float64(m.total)
		var b strings.Builder
		fmt.Fprintf(&b, "%s %s\n\n", m.spinner.View(), label)
		fmt.Fprintf(&b, "  %s\n", m.progress.ViewAs(percent))
		fmt.Fprintf(&b, "  %s %s\n",
			countStyle.Render(fmt.Sprintf("%d/%d files", m.done, m.total)),
			dimStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
		)
		if m.current != "" {
			fmt.Fprintf(&b, "\n  %s %s\n", iconArrow, fileNameStyle.Render(m.current))
		}
		return b.String()
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), label)
}

func (m Model) renderSummary() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Run Complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n\n", successStyle.Render(iconSuccess), successStyle.Render("Sorting finished")))

	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Processed:"), countStyle.Render(fmt.Sprintf("%d files", m.Summary.Processed))))
	b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Skipped:"), dimStyle.Render(fmt.Sprintf("%s %d", iconSkipped, m.Summary.Skipped))))

	if len(m.Summary.SkipEntries) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Skipped files:"))
		b.WriteString("\n")
		for i, entry := range m.Summary.SkipEntries {
			if i >= 4 {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  ... and %d more\n", len(m.Summary.SkipEntries)-4)))
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				warningStyle.Render(iconSkipped),
				fileNameStyle.Render(entry.Name),
				dimStyle.Render(entry.Reason),
			))
		}
	}

	if m.Summary.SkipLogPath != "" {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("  Skip log: %s", shortenPath(m.Summary.SkipLogPath))))
		b.WriteString("\n")
	}

	for _, note := range m.Summary.Notes {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  %s\n", note)))
	}

	return b.String()
}

func (m Model) renderError() string {
	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", errorStyle.Render(iconError), errorStyle.Render(m.Err.Error())))
}

func (m Model) renderHelp() string {
	if m.Finished {
		return helpStyle.Render("Press Enter to exit")
	}
	return helpStyle.Render("Sorting files... q to quit")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// shortenPath replaces the home directory prefix with ~ for display.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
