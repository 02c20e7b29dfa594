package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/minepkg/mcinstall/internals/instances"
)

var (
	groupNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("211"))
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

type groupProgressMsg struct {
	percent int
	group   string
}

type installDoneMsg struct{}

type installModel struct {
	width    int
	group    string
	percent  int
	spinner  spinner.Model
	progress progress.Model
	cancel   context.CancelFunc
	done     bool
}

func newInstallModel(cancel context.CancelFunc) installModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	return installModel{
		group:    "manifests",
		spinner:  s,
		progress: p,
		cancel:   cancel,
	}
}

func (m installModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m installModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancel()
			return m, tea.Quit
		}
	case groupProgressMsg:
		m.group, m.percent = msg.group, msg.percent
		return m, m.progress.SetPercent(float64(msg.percent) / 100)
	case installDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progress.FrameMsg:
		newModel, cmd := m.progress.Update(msg)
		if newModel, ok := newModel.(progress.Model); ok {
			m.progress = newModel
		}
		return m, cmd
	}
	return m, nil
}

func (m installModel) View() string {
	if m.done {
		return ""
	}

	spin := m.spinner.View() + " "
	info := "Downloading " + groupNameStyle.Render(m.group)
	prog := m.progress.View()
	percent := subtleStyle.Render(fmt.Sprintf(" %3d%%", m.percent))

	cellsRemaining := m.width - lipgloss.Width(spin+info+prog+percent)
	if cellsRemaining < 1 {
		cellsRemaining = 1
	}
	gap := strings.Repeat(" ", cellsRemaining)

	return spin + info + gap + prog + percent
}

// installWithProgress runs the installation while showing a progress bar per download group
func installWithProgress(ctx context.Context, cancel context.CancelFunc, instance *instances.Instance, opts *instances.InstallOptions) (*instances.InstallResult, error) {
	program := tea.NewProgram(newInstallModel(cancel))
	opts.Downloader.OnProgress = func(percent int, group string) {
		program.Send(groupProgressMsg{percent, group})
	}

	type result struct {
		res *instances.InstallResult
		err error
	}
	finished := make(chan result, 1)
	go func() {
		res, err := instance.Install(ctx, opts)
		finished <- result{res, err}
		program.Send(installDoneMsg{})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
	}
	r := <-finished
	return r.res, r.err
}
