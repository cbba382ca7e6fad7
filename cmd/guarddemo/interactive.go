package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	descStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7"))

	statusOKStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	statusBadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// pathArg marks where the user-provided file path goes in a scenario's
// argument list.
const pathArg = "{path}"

type scenario struct {
	name string
	desc string
	args []string
}

func (s scenario) needsPath() bool {
	for _, a := range s.args {
		if a == pathArg {
			return true
		}
	}
	return false
}

func demoScenarios() []scenario {
	return []scenario{
		{
			name: "mutex clean",
			desc: "lock, unlock, destroy; exits 0",
			args: []string{"mutex"},
		},
		{
			name: "mutex held at scope exit",
			desc: "destroy while locked; aborts",
			args: []string{"mutex", "--hold"},
		},
		{
			name: "file implicit release",
			desc: "write, healthy implicit close; exits 0",
			args: []string{"file-auto", pathArg},
		},
		{
			name: "file implicit release, flush fails",
			desc: "deferred I/O error at scope exit; aborts",
			args: []string{"file-auto", pathArg, "--fail-flush"},
		},
		{
			name: "file explicit close, flush fails",
			desc: "owner observes the error; exits 0",
			args: []string{"file-explicit", pathArg, "--fail-flush"},
		},
		{
			name: "unwind, one failure",
			desc: "first cleanup failure propagates; exits 0",
			args: []string{"unwind", "--fail", "1"},
		},
		{
			name: "unwind, two failures",
			desc: "second failure while one is in flight; aborts",
			args: []string{"unwind", "--fail", "2"},
		},
	}
}

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Pick and run scenarios from a TUI",
		Long: `Presents the demonstration scenarios in a picker. Each scenario runs as a
subprocess of this binary, so the ones that abort are observed rather than
suffered: the picker shows the captured output and how the process ended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := tea.NewProgram(newPickerModel()).Run()
			return err
		},
	}
}

type pickerState int

const (
	statePick pickerState = iota
	stateEnterPath
	stateShowResult
)

type pickerModel struct {
	scenarios []scenario
	pathInput textinput.Model
	output    string
	status    string
	aborted   bool
	selected  int
	state     pickerState
	running   bool
}

func newPickerModel() *pickerModel {
	ti := textinput.New()
	ti.Prompt = "path: "
	ti.SetValue(filepath.Join(os.TempDir(), "guarddemo-out.txt"))
	ti.Width = 40
	return &pickerModel{
		scenarios: demoScenarios(),
		pathInput: ti,
	}
}

type runDoneMsg struct {
	output  string
	status  string
	aborted bool
}

func runScenario(sc scenario, path string) tea.Cmd {
	return func() tea.Msg {
		args := make([]string, 0, len(sc.args))
		for _, a := range sc.args {
			if a == pathArg {
				a = path
			}
			args = append(args, a)
		}

		out, err := exec.Command(os.Args[0], args...).CombinedOutput()
		msg := runDoneMsg{output: string(out), status: "exit status 0"}
		if err != nil {
			msg.aborted = true
			if ee, ok := err.(*exec.ExitError); ok {
				msg.status = ee.ProcessState.String()
			} else {
				msg.status = err.Error()
			}
		}
		return msg
	}
}

func (m *pickerModel) Init() tea.Cmd {
	return nil
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateEnterPath || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == statePick && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == statePick && m.selected < len(m.scenarios)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case statePick:
				sc := m.scenarios[m.selected]
				if sc.needsPath() {
					m.state = stateEnterPath
					m.pathInput.Focus()
					return m, textinput.Blink
				}
				m.running = true
				return m, runScenario(sc, "")

			case stateEnterPath:
				m.pathInput.Blur()
				m.state = statePick
				m.running = true
				return m, runScenario(m.scenarios[m.selected], m.pathInput.Value())

			case stateShowResult:
				m.state = statePick
				m.output = ""
				m.status = ""
			}

		case "esc":
			switch m.state {
			case stateEnterPath:
				m.pathInput.Blur()
				m.state = statePick
			case stateShowResult:
				m.state = statePick
				m.output = ""
				m.status = ""
			}
		}

	case runDoneMsg:
		m.running = false
		m.output = msg.output
		m.status = msg.status
		m.aborted = msg.aborted
		m.state = stateShowResult
	}

	if m.state == stateEnterPath {
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *pickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("guarddemo"))
	b.WriteString(" scope-bound cleanup failure modes\n\n")

	switch m.state {
	case statePick:
		if m.running {
			b.WriteString("Running scenario...\n")
			break
		}
		b.WriteString("Select a scenario:\n\n")
		for i, sc := range m.scenarios {
			line := nameStyle.Render(sc.name) + " — " + descStyle.Render(sc.desc)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> "))
				b.WriteString(line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case stateEnterPath:
		b.WriteString(fmt.Sprintf("Running %s\n\n", nameStyle.Render(m.scenarios[m.selected].name)))
		b.WriteString(m.pathInput.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter run • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("%s finished: ", nameStyle.Render(m.scenarios[m.selected].name)))
		if m.aborted {
			b.WriteString(statusBadStyle.Render(m.status))
		} else {
			b.WriteString(statusOKStyle.Render(m.status))
		}
		b.WriteString("\n\n")
		if m.output != "" {
			b.WriteString(m.output)
			if !strings.HasSuffix(m.output, "\n") {
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}
