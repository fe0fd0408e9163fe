package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/image/draw"

	"github.com/matzehuels/uniquepfp/pkg/buildinfo"
	perrors "github.com/matzehuels/uniquepfp/pkg/errors"
	"github.com/matzehuels/uniquepfp/pkg/orchestrator"
	"github.com/matzehuels/uniquepfp/pkg/render"
	"github.com/matzehuels/uniquepfp/pkg/sink"
)

// Preview bounds in terminal columns. Each column shows one pixel and each
// row two, using upper half blocks.
const (
	minPreview     = 8
	maxPreview     = 64
	defaultPreview = 32
)

var (
	liveHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	liveModeStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	liveActiveStyle = lipgloss.NewStyle().Foreground(colorWhite)
)

// liveOpts holds the command-line flags for the live command.
type liveOpts struct {
	mode     string
	username string
	saveDir  string
	logFile  string
}

// liveCommand creates the interactive preview command.
func (c *CLI) liveCommand() *cobra.Command {
	var opts liveOpts

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Preview avatars interactively while typing a username",
		Long: `Preview avatars interactively while typing a username.

The preview updates as you type: a quick low-resolution render appears
immediately and a supersampled render replaces it once typing pauses.

Keys: tab cycles the mode, ctrl+s saves the current picture as PNG,
esc or ctrl+c quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := render.ParseMode(opts.mode)
			if err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidMode, err, "--mode")
			}
			return c.runLive(cmd.Context(), mode, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(render.DefaultMode), "initial mode: grid, voronoi-euc, voronoi-man")
	cmd.Flags().StringVarP(&opts.username, "username", "u", "", "initial username")
	cmd.Flags().StringVar(&opts.saveDir, "save-dir", ".", "directory ctrl+s writes to")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write render logs to this file")

	return cmd
}

func (c *CLI) runLive(ctx context.Context, mode render.Mode, opts liveOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs go to a file or nowhere.
	logOut, closeLog, err := openLogSink(opts.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := newLogger(logOut, c.Logger.GetLevel()).WithPrefix("live")

	commits := make(chan orchestrator.Commit, 16)
	surface := orchestrator.NewSurface(cfg.OutputSize)
	orch := orchestrator.New(cfg, surface,
		orchestrator.WithLogger(logger),
		orchestrator.WithMode(mode),
		orchestrator.WithOnCommit(func(cm orchestrator.Commit) {
			select {
			case commits <- cm:
			default:
			}
		}),
	)
	defer orch.Close()

	m := newLiveModel(orch, commits, opts.username, opts.saveDir)
	if opts.username != "" {
		orch.InputChanged(opts.username)
	} else {
		orch.TriggerRender()
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// liveModel - Interactive avatar preview
// =============================================================================

type commitMsg orchestrator.Commit

type savedMsg struct {
	path string
	err  error
}

// liveModel is the bubbletea model for the live preview.
type liveModel struct {
	input   textinput.Model
	orch    *orchestrator.Orchestrator
	commits <-chan orchestrator.Commit
	mode    render.Mode
	last    orchestrator.Commit
	preview int
	saveDir string
	status  string
}

func newLiveModel(orch *orchestrator.Orchestrator, commits <-chan orchestrator.Commit, username, saveDir string) liveModel {
	ti := textinput.New()
	ti.Placeholder = "type a username"
	ti.Prompt = "› "
	ti.CharLimit = perrors.MaxUsernameLength
	ti.SetValue(username)
	ti.Focus()

	return liveModel{
		input:   ti,
		orch:    orch,
		commits: commits,
		mode:    orch.Mode(),
		preview: defaultPreview,
		saveDir: saveDir,
	}
}

func waitForCommit(ch <-chan orchestrator.Commit) tea.Cmd {
	return func() tea.Msg {
		cm, ok := <-ch
		if !ok {
			return nil
		}
		return commitMsg(cm)
	}
}

func saveSnapshot(img *image.RGBA, path string) tea.Cmd {
	return func() tea.Msg {
		data, err := sink.RenderPNG(img)
		if err == nil {
			err = os.WriteFile(path, data, 0o644)
		}
		return savedMsg{path: path, err: err}
	}
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForCommit(m.commits))
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.mode = m.mode.Next()
			m.orch.ModeChanged(m.mode)
			return m, nil
		case "ctrl+s":
			path := filepath.Join(m.saveDir, fileStem(m.input.Value())+".png")
			m.status = "saving " + path
			return m, saveSnapshot(m.orch.Surface().Snapshot(), path)
		}
	case commitMsg:
		m.last = orchestrator.Commit(msg)
		return m, waitForCommit(m.commits)
	case savedMsg:
		if msg.err != nil {
			m.status = StyleError.Render("save failed: " + msg.err.Error())
		} else {
			m.status = StyleSuccess.Render("saved " + msg.path)
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.preview = previewSize(msg.Width, msg.Height)
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.orch.InputChanged(v)
	}
	return m, cmd
}

func (m liveModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("uniquepfp"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(buildinfo.Short()))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	for _, mode := range render.Modes {
		label := " " + mode.String() + " "
		if mode == m.mode {
			b.WriteString(liveModeStyle.Render("[" + mode.String() + "]"))
		} else {
			b.WriteString(liveHelpStyle.Render(label))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(halfBlocks(m.orch.Surface().Snapshot(), m.preview))
	b.WriteString("\n")

	if m.last.Slot != "" {
		b.WriteString(liveActiveStyle.Render(fmt.Sprintf("%s · seed %d", m.last.Slot, m.last.Seed)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(liveHelpStyle.Render("tab mode  ctrl+s save  esc quit"))

	return b.String()
}

// previewSize picks a preview width that fits the terminal.
func previewSize(width, height int) int {
	n := width - 4
	if byRows := (height - 12) * 2; byRows < n {
		n = byRows
	}
	n -= n % 2
	if n < minPreview {
		return minPreview
	}
	if n > maxPreview {
		return maxPreview
	}
	return n
}

// halfBlocks draws img as n columns by n/2 rows of upper half blocks, the
// foreground carrying the top pixel and the background the bottom one.
func halfBlocks(img image.Image, n int) string {
	small := image.NewRGBA(image.Rect(0, 0, n, n))
	draw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), draw.Src, nil)

	var b strings.Builder
	for y := 0; y+1 < n; y += 2 {
		for x := 0; x < n; x++ {
			top := hexColor(small.RGBAAt(x, y))
			bottom := hexColor(small.RGBAAt(x, y+1))
			b.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
