package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/selection"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1).
				Width(40)
)

// =============================================================================
// BrowseModel - Interactive topic selection
// =============================================================================

// BrowseModel is the bubbletea model for browsing topics. Pressing enter
// clicks the word under the cursor: the click goes through a
// selection.Dispatcher, which drives the details panel and any extra
// callback.
type BrowseModel struct {
	Title   string
	Topics  []topic.Topic
	Classes []topic.Class
	Panel   *selection.Panel
	Cursor  int
	Height  int
	Offset  int
	Err     error

	ctx        context.Context
	dispatcher *selection.Dispatcher
}

// NewBrowseModel creates a browser over ts. onSelect may be nil.
func NewBrowseModel(ctx context.Context, ts []topic.Topic, cl topic.Classifier, onSelect func(int)) BrowseModel {
	panel := selection.NewPanel(ts)
	panel.SetClassifier(cl)
	return BrowseModel{
		Title:      "Topics",
		Topics:     ts,
		Classes:    cl.ClassifyAll(ts),
		Panel:      panel,
		Height:     15,
		ctx:        ctx,
		dispatcher: selection.NewDispatcher(topic.Labels(ts), selection.Fanout(panel.Select, onSelect)),
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.Panel.Clear()
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Topics)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Topics) == 0 {
				return m, nil
			}
			m.Err = m.dispatcher.Click(m.ctx, m.Cursor)
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc clear  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.listView(), "  ", m.panelView()))
	b.WriteString("\n\n")
	if len(m.Topics) > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Topics))))
	}
	if m.Err != nil {
		b.WriteString("  " + styleIconError.Render(errors.UserMessage(m.Err)))
	}

	return b.String()
}

func (m BrowseModel) listView() string {
	if len(m.Topics) == 0 {
		return listDimStyle.Render("no topics")
	}
	end := min(m.Offset+m.Height, len(m.Topics))
	selected := m.Panel.Selected()

	lines := make([]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		t := m.Topics[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		mark := " "
		if i == selected {
			mark = "●"
		}
		label := categoryStyle(m.Classes[i].Category.ClassName()).Render(fmt.Sprintf("%-24s", t.Label))
		if i == m.Cursor {
			label = listSelectedStyle.Inherit(categoryStyle(m.Classes[i].Category.ClassName())).Render(fmt.Sprintf("%-24s", t.Label))
		}
		lines = append(lines, cursor+mark+" "+label+" "+listDimStyle.Render(fmt.Sprintf("%6g", t.Volume)))
	}
	return strings.Join(lines, "\n")
}

func (m BrowseModel) panelView() string {
	d := m.Panel.Details()
	lines := d.Lines()
	if d.Selected {
		lines[0] = StyleTitle.Render(lines[0])
		lines[2] = categoryStyle("positive").Render(lines[2])
		lines[3] = categoryStyle("neutral").Render(lines[3])
		lines[4] = categoryStyle("negative").Render(lines[4])
	} else {
		lines[0] = listDimStyle.Render(lines[0])
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

// =============================================================================
// browse command
// =============================================================================

// browseCommand opens the interactive topic browser.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		noCache bool
		publish bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "browse [topics.json]",
		Short: "Browse topics interactively and inspect their mentions",
		Long: `Browse topics interactively and inspect their mentions.

Topics are listed in placement order, coloured by sentiment. Press enter to
select a topic: the panel shows its total, positive, neutral and negative
mentions. With --publish every selection is also sent to the NATS server
named by [server] nats_url.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions(args)
			lf.apply(cmd, &opts)
			return c.runBrowse(cmd.Context(), opts, noCache, publish)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&publish, "publish", false, "publish selections to NATS")
	lf.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, noCache, publish bool) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ts, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load topics: %w", err)
	}

	var onSelect func(int)
	if publish {
		sc := c.Config().Server
		sc.SetDefaults()
		if sc.NATSURL == "" {
			return fmt.Errorf("--publish needs [server] nats_url in the config file")
		}
		nc, err := selection.ConnectNATS(selection.NATSConfig{URL: sc.NATSURL}, c.Logger)
		if err != nil {
			return err
		}
		defer nc.Close()
		pub := selection.NewPublisher(nc, sc.NATSSubject, c.Logger)
		onSelect = pub.Callback(selection.NewDispatcher(topic.Labels(ts), nil))
	}

	model := NewBrowseModel(ctx, ts, opts.Classifier, onSelect)
	model.Title = c.Config().Server.Title

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if m, ok := final.(BrowseModel); ok {
		if d := m.Panel.Details(); d.Selected {
			printSuccess("%s", d.Lines()[0])
			for _, l := range d.Lines()[1:] {
				printDetail("%s", l)
			}
		}
	}
	return nil
}
