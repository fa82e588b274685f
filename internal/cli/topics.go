package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// topicsCommand lists topics with their classification.
func (c *CLI) topicsCommand() *cobra.Command {
	var noCache bool
	var lf layoutFlags

	cmd := &cobra.Command{
		Use:   "topics [topics.json]",
		Short: "List topics with their font size and sentiment class",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions(args)
			lf.apply(cmd, &opts)
			return c.runTopics(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd)

	return cmd
}

func (c *CLI) runTopics(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ts, hit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("load topics: %w", err)
	}

	fmt.Println(topicTable(ts, opts.Classifier))
	printDetail("%d topics from %s", len(ts), opts.Source.Kind)
	if hit {
		printDetail("served from cache")
	}
	return nil
}

// topicTable renders ts as a table in placement order.
func topicTable(ts []topic.Topic, cl topic.Classifier) string {
	classes := cl.ClassifyAll(ts)
	rows := make([][]string, len(ts))
	for i, t := range ts {
		rows[i] = []string{
			strconv.Itoa(i),
			t.Label,
			strconv.FormatFloat(t.Volume, 'g', -1, 64),
			strconv.FormatFloat(classes[i].Size, 'g', -1, 64),
			strconv.FormatFloat(t.SentimentScore, 'g', -1, 64),
			classes[i].Category.ClassName(),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Topic", "Volume", "Size", "Score", "Class").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 5 && row < len(classes):
				return categoryStyle(classes[row].Category.ClassName())
			case col == 0:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
