package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topiccloud/pkg/pipeline"
)

// renderCommand creates the render command: load, layout and render in
// one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		lf      layoutFlags
		rf      renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [topics.json]",
		Short: "Render topics to a word cloud",
		Long: `Render topics to a word cloud.

Runs the whole pipeline: load topics, classify them, place every word on
the spiral and render the requested formats. Without an argument topics
come from the [source] section of the config file, which may also name a
MongoDB collection or a PostgreSQL table.

Examples:
  topiccloud render topics.json
  topiccloud render topics.json -f svg,png -o out/cloud
  topiccloud render --config prod.toml -f json -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions(args)
			opts.Refresh = refresh
			lf.apply(cmd, &opts)
			if err := rf.apply(cmd, &opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, inputName(args), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")
	lf.register(cmd)
	rf.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, input, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering word cloud...")
	spinner.Start()
	prog := newProgress(c.Logger)

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done("pipeline complete", "words", result.Stats.WordCount)

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
	if err != nil {
		return err
	}

	if output == "-" {
		return nil
	}
	printSuccess("Rendered %d words", result.Stats.WordCount)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.WordCount, result.Stats.SpiralSteps, result.CacheInfo.SceneHit)
	return nil
}
