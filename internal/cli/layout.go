package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/topiccloud/pkg/pipeline"
	"github.com/matzehuels/topiccloud/pkg/scene"
)

// layoutCommand creates the layout command for placing words.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		lf      layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [topics.json]",
		Short: "Place topics on the spiral and write the scene",
		Long: `Place topics on the spiral and write the scene.

The layout command loads topics (from the given JSON file, or the [source]
section of the config file), classifies them and places every word. The
output is a scene.json file (same format as 'render -f json') that can be
rendered to SVG/PNG/PDF using the 'visualize' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions(args)
			lf.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), opts, inputName(args), output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	lf.register(cmd)

	return cmd
}

// runLayout loads the topics, places them, and writes the scene.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, input, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ts, _, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return fmt.Errorf("load topics: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d words...", len(ts)))
	spinner.Start()

	sc, cacheHit, err := runner.GenerateSceneWithCacheInfo(ctx, ts, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".scene.json"
	}
	if err := scene.WriteFile(sc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(sc.Len(), totalSteps(sc), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// inputName returns the positional topics file, if any.
func inputName(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func totalSteps(sc scene.Scene) int {
	n := 0
	for _, w := range sc.Words {
		n += w.Steps
	}
	return n
}
