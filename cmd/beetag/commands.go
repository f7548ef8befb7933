package main

import (
	"fmt"

	"github.com/Hanaasagi/beetag/cmd"
	"github.com/Hanaasagi/beetag/internal/search"
	"github.com/Hanaasagi/beetag/internal/workflow"
	"github.com/Hanaasagi/beetag/pkg/classifier"
	"github.com/Hanaasagi/beetag/pkg/imagedecode"
	"github.com/Hanaasagi/beetag/pkg/pixelscan"
	"github.com/Hanaasagi/beetag/pkg/samplestore"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	var showTally bool

	c := &cobra.Command{
		Use:     "search [corpus-root]",
		Short:   "Sweep all thresholds on a labeled corpus and pick the best",
		GroupID: cmd.ThresholdGroup.ID,
		Example: "  beetag search data/cropped/50x50/train --tally",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			root := app.config.SplitRoot(app.config.Dataset.Train)
			if len(args) == 1 {
				root = args[0]
			}

			res, err := runSearch(app, root)
			if err != nil {
				return err
			}

			p, err := app.printer()
			if err != nil {
				return err
			}
			p.Search(root, res)
			if showTally {
				p.Tally(&res.Tally)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&showTally, "tally", false, "Print the mistake count of every threshold")
	return c
}

func runSearch(app *App, root string) (*search.Result, error) {
	set, err := app.scan(root)
	if err != nil {
		return nil, err
	}
	s, err := app.searcher(root, true)
	if err != nil {
		return nil, err
	}
	return s.FindBestThreshold(set)
}

func newCountCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "count [corpus-root...]",
		Short:   "Count mistakes of a fixed threshold on held-out corpora",
		GroupID: cmd.ThresholdGroup.ID,
		Long: "Count mistakes of the configured threshold on each corpus root. " +
			"Without arguments the validation and test splits are used.",
		Example: "  beetag count -t 47 data/cropped/50x50/validation",
		RunE: func(c *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				roots = []string{
					app.config.SplitRoot(app.config.Dataset.Validation),
					app.config.SplitRoot(app.config.Dataset.Test),
				}
			}
			return countAll(app, roots, app.threshold())
		},
	}
}

func countAll(app *App, roots []string, threshold pixelscan.Threshold) error {
	p, err := app.printer()
	if err != nil {
		return err
	}

	for _, root := range roots {
		set, err := app.scan(root)
		if err != nil {
			return err
		}
		s, err := app.searcher(root, false)
		if err != nil {
			return err
		}

		n, _, err := s.CountMistakes(set, threshold)
		if err != nil {
			return err
		}
		p.Mistakes(root, threshold, n, set.Len())
	}
	return nil
}

func newRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "run",
		Short:   "Search on the train split, then count mistakes on validation and test",
		GroupID: cmd.ThresholdGroup.ID,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			train := app.config.SplitRoot(app.config.Dataset.Train)
			res, err := runSearch(app, train)
			if err != nil {
				return err
			}

			p, err := app.printer()
			if err != nil {
				return err
			}
			p.Search(train, res)

			return countAll(app, []string{
				app.config.SplitRoot(app.config.Dataset.Validation),
				app.config.SplitRoot(app.config.Dataset.Test),
			}, res.Threshold)
		},
	}
}

func newClassifyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "classify <image>...",
		Short:   "Label single images at the configured threshold",
		GroupID: cmd.ThresholdGroup.ID,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			d, err := app.decoder()
			if err != nil {
				return err
			}
			cl, err := app.classifier()
			if err != nil {
				return err
			}
			p, err := app.printer()
			if err != nil {
				return err
			}

			for _, path := range args {
				g, err := imagedecode.DecodeGrid(d, path)
				if err != nil {
					return err
				}
				p.Label(path, cl.Classify(g).String())
			}
			return nil
		},
	}
}

func newEvaluateCmd(app *App) *cobra.Command {
	var (
		groundTruth []string
		pathColumn  string
		skipLabel   bool
		verbose     bool
	)

	c := &cobra.Command{
		Use:     "evaluate [samples.csv]",
		Short:   "Label a sample table and score it against ground-truth columns",
		GroupID: cmd.SamplesGroup.ID,
		Long: "Classify the image of every sample at the configured threshold, store the label in " +
			"the pixel_threshold_label_at_<T> column and print one confusion matrix per ground-truth column.",
		Example: "  beetag evaluate output/samples.csv -t 47 --ground-truth manual_evaluation_based_on_video",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			tablePath := app.config.Samples.Path
			if len(args) == 1 {
				tablePath = args[0]
			}
			if c.Flags().Changed("ground-truth") {
				app.config.Samples.GroundTruthColumns = groundTruth
			}
			if c.Flags().Changed("path-column") {
				app.config.Samples.PathColumn = pathColumn
			}

			d, err := app.decoder()
			if err != nil {
				return err
			}
			cl, err := app.classifier()
			if err != nil {
				return err
			}
			p, err := app.printer()
			if err != nil {
				return err
			}

			l := &workflow.Labeler{
				Decoder:    d,
				Classifier: cl,
				PathColumn: app.config.Samples.PathColumn,
			}
			if verbose {
				l.OnLabel = func(path string, status classifier.TagStatus) {
					p.Label(path, status.String())
				}
			}

			var table *samplestore.Table
			if skipLabel {
				var recovered int
				table, recovered, err = l.LoadTable(tablePath)
				if err == nil && recovered > 0 {
					color.New(color.FgYellow).Fprintf(app.stderr,
						"Warning: merged %d rows from unfinished run %s\n", recovered, samplestore.JournalPath(tablePath))
				}
			} else {
				table, err = l.LabelTable(tablePath)
			}
			if err != nil {
				return err
			}

			results, err := l.Evaluate(table, app.config.Samples.GroundTruthColumns)
			if err != nil {
				return err
			}
			p.Confusion(l.Column(), results)
			return nil
		},
	}

	c.Flags().StringSliceVar(&groundTruth, "ground-truth", nil, "Ground-truth columns to score against")
	c.Flags().StringVar(&pathColumn, "path-column", samplestore.DefaultPathColumn, "Column holding image paths")
	c.Flags().BoolVar(&skipLabel, "skip-label", false, "Score the existing label column without classifying")
	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every sample's label")
	return c
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintf(c.OutOrStdout(), "%s version: %s\n", appName, FullVersion)
		},
	}
}
