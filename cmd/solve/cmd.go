package solve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/constraint-framework/difflogic/internal/difflogic"
	"github.com/constraint-framework/difflogic/internal/solver"
	"github.com/constraint-framework/difflogic/pkg/theory"
)

func NewSolveCommand() *cobra.Command {
	var maxModels int
	var showStats bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "solve <path>",
		Short: "Solves a difference logic problem",
		Long: `Solves a difference logic problem. For instance:
c
c this is a comment
c header: p dl <number of atoms> <number of clauses>
p dl 2 1
c one atom line per constraint; atom i asserts u - v <= k
a x y 5
a y x -6
c clauses over +/- atom ordinals end in zero
1 2 0
c
c with zero clauses every atom is asserted unconditionally, turning
c the command into a plain feasibility check
`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("file (%s) not found", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(args[0], maxModels, showStats, verbose)
		},
	}
	cmd.Flags().IntVarP(&maxModels, "models", "n", 1, "maximum number of answers to enumerate, 0 for all")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print timing statistics")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log theory conflicts as they are found")
	return cmd
}

func solve(path string, maxModels int, showStats bool, verbose bool) error {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	stats := &difflogic.Stats{}
	defer func(start time.Time) {
		stats.TimeTotal = time.Since(start)
		if showStats {
			printStats(logger, stats)
		}
	}(time.Now())

	// open problem file
	problemFile, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening problem file (%s): %w", path, err)
	}
	defer problemFile.Close()

	problem, err := NewProblem(problemFile)
	if err != nil {
		return fmt.Errorf("error parsing problem file (%s): %w", path, err)
	}

	clauses := problem.Clauses()
	if len(clauses) == 0 {
		// no Boolean structure: assert every atom
		for i := range problem.Atoms() {
			clauses = append(clauses, []int{i + 1})
		}
	}

	// build solver
	options := []difflogic.Option{difflogic.WithStats(stats)}
	if verbose {
		options = append(options, difflogic.WithTracer(theory.LoggingTracer{Writer: logger.WriterLevel(logrus.DebugLevel)}))
	}
	so, err := solver.NewSolver(
		solver.WithInput(problem.Atoms(), clauses),
		solver.WithPropagator(difflogic.NewPropagator(options...)),
		solver.WithMaxModels(maxModels),
	)
	if err != nil {
		return err
	}

	// enumerate answers
	models, err := so.Solve(context.Background())
	if err != nil {
		if errors.Is(err, solver.ErrUnsatisfiable) {
			fmt.Println("UNSATISFIABLE")
			return nil
		}
		return err
	}
	for _, model := range models {
		fmt.Printf("Answer %d\n", model.Number)
		facts := make([]string, len(model.Facts))
		for i, id := range model.Facts {
			facts[i] = id.String()
		}
		fmt.Println(strings.Join(facts, " "))
		if model.Assignment != nil {
			values := make([]string, len(model.Assignment))
			for i, a := range model.Assignment {
				values[i] = a.String()
			}
			fmt.Printf("with assignment:\n%s\n", strings.Join(values, " "))
		}
	}
	fmt.Println("SATISFIABLE")

	return nil
}

func printStats(logger *logrus.Logger, stats *difflogic.Stats) {
	logger.Infof("total: %v", stats.TimeTotal)
	logger.Infof("  init: %v", stats.TimeInit)
	for thread, ts := range stats.Threads {
		logger.Infof("  total[%d]: %v", thread, ts.TimePropagate+ts.TimeUndo)
		logger.Infof("    propagate: %v", ts.TimePropagate)
		logger.Infof("    undo     : %v", ts.TimeUndo)
	}
}
