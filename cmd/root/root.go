package root

import (
	"github.com/spf13/cobra"

	"github.com/constraint-framework/difflogic/cmd/solve"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "difflogic",
		Short: "Difflogic is a SAT solver extended with difference logic",
		Long: `A Boolean satisfiability solver extended with a difference logic
theory propagator: answers may activate integer constraints of the
form u - v <= k, and every reported answer comes with an integer
assignment satisfying the activated constraints.`,
	}

	// add sub-commands
	rootCmd.AddCommand(solve.NewSolveCommand())

	return rootCmd
}
