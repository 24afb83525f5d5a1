package e2e

import (
	"context"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	cmdsolve "github.com/constraint-framework/difflogic/cmd/solve"
	"github.com/constraint-framework/difflogic/internal/difflogic"
	"github.com/constraint-framework/difflogic/internal/solver"
	"github.com/constraint-framework/difflogic/pkg/theory"
)

func solve(input string, maxModels int) ([]solver.Model, error) {
	problem, err := cmdsolve.NewProblem(strings.NewReader(input))
	Expect(err).To(BeNil())

	clauses := problem.Clauses()
	if len(clauses) == 0 {
		for i := range problem.Atoms() {
			clauses = append(clauses, []int{i + 1})
		}
	}

	so, err := solver.NewSolver(
		solver.WithInput(problem.Atoms(), clauses),
		solver.WithPropagator(difflogic.NewPropagator()),
		solver.WithMaxModels(maxModels),
	)
	Expect(err).To(BeNil())

	return so.Solve(context.Background())
}

var _ = Describe("Solving a difference logic problem", func() {
	When("the asserted constraints are feasible", func() {
		It("reports an answer with a satisfying assignment", func() {
			models, err := solve(`c bounds on a small schedule
p dl 3 0
a start mid -1
a mid end -2
a start end -3
`, 0)
			Expect(err).To(BeNil())
			Expect(models).To(HaveLen(1))
			Expect(models[0].Facts).To(Equal([]theory.Identifier{"d1", "d2", "d3"}))

			values := map[string]int64{}
			for _, a := range models[0].Assignment {
				values[a.Name] = a.Value
			}
			Expect(values["mid"] - values["start"]).To(BeNumerically(">=", 1))
			Expect(values["end"] - values["mid"]).To(BeNumerically(">=", 2))
			Expect(values["end"] - values["start"]).To(BeNumerically(">=", 3))
		})
	})

	When("the asserted constraints close a negative cycle", func() {
		It("reports unsatisfiability", func() {
			_, err := solve(`p dl 3 0
a a b 1
a b c 1
a c a -3
`, 0)
			Expect(err).To(MatchError(solver.ErrUnsatisfiable))
		})
	})

	When("the Boolean structure offers a way around the cycle", func() {
		It("enumerates exactly the consistent answers", func() {
			models, err := solve(`c pick at least one of two clashing constraints
p dl 2 1
a x y 0
a y x -1
1 2 0
`, 0)
			Expect(err).To(BeNil())
			Expect(models).To(HaveLen(2))

			var answers [][]theory.Identifier
			for _, m := range models {
				answers = append(answers, m.Facts)
			}
			Expect(answers).To(ConsistOf(
				[]theory.Identifier{"d1"},
				[]theory.Identifier{"d2"},
			))
		})
	})

	When("a model bound is given", func() {
		It("stops after that many answers", func() {
			models, err := solve(`p dl 2 1
a a b 3
a c d 4
1 2 0
`, 1)
			Expect(err).To(BeNil())
			Expect(models).To(HaveLen(1))
		})
	})
})
