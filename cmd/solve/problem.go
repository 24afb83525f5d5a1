package solve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/constraint-framework/difflogic/pkg/theory"
)

// Problem is a parsed difference logic problem: a list of theory
// atoms, each standing for a constraint u - v <= k, and CNF clauses
// over the atoms.
type Problem struct {
	atoms   []theory.Atom
	clauses [][]int
}

func (p *Problem) Atoms() []theory.Atom {
	return p.atoms
}

func (p *Problem) Clauses() [][]int {
	return p.clauses
}

// NewProblem parses a problem from its text form:
//
//	c this is a comment
//	c header: p dl <number of atoms> <number of clauses>
//	p dl 2 1
//	c one atom line per constraint; atom i asserts u - v <= k
//	a x y 5
//	a y x -6
//	c clauses over +/- atom ordinals end in zero
//	1 2 0
func NewProblem(problemReader io.Reader) (*Problem, error) {
	reader := bufio.NewReader(problemReader)

	numAtoms := 0
	numClauses := 0
	var atoms []theory.Atom
	var clauses [][]int

	commentLine := regexp.MustCompile(`^c\s*.*`)
	headerLine := regexp.MustCompile(`^p dl\s+\d+\s+\d+\s*$`)
	atomLine := regexp.MustCompile(`^a\s+\S+\s+\S+\s+-?\d+\s*$`)
	clauseLine := regexp.MustCompile(`^(-?\d+\s+)+0$`)
	cleanInput := regexp.MustCompile(`\s\s+`)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				break
			}
			if !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("error reading problem data: %w", err)
			}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// ignore comments
		if commentLine.MatchString(line) {
			continue
		}

		line = cleanInput.ReplaceAllString(line, " ")

		// parse header
		if headerLine.MatchString(line) {
			if atoms != nil {
				return nil, fmt.Errorf("invalid statement (%s): duplicate header", line)
			}
			problem := strings.Split(line, " ")
			numAtoms, _ = strconv.Atoi(problem[2])
			numClauses, _ = strconv.Atoi(problem[3])
			atoms = make([]theory.Atom, 0, numAtoms)
			clauses = make([][]int, 0, numClauses)
			continue
		}

		// collect atoms
		if atomLine.MatchString(line) {
			if atoms == nil {
				return nil, fmt.Errorf("invalid atom (%s): missing header 'p dl <atoms> <clauses>'", line)
			}
			fields := strings.Split(line, " ")
			k, err := strconv.ParseInt(fields[3], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid atom (%s): bad constant: %w", line, err)
			}
			atoms = append(atoms, theory.Atom{
				ID:   theory.Identifier(fmt.Sprintf("d%d", len(atoms)+1)),
				Term: theory.DiffTerm,
				U:    fields[1],
				V:    fields[2],
				K:    k,
			})
			continue
		}

		// collect clauses
		if clauseLine.MatchString(line) {
			if atoms == nil {
				return nil, fmt.Errorf("invalid clause (%s): missing header 'p dl <atoms> <clauses>'", line)
			}
			fields := strings.Split(line, " ")
			fields = fields[:len(fields)-1]
			clause := make([]int, 0, len(fields))
			for _, field := range fields {
				l, err := strconv.Atoi(field)
				if err != nil {
					return nil, fmt.Errorf("invalid clause (%s): %s is not a number", line, field)
				}
				if l == 0 {
					return nil, fmt.Errorf("invalid clause (%s): 0 is not a valid atom", line)
				}
				if l > numAtoms || -l > numAtoms {
					return nil, fmt.Errorf("invalid clause (%s): %d is not a valid atom", line, l)
				}
				clause = append(clause, l)
			}
			clauses = append(clauses, clause)
			continue
		}

		// error out if the instruction is invalid
		return nil, fmt.Errorf("invalid problem statement: %s", line)
	}

	if atoms == nil {
		return nil, fmt.Errorf("invalid format: missing header 'p dl <atoms> <clauses>'")
	}

	if len(atoms) != numAtoms {
		return nil, fmt.Errorf("invalid format: number of atoms in header differs from the number of atom lines")
	}

	if len(clauses) != numClauses {
		return nil, fmt.Errorf("invalid format: number of clauses in header differs from the number of clause lines")
	}

	return &Problem{
		atoms:   atoms,
		clauses: clauses,
	}, nil
}
