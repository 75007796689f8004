package dag

import (
	"sort"
	"strings"
)

// CycleError reports an unsatisfiable dependency ordering, naming the
// columns on the cycle.
type CycleError struct {
	Columns []string
}

func (e *CycleError) Error() string {
	return "dependency cycle between columns: " + strings.Join(e.Columns, " -> ")
}

// Schedule returns a total computation order over all column recipes such
// that every dependency precedes its dependents. The sort is stable: among
// recipes with no relative constraint, declaration order wins, and the
// earliest-declared ready node is always selected next.
func (g *Graph) Schedule() ([]NodeID, error) {
	unmet := make([]int, len(g.nodes))
	for i, n := range g.nodes {
		unmet[i] = len(n.deps)
	}

	// ready holds the ordinals of computable nodes, kept sorted so the
	// earliest-declared one is popped first.
	var ready []int
	for i := range g.nodes {
		if unmet[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]
		order = append(order, g.nodes[i].id)

		for _, dep := range g.dependents[i] {
			unmet[dep]--
			if unmet[dep] == 0 {
				at := sort.SearchInts(ready, dep)
				ready = append(ready, 0)
				copy(ready[at+1:], ready[at:])
				ready[at] = dep
			}
		}
	}

	if len(order) < len(g.nodes) {
		return nil, &CycleError{Columns: g.findCycle(unmet)}
	}
	return order, nil
}

// findCycle walks the unresolved remainder of the graph with a DFS and
// returns the first cycle it closes, as display names in edge order.
func (g *Graph) findCycle(unmet []int) []string {
	visiting := make(map[int]bool)
	visited := make(map[int]bool)
	var stack []int

	var visit func(i int) []string
	visit = func(i int) []string {
		visiting[i] = true
		stack = append(stack, i)
		for _, dep := range g.nodes[i].deps {
			if visiting[dep] {
				// Close the loop: slice the stack from the first occurrence.
				for k, ord := range stack {
					if ord == dep {
						names := make([]string, 0, len(stack)-k)
						for _, on := range stack[k:] {
							names = append(names, g.nodes[on].name)
						}
						return names
					}
				}
			}
			if !visited[dep] {
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}
		stack = stack[:len(stack)-1]
		delete(visiting, i)
		visited[i] = true
		return nil
	}

	for i := range g.nodes {
		if unmet[i] > 0 && !visited[i] {
			if cycle := visit(i); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}
