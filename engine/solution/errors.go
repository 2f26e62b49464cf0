package solution

import (
	"fmt"

	"github.com/nathoo/questforge/types"
)

// UnsolvableConfigurationError reports that no placement of the required
// items fits the level sequence under the capacity budget.
type UnsolvableConfigurationError struct {
	Boss     types.Element
	Element  types.Element
	Levels   int
	Capacity int
	Nodes    int
	Exceeded bool // search stopped at the node limit
}

func (e *UnsolvableConfigurationError) Error() string {
	reason := "no feasible placement"
	if e.Exceeded {
		reason = "search limit reached"
	}
	return fmt.Sprintf("unsolvable configuration: %s (boss %s, solution %s, %d levels, capacity %d, %d nodes)",
		reason, e.Boss, e.Element, e.Levels, e.Capacity, e.Nodes)
}
