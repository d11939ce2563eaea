package project

import (
	"fmt"
	"strings"
)

// Axis is one dimension of a matrix project.
type Axis struct {
	Name   string
	Values []string
}

// AxisList is the ordered axis declaration of a matrix project.
type AxisList []Axis

// Clone returns a deep copy of the axis list.
func (l AxisList) Clone() AxisList {
	if l == nil {
		return nil
	}
	out := make(AxisList, len(l))
	for i, axis := range l {
		values := make([]string, len(axis.Values))
		copy(values, axis.Values)
		out[i] = Axis{Name: axis.Name, Values: values}
	}
	return out
}

// Combinations expands the axis list into every value combination, in
// axis-major order. Each combination is rendered as "name=value" pairs joined
// with commas, e.g. "os=linux,arch=amd64". An empty list yields no
// combinations.
func (l AxisList) Combinations() []string {
	if len(l) == 0 {
		return nil
	}

	combos := []string{""}
	for _, axis := range l {
		next := make([]string, 0, len(combos)*len(axis.Values))
		for _, prefix := range combos {
			for _, value := range axis.Values {
				pair := fmt.Sprintf("%s=%s", axis.Name, value)
				if prefix == "" {
					next = append(next, pair)
				} else {
					next = append(next, prefix+","+pair)
				}
			}
		}
		combos = next
	}
	return combos
}

// RebuildConfigurations regenerates the derived per-combination runtime units
// of a matrix project from its current axis list. A no-op for non-matrix
// projects. Must be called after any direct restoration of the axis list,
// since a document overwrite does not rebuild runtime-only state.
func (p *Project) RebuildConfigurations() {
	if p.Kind != KindMatrix {
		return
	}
	p.Configurations = p.Axes.Combinations()
}

// String renders the axis list for logging.
func (l AxisList) String() string {
	parts := make([]string, 0, len(l))
	for _, axis := range l {
		parts = append(parts, fmt.Sprintf("%s[%s]", axis.Name, strings.Join(axis.Values, ",")))
	}
	return strings.Join(parts, " ")
}
