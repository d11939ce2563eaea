package sync

import (
	"tmplsync/internal/project"
	"tmplsync/pkg/logging"
)

// ParameterChanges records which parameter names were added from the template
// and which were dropped because the template no longer declares them.
type ParameterChanges struct {
	Added   []string
	Removed []string
}

// ReconcileParameters merges a template's declared parameters with an
// implementation's pre-sync parameter definitions, by name.
//
// For each template parameter, in template order:
//   - a name match keeps the implementation's own definition object, with its
//     description overwritten by the template's (template descriptions always
//     win), and removes it from the working copy of the old list;
//   - no match means the parameter is new: the template's definition is
//     adopted unchanged and its addition recorded.
//
// Old definitions left unmatched are parameters the template no longer
// declares; they are dropped and their removal recorded.
//
// The result follows template order exactly. An empty result yields a nil
// block: no parameter block at all, which is observably different from an
// empty one. Name comparison is exact-string and case-sensitive.
func ReconcileParameters(oldParams, newParams []*project.ParameterDefinition) (*project.ParameterBlock, ParameterChanges) {
	var changes ParameterChanges

	remaining := make([]*project.ParameterDefinition, len(oldParams))
	copy(remaining, oldParams)

	result := make([]*project.ParameterDefinition, 0, len(newParams))
	for _, newParam := range newParams {
		found := false
		for i, oldParam := range remaining {
			if oldParam.Name == newParam.Name {
				found = true
				oldParam.Description = newParam.Description
				result = append(result, oldParam)
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
		if !found {
			result = append(result, newParam)
			changes.Added = append(changes.Added, newParam.Name)
			logging.Info("Sync", "\t+++ new parameter [%s]", newParam.Name)
		}
	}

	for _, unused := range remaining {
		changes.Removed = append(changes.Removed, unused.Name)
		logging.Info("Sync", "\t--- old parameter [%s]", unused.Name)
	}

	if len(result) == 0 {
		return nil, changes
	}
	return project.NewParameterBlock(result), changes
}
