// Package sync implements template-to-implementation synchronization: when a
// template project is saved, deleted, or renamed, every implementation
// referencing it is brought back in line.
//
// The hard part is the implementation-save path. The whole config document is
// overwritten with the template's, which would also destroy the fields the
// implementation's sync policy keeps local. So the orchestrator snapshots the
// protected fields first, merges, then restores: parameters are reconciled by
// name (template order and descriptions win, local definition objects
// survive), triggers are swapped back into the live collection under its
// lock, and the disabled flag, description, and matrix axes are reassigned
// directly. None of the corrective writes go through a save-triggering
// setter; the one visible persist at the end uses the persistence layer's
// silent entry point so the sync pipeline does not re-enter itself.
package sync
