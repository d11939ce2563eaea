package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tmplsync/internal/store"
	tmplsync "tmplsync/internal/sync"
)

var syncDebug bool

// newSyncCmd creates the one-shot sync command.
func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync <project>",
		Short: "Synchronize a project with its template relationships once",
		Long: `Runs a single synchronization pass for the named project.

For a template, every implementation is re-synced from the template's
document. For an implementation, the project is re-synced with its
template. The updated documents are written back to the projects
directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runSync,
	}

	cmd.Flags().StringVar(&configPath, "config-path", "", "configuration directory (default is $HOME/.config/tmplsync)")
	cmd.Flags().BoolVar(&syncDebug, "debug", false, "enable debug logging")
	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	_, registry, err := openWorkspace(syncDebug)
	if err != nil {
		return err
	}

	name := args[0]
	p := registry.FindByName(name)
	if p == nil {
		return &store.NotFoundError{Name: name}
	}

	orchestrator := tmplsync.NewOrchestrator(registry, registry, registry)

	synced := false
	if p.IsImplementation() {
		if err := orchestrator.OnImplementationSaved(p); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced [%s] with template [%s]\n", p.Name, p.Implementation.TemplateName)
		synced = true
	}
	if p.IsTemplate() {
		if err := orchestrator.OnTemplateSaved(p); err != nil {
			return err
		}
		impls := registry.ImplementationsOf(p.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %d implementation(s) of [%s]\n", len(impls), p.Name)
		synced = true
	}

	if !synced {
		return fmt.Errorf("project [%s] is neither a template nor an implementation", name)
	}
	return nil
}
