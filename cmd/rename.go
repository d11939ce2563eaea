package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	tmplsync "tmplsync/internal/sync"
)

var renameDebug bool

// newRenameCmd creates the rename command.
func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a project, updating implementation references",
		Long: `Renames a project's document. When the renamed project is a template,
every implementation referencing the old name is repointed to the new
name and persisted.`,
		Args: cobra.ExactArgs(2),
		RunE: runRename,
	}

	cmd.Flags().StringVar(&configPath, "config-path", "", "configuration directory (default is $HOME/.config/tmplsync)")
	cmd.Flags().BoolVar(&renameDebug, "debug", false, "enable debug logging")
	return cmd
}

func runRename(cmd *cobra.Command, args []string) error {
	_, registry, err := openWorkspace(renameDebug)
	if err != nil {
		return err
	}

	oldName, newName := args[0], args[1]

	p, err := registry.Rename(oldName, newName)
	if err != nil {
		return err
	}

	if p.IsTemplate() {
		orchestrator := tmplsync.NewOrchestrator(registry, registry, registry)
		if err := orchestrator.OnTemplateRenamed(p, oldName, newName); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed [%s] to [%s]\n", oldName, newName)
	return nil
}
