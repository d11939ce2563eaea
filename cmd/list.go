package cmd

import (
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"tmplsync/internal/project"
	pkgstrings "tmplsync/pkg/strings"
)

var listDebug bool

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all projects with their template relationships",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}

	cmd.Flags().StringVar(&configPath, "config-path", "", "configuration directory (default is $HOME/.config/tmplsync)")
	cmd.Flags().BoolVar(&listDebug, "debug", false, "enable debug logging")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	_, registry, err := openWorkspace(listDebug)
	if err != nil {
		return err
	}

	projects := registry.All()
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Name < projects[j].Name
	})

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"NAME", "KIND", "ROLE", "TEMPLATE", "SYNC", "DISABLED", "DESCRIPTION"})

	for _, p := range projects {
		t.AppendRow(table.Row{
			p.Name,
			string(p.Kind),
			roleOf(p),
			templateOf(p),
			policyOf(p),
			boolMark(p.Disabled),
			pkgstrings.TruncateDescription(p.Description, pkgstrings.DefaultDescriptionMaxLen),
		})
	}

	t.Render()
	return nil
}

func roleOf(p *project.Project) string {
	switch {
	case p.IsTemplate() && p.IsImplementation():
		return "template+implementation"
	case p.IsTemplate():
		return "template"
	case p.IsImplementation():
		return "implementation"
	default:
		return "-"
	}
}

func templateOf(p *project.Project) string {
	if p.Implementation == nil {
		return "-"
	}
	return p.Implementation.TemplateName
}

// policyOf renders the sync policy as a compact flag string: a letter per
// synced concern (Triggers, Disabled, dEscription, Axes), "-" when local.
func policyOf(p *project.Project) string {
	if p.Implementation == nil {
		return "-"
	}
	policy := p.Implementation.SyncPolicy

	flags := make([]byte, 4)
	set := func(i int, on bool, c byte) {
		if on {
			flags[i] = c
		} else {
			flags[i] = '-'
		}
	}
	set(0, policy.SyncBuildTriggers, 'T')
	set(1, policy.SyncDisabled, 'D')
	set(2, policy.SyncDescription, 'E')
	set(3, policy.SyncMatrixAxes, 'A')
	return string(flags)
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
