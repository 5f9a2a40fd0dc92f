package favorites

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/output"
)

// NewListCommand creates the favorites list subcommand.
func NewListCommand(app application.Application) *cobra.Command {
	var (
		search string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List favorite proverbs",
		Long: `List shows the favorites in the order they were added.

--search matches the proverb, translation and wisdom without regard to
case or tone marks, so "omo" finds "ọmọ".`,
		Example: `  proverbs favorites list
  proverbs favorites list --search omo
  proverbs favorites list -o wide`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			list := c.Favorites().Search(ctx, search)
			if limit > 0 && len(list) > limit {
				list = list[:limit]
			}

			app.Logger().Debug().Int("count", len(list)).Str("search", search).Msg("Listing favorites")
			return output.WriteProverbs(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), list)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only show favorites matching this text")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Limit number of results")
	return cmd
}
