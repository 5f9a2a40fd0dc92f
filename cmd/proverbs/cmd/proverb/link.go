package proverb

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/output"
	"github.com/agentstation/proverbs/pkg/proverb"
)

type linkResult struct {
	ID  int    `json:"id" yaml:"id"`
	URL string `json:"url" yaml:"url"`
}

// NewLinkCommand creates the link command.
func NewLinkCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "link <id>",
		GroupID: "share",
		Short:   "Print the web link of a proverb",
		Example: `  proverbs link 12`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := proverb.ParseID(args[0])
			if err != nil {
				return err
			}
			c, err := client(cmd.Context(), app)
			if err != nil {
				return err
			}

			url := c.Permalink(proverb.Proverb{ID: id})
			format := output.DetectFormat(app.OutputFormat())
			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), linkResult{ID: id, URL: url})
			default:
				_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
				return err
			}
		},
	}
}
