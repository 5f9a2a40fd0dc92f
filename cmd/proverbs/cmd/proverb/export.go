package proverb

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/alerts"
	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/globals"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/internal/cmd/output"
	"github.com/agentstation/proverbs/pkg/share"
)

// exportResult is the structured output of the export command.
type exportResult struct {
	ID     int    `json:"id" yaml:"id"`
	Path   string `json:"path" yaml:"path"`
	Shared bool   `json:"shared" yaml:"shared"`
}

// Share outcome messages. A successful share is confirmed by the client.
const (
	MsgShareUnavailable = "Sharing unavailable, image saved."
	MsgShareCancelled   = "Sharing cancelled, image saved."
	MsgShareFailed      = "Failed to share image"
)

// shareAlert describes a share that did not happen, or returns nil.
func shareAlert(res share.Result) *alerts.Alert {
	switch {
	case res.Shared:
		return nil
	case res.ShareCancelled:
		return alerts.New(alerts.LevelInfo, MsgShareCancelled)
	case res.ShareErr != nil:
		return alerts.New(alerts.LevelWarning, MsgShareFailed).WithError(res.ShareErr)
	default:
		return alerts.New(alerts.LevelWarning, MsgShareUnavailable)
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(app application.Application) *cobra.Command {
	var (
		dir      string
		shareArg bool
	)

	cmd := &cobra.Command{
		Use:     "export <id>",
		GroupID: "share",
		Short:   "Save a proverb as a PNG image",
		Long: `Export draws the proverb card and saves it as yoruba-proverb-<id>.png in
the download directory.

With --share the saved image is then handed to the share handler (the
system opener by default, see the "share" setting). A cancelled or failed
share leaves the saved image in place.`,
		Example: `  proverbs export 12
  proverbs export 12 --dir ~/Pictures --share`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := client(ctx, app)
			if err != nil {
				return err
			}

			p, err := lookup(ctx, c, args[0])
			if err != nil {
				return err
			}

			res, err := c.ExportTo(ctx, p, dir, shareArg)
			if err != nil {
				return notify.Reported(err)
			}
			if a := shareAlert(res); shareArg && a != nil {
				_ = app.Notifier().Alert(a.ForProverb(p.ID).WithPath(res.Path))
			}

			format := output.DetectFormat(app.OutputFormat())
			switch format {
			case output.FormatJSON, output.FormatYAML:
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), exportResult{ID: p.ID, Path: res.Path, Shared: res.Shared})
			default:
				_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Path)
				return err
			}
		},
	}

	globals.AddDirFlag(cmd, &dir)
	cmd.Flags().BoolVar(&shareArg, "share", false, "Open the saved image with the share handler")
	return cmd
}
