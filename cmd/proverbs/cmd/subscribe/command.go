// Package subscribe implements the weekly email subscription command.
package subscribe

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/proverbs/internal/cmd/application"
	"github.com/agentstation/proverbs/internal/cmd/notify"
	"github.com/agentstation/proverbs/pkg/errors"
)

// NewCommand creates the subscribe command.
func NewCommand(app application.Application) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:     "subscribe",
		GroupID: "core",
		Short:   "Subscribe to weekly Yoruba proverbs by email",
		Long: `Subscribe signs an email address up for a weekly Yoruba proverb.

Both --name and --email are required. Invalid input is reported per field
and nothing is sent.`,
		Example: `  proverbs subscribe --name "Adébáyọ̀" --email ade@example.com`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := app.Client(ctx)
			if err != nil {
				return errors.WrapResource("create", "proverbs client", "", err)
			}

			err = c.Subscribe(ctx, name, email)
			var fe errors.FieldErrors
			if errors.As(err, &fe) {
				_ = app.Notifier().FieldErrors(fe)
			}
			return notify.Reported(err)
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Your name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address to receive proverbs")
	return cmd
}
