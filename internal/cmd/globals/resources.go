package globals

import "github.com/spf13/cobra"

// ActionFlags holds the follow-up actions a fetch command can take on the
// proverb it shows.
type ActionFlags struct {
	Copy     bool
	Favorite bool
	Export   bool
	Share    bool
	Dir      string
}

// Any reports whether an action was requested.
func (f *ActionFlags) Any() bool {
	return f.Copy || f.Favorite || f.Export || f.Share
}

// AddActionFlags adds --copy, --favorite, --export, --share and --dir to a command.
func AddActionFlags(cmd *cobra.Command) *ActionFlags {
	flags := &ActionFlags{}

	cmd.Flags().BoolVarP(&flags.Copy, "copy", "c", false,
		"Copy the proverb to the clipboard")
	cmd.Flags().BoolVarP(&flags.Favorite, "favorite", "f", false,
		"Add the proverb to favorites, or remove it if already there")
	cmd.Flags().BoolVarP(&flags.Export, "export", "e", false,
		"Save the proverb as a PNG image")
	cmd.Flags().BoolVar(&flags.Share, "share", false,
		"Save the proverb image and open it with the share handler")
	AddDirFlag(cmd, &flags.Dir)

	return flags
}

// AddDirFlag adds the image output directory flag.
func AddDirFlag(cmd *cobra.Command, dir *string) {
	cmd.Flags().StringVar(dir, "dir", "",
		"Directory for exported images (default: download_dir)")
}
