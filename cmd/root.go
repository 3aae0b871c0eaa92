package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "shelf",
		Short:         "shelf: track the chapter you are on for every series you read",
		Long:          "shelf keeps a per-user list of series with the last chapter read. Save series, browse them page by page and update chapters from the terminal or from a line based chat channel.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().StringVar(&app.user, "user", "", "Act as this user (defaults to identity.user, then $USER)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInfoCmd(app),
		newSaveCmd(app),
		newListCmd(app),
		newUpdateCmd(app),
		newGrantCmd(app),
		newChannelCmd(app),
		newBrowseCmd(app),
		newSecretCmd(app),
	)

	return rootCmd
}
