package cli

import (
	"github.com/spf13/cobra"

	"ytce/internal/config"
	"ytce/internal/progress"
)

var initOutputDir string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a project: ytce.yaml, channels.txt and the output directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, err := config.InitProject(initOutputDir)
		if err != nil {
			return err
		}
		for _, s := range steps {
			progress.Success("%s", s)
		}
		progress.Success("Project initialized")
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initOutputDir, "output-dir", "", "output directory (default data)")
	rootCmd.AddCommand(initCmd)
}
