package command

import (
	"github.com/spf13/cobra"
)

func NewExportCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [subcommand]",
		Short: "Export compiled documents to other schema formats",
		Long: Highlight("itl export [subcommand]") + "\n\n" +
			"Export a compiled type definition document to another schema format.\n\n" +
			"The document is fully validated before export; an invalid document\n" +
			"is rejected with every detected problem listed.\n",
	}

	// Add subcommands
	cmd.AddCommand(
		NewExportOpenAPICommand(cli),
	)

	return cmd
}
