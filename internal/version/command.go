package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AttachCobraVersion wires both version surfaces into the root command:
// a `--version`/`-V` flag printing the short version and a `version`
// subcommand printing detailed build info.
func AttachCobraVersion(root *cobra.Command) {
	root.Version = Short()
	root.SetVersionTemplate("{{.Version}}\n")

	// Registering the flag first stops cobra from adding its own `-v` shorthand.
	root.Flags().BoolP("version", "V", false, "print the version number and exit")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information.",
		Long:  "Print detailed version information including build metadata, commit hash, and build timestamp. This information is injected during the build process from Git tags and repository state.",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), Full())
		},
	})
}
