package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alde/comically/pkg/reader"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List the supported device presets",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, p := range reader.ListProfiles() {
			marker := " "
			if p.Key == reader.DefaultKey {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-16s %-16s %4d x %d\n", marker, p.Key, p.Name, p.Capabilities.ScreenWidth, p.Capabilities.ScreenHeight)
		}
		fmt.Fprintf(out, "\n* default. Use --device custom --width W --height H for other screens.\n")
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
