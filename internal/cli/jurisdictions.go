package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// jurisdictionsCmd represents the jurisdictions command
var jurisdictionsCmd = &cobra.Command{
	Use:   "jurisdictions",
	Short: "List registered jurisdiction profiles",
	Long: `List every jurisdiction profile the registry knows about,
including extra profiles loaded from a profile directory.

Example:
  votescan jurisdictions
  votescan jurisdictions --profiles ./profiles`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := buildConfig()
		if err != nil {
			return err
		}

		registry, err := buildRegistry(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("%-20s %-8s %-8s %-10s %-8s %s\n",
			"CITY", "SEATS", "QUORUM", "THRESHOLD", "ROSTER", "SIGNATURES")
		for _, p := range registry.Profiles() {
			fmt.Printf("%-20s %-8d %-8d %-10.2f %-8d %d\n",
				p.City, p.CouncilSize, p.Quorum, p.FallbackThreshold, len(p.Roster), len(p.Signatures))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(jurisdictionsCmd)
	jurisdictionsCmd.Flags().StringVar(&profileDir, "profiles", "", "directory of extra jurisdiction profile YAML files")
}
