package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the in-progress matrix run",
	Long: `Pausing happens interactively: press "p" inside a running
"pceh run" or "pceh resume" session to stop after the in-flight combo
finishes, persisting its batch state for a later "pceh resume".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(`No run is owned by this process. Press "p" inside an active "pceh run" session to pause it, then "pceh resume" to continue.`)
		return nil
	},
}
