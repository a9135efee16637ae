// Command careermap turns résumés, journals and notes into a career journey
// map, either locally or as an HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/careermap/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "careermap",
		Short:         "Career journey map extraction",
		Long:          "careermap extracts roles, projects, education, skills, goals and interests from documents and lays them out as a connected, dated map.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newAnalyzeCmd(), newProfileCmd())
	return root
}

func main() {
	// Load .env file if it exists
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
