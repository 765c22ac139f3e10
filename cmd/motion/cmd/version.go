package cmd

import (
	"fmt"

	"github.com/go-drift/motion/pkg/document"
)

func init() {
	RegisterCommand(&Command{
		Name:  "version",
		Short: "Show version information",
		Long:  "Print the CLI version and the newest document version it can run.",
		Usage: "motion version",
		Run: func([]string) error {
			fmt.Fprintf(stdout, "motion %s (built %s), documents up to %s\n", Version, BuildTime, document.CurrentVersion)
			return nil
		},
	})
}
