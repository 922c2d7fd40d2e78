package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/namegate/namegate/internal/version"
)

func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(stdout, "namegate "+version.Version)
		},
	}
}
