package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/andeb/obbutil/pkg/obbfile"
	"github.com/andeb/obbutil/pkg/obbinfo"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Show the OBB info of a file",
		Long: `Show the OBB info footer stored at the end of a file.

Example:
  obbutil info main.42.com.example.game.obb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runInfo(a, args[0], cmd.OutOrStdout())
		},
	}
}

func runInfo(a *app, path string, out io.Writer) error {
	var info obbinfo.Info
	// Reads leave the footer size gauge untouched.
	err := a.track("info", func() (int, error) {
		var err error
		info, err = obbfile.Read(path)
		return 0, err
	})
	if err != nil {
		return describeError(path, err)
	}

	fmt.Fprintf(out, "OBB info for %s:\n", path)
	return info.Describe(out)
}
