package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andeb/obbutil/pkg/journal"
	"github.com/andeb/obbutil/pkg/obbfile"
	"github.com/andeb/obbutil/pkg/obbinfo"
)

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <file>",
		Short: "Remove OBB info from a file",
		Long: `Truncate the OBB info footer from the end of a file, restoring the
original payload.

Example:
  obbutil remove main.42.com.example.game.obb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runRemove(a, args[0])
		},
	}
}

func runRemove(a *app, path string) error {
	var info obbinfo.Info
	err := a.track("remove", func() (int, error) {
		var err error
		info, err = obbfile.Strip(path)
		if err != nil {
			return 0, err
		}
		return info.Size(), nil
	})
	if err != nil {
		return describeError(path, err)
	}

	a.log.WithFields(logrus.Fields{
		"path":    path,
		"package": info.PackageName(),
		"size":    info.Size(),
	}).Info("OBB info removed")

	a.journalOp(journal.OpRemove, path, info)
	return nil
}
