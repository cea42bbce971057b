package cmd

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/andeb/obbutil/pkg/journal"
	"github.com/andeb/obbutil/pkg/obbfile"
	"github.com/andeb/obbutil/pkg/obbinfo"
)

type addOptions struct {
	name    string
	version string
	overlay bool
	salt    string
}

func newAddCmd(a *app) *cobra.Command {
	opts := &addOptions{}

	addCmd := &cobra.Command{
		Use:   "add -n <package name> -v <package version> [-o] [-s <salt>] <file>",
		Short: "Add OBB info to a file",
		Long: `Append an OBB info footer to the end of a file. The file must not
already carry one.

Example:
  obbutil add -n com.example.game -v 42 main.42.com.example.game.obb
  obbutil add -n com.example.game -v 42 -o -s 00FF3256F9890092 patch.42.com.example.game.obb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := opts.info(cmd.Flags().Changed("salt"))
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true

			return runAdd(a, args[0], info)
		},
	}

	addCmd.Flags().StringVarP(&opts.name, "name", "n", "", "package name (required)")
	addCmd.Flags().StringVarP(&opts.version, "version", "v", "", "package version (required)")
	addCmd.Flags().BoolVarP(&opts.overlay, "overlay", "o", false, "set the OBB overlay flag")
	addCmd.Flags().StringVarP(&opts.salt, "salt", "s", "", "8 byte hex salt used for encryption (e.g. 00FF3256F9890092)")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("version")

	return addCmd
}

// info validates the parsed flags. Nothing reaches the codec until they are valid.
func (o *addOptions) info(hasSalt bool) (obbinfo.Info, error) {
	version, err := strconv.ParseInt(o.version, 10, 32)
	if err != nil {
		return obbinfo.Info{}, fmt.Errorf("invalid package version: %s", o.version)
	}

	var salt []byte
	if hasSalt {
		s, err := obbinfo.ParseSalt(o.salt)
		if err != nil {
			return obbinfo.Info{}, fmt.Errorf("invalid salt %q: %w", o.salt, err)
		}
		salt = s[:]
	}

	var flags obbinfo.Flags
	if o.overlay {
		flags |= obbinfo.FlagOverlay
	}

	return obbinfo.New(flags, salt, o.name, int32(version))
}

func runAdd(a *app, path string, info obbinfo.Info) error {
	err := a.track("add", func() (int, error) {
		if err := obbfile.Add(path, info); err != nil {
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
		"version": info.PackageVersion(),
		"size":    info.Size(),
	}).Debug("OBB info added")

	a.journalOp(journal.OpAdd, path, info)
	return nil
}
