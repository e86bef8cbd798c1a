package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	rmfcodegen "github.com/markkovari/rmf-codegen"
	"github.com/markkovari/rmf-codegen/internal/cliutil"
)

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:   rmfcodegen.Version(),
				Commit:    rmfcodegen.Commit(),
				GoVersion: rmfcodegen.GoVersion(),
			}
			w := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(w).Encode(info)
			}
			cliutil.Writef(w, "rmf-codegen v%s\n", info.Version)
			cliutil.Writef(w, "commit: %s\n", info.Commit)
			cliutil.Writef(w, "go: %s\n", info.GoVersion)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
