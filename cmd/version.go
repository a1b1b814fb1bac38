package cmd

import (
	"encoding/json"
	"runtime"
	"strings"

	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("json", "j", false, "Print build metadata as JSON")
}

// buildInfo describes the running binary.
type buildInfo struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`
	BuiltAt  string `json:"built_at"`
	BuiltBy  string `json:"built_by"`
	Platform string `json:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:  constant.Version,
		Revision: constant.Revision,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		info := currentBuild()

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(info))
			return
		}

		cmd.Printf("%s %s %s\n", constant.Backdrop, style.Bold(info.Version), style.Faint(info.Platform))
		cmd.Println(style.Faint("revision " + info.Revision + ", built " + info.BuiltAt + " by " + info.BuiltBy))
	},
}
