package cmd

import (
	"github.com/backdrop-cli/backdrop/key"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// probeFlag binds a command line flag to a probe.* key.
type probeFlag struct {
	name  string
	key   string
	usage string
}

var probeFlags = []probeFlag{
	{"width", key.ProbeViewportWidth, "Viewport width in CSS pixels"},
	{"dpr", key.ProbePixelDensity, "Device pixel ratio"},
	{"save-data", key.ProbeSaveData, "Ask to save data"},
	{"ect", key.ProbeEffectiveType, "Effective connection type (slow-2g, 2g, 3g, 4g)"},
	{"downlink", key.ProbeDownlink, "Downlink bandwidth in Mbps"},
}

// addProbeFlags registers the probe flags on cmd. They are bound to the
// configuration when cmd runs, so commands sharing a key do not clash.
func addProbeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64("width", 0, probeFlags[0].usage)
	flags.Float64("dpr", 0, probeFlags[1].usage)
	flags.Bool("save-data", false, probeFlags[2].usage)
	flags.String("ect", "", probeFlags[3].usage)
	lo.Must0(cmd.RegisterFlagCompletionFunc("ect", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"slow-2g", "2g", "3g", "4g"}, cobra.ShellCompDirectiveNoFileComp
	}))
	flags.Float64("downlink", 0, probeFlags[4].usage)
}

// bindProbeFlags overrides the probe configuration with the flags set on cmd.
func bindProbeFlags(cmd *cobra.Command) {
	for _, b := range probeFlags {
		if flag := cmd.Flags().Lookup(b.name); flag != nil {
			lo.Must0(viper.BindPFlag(b.key, flag))
		}
	}
}
