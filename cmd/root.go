// Package cmd implements the command-line interface for backdrop.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/backdrop-cli/backdrop/color"
	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/backdrop-cli/backdrop/util"
	"github.com/backdrop-cli/backdrop/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().BoolP("write-history", "H", true, "Record how each mount settled")
	lo.Must0(viper.BindPFlag(key.HistorySave, rootCmd.PersistentFlags().Lookup("write-history")))

	rootCmd.PersistentFlags().StringP("variants", "V", "", "Path to the variant table (JSON)")
	lo.Must0(viper.BindPFlag(key.MediaVariantsFile, rootCmd.PersistentFlags().Lookup("variants")))

	addPlayFlags(rootCmd)
	rootCmd.SetOut(os.Stdout)

	// Leftover IPC sockets from crashed players.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd is an alias for play.
var rootCmd = &cobra.Command{
	Use:   constant.Backdrop,
	Short: "Adaptive background video with a poster that never goes away",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Adaptive background video with a poster that never goes away"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(runPlay(context.Background(), cmd))
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
