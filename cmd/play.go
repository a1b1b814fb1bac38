package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/player"
	"github.com/backdrop-cli/backdrop/probe"
	"github.com/backdrop-cli/backdrop/shell"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/backdrop-cli/backdrop/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(playCmd)
	addPlayFlags(playCmd)
}

func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("simulate", false, "Use the simulated player instead of the configured one")
	cmd.Flags().Bool("no-tui", false, "Do not show the monitor, only log the outcome")
	cmd.Flags().StringSlice("reject", nil, "URIs the simulated player refuses to play")
	lo.Must0(cmd.Flags().MarkHidden("reject"))

	cmd.Flags().StringP("player", "P", "", "Media element to use ("+fmt.Sprint(player.Available)+")")
	lo.Must0(cmd.RegisterFlagCompletionFunc("player", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return player.Available, cobra.ShellCompDirectiveNoFileComp
	}))

	addProbeFlags(cmd)
}

// playCmd is the kiosk host.
var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Show the background on this display",
	Long: `Probe the display and network, resolve the best video variant and play it
once over the poster, freezing on the last frame.`,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(runPlay(context.Background(), cmd))
	},
}

// openPlayer creates the media element for the kiosk host.
var openPlayer = kioskPlayer

// runPlay presents the background until ctx ends, a signal arrives or the player exits.
// The shell is unmounted and the player closed before it returns, on every path.
func runPlay(ctx context.Context, cmd *cobra.Command) error {
	bindProbeFlags(cmd)
	if flag := cmd.Flags().Lookup("player"); flag != nil && flag.Changed {
		viper.Set(key.Player, flag.Value.String())
	}

	table, err := media.Configured()
	if err != nil {
		return err
	}

	p, err := openPlayer(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := p.Close(); err != nil {
			log.Warnf("close player: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sh := shell.New(shell.Options{
		Table:       table,
		Environment: probe.Config(),
		Element:     p,
		Playback:    playback.FromConfig(),
		Host:        "kiosk",
		History:     viper.GetBool(key.HistorySave),
	})

	if err := sh.Mount(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sh.Unmount(); err != nil {
			log.Warnf("unmount: %v", err)
		}
	}()

	settled := make(chan error, 1)
	go func() {
		settled <- sh.Run(ctx)
	}()

	if lo.Must(cmd.Flags().GetBool("no-tui")) || !term.IsTerminal(int(os.Stdout.Fd())) {
		if err := <-settled; err != nil && ctx.Err() == nil {
			return err
		}
		printOutcome(cmd, sh)

		select {
		case <-ctx.Done():
		case <-p.Wait():
		}
		return nil
	}

	return tui.Run(&tui.Options{Shell: sh, Done: p.Wait()})
}

func kioskPlayer(cmd *cobra.Command) (player.Player, error) {
	if !lo.Must(cmd.Flags().GetBool("simulate")) {
		return player.Configured()
	}

	p, err := player.New(player.SimulatedName)
	if err != nil {
		return nil, err
	}

	if sim, ok := p.(*player.Simulated); ok {
		sim.Reject = lo.Must(cmd.Flags().GetStringSlice("reject"))
	}

	return p, nil
}

func printOutcome(cmd *cobra.Command, sh *shell.Shell) {
	snapshot := sh.Snapshot(time.Now())

	switch snapshot.State {
	case playback.Frozen:
		cmd.Printf("%s %s frozen on its last frame after %d attempt(s)\n",
			icon.Get(icon.Freeze), style.Bold(snapshot.Current), snapshot.Attempt)
	case playback.Failed:
		cmd.Printf("%s no variant could be played, showing the poster %s\n",
			icon.Get(icon.Poster), style.Faint(snapshot.Poster))
	default:
		cmd.Printf("%s stopped while %s\n", icon.Get(icon.Warn), snapshot.State)
	}
}
