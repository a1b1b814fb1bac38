package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/log"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/open"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/backdrop-cli/backdrop/web"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "Address to listen on")
	lo.Must0(viper.BindPFlag(key.ServerAddress, serveCmd.Flags().Lookup("address")))

	serveCmd.Flags().StringP("assets", "A", "", "Directory served under /")
	lo.Must0(viper.BindPFlag(key.ServerAssets, serveCmd.Flags().Lookup("assets")))

	serveCmd.Flags().BoolP("open", "o", false, "Open the page in the default browser")
}

// serveCmd is the page host.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the background page over HTTP",
	Long: `Serve the background page. Each visitor is probed from the Client Hints
their browser sends and gets the resolved variants as <source> elements, best first.`,
	Run: func(cmd *cobra.Command, args []string) {
		table, err := media.Configured()
		handleErr(err)

		server, err := web.New(web.Options{
			Table:    table,
			Playback: playback.FromConfig(),
			Assets:   viper.GetString(key.ServerAssets),

			ResolveLimit: viper.GetInt(key.ServerResolveLimit),
		})
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		address := viper.GetString(key.ServerAddress)
		url := pageURL(address)
		fmt.Printf("%s serving %s\n", icon.Get(icon.Success), style.Bold(url))

		if lo.Must(cmd.Flags().GetBool("open")) {
			if err := open.Start(url); err != nil {
				log.Warnf("open browser: %v", err)
			}
		}

		handleErr(server.ListenAndServe(ctx, address))
	},
}

// pageURL turns a listen address into a URL a local browser can open.
func pageURL(address string) string {
	if strings.HasPrefix(address, ":") {
		return "http://localhost" + address
	}
	return "http://" + address
}
