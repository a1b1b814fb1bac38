package cmd

import (
	"encoding/json"
	"os"

	"github.com/backdrop-cli/backdrop/history"
	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/playback"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/backdrop-cli/backdrop/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	historyCmd.Flags().IntP("limit", "n", 0, "Show only the most recent records")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd lists how past mounts settled.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show how past mounts settled",
	Run: func(cmd *cobra.Command, args []string) {
		records, err := history.Get()
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(records) > limit {
			records = records[len(records)-limit:]
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println(style.Faint("No history yet"))
			return
		}

		for _, record := range records {
			mark := icon.Get(icon.Freeze)
			if record.Outcome == playback.Failed {
				mark = icon.Get(icon.Poster)
			}

			cmd.Printf("%s %s\n", mark, record)
		}

		cmd.Printf("\n%s\n", style.Faint(util.Quantify(len(records), "record", "records")))
	},
}
