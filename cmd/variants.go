package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/backdrop-cli/backdrop/color"
	"github.com/backdrop-cli/backdrop/constant"
	"github.com/backdrop-cli/backdrop/filesystem"
	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/key"
	"github.com/backdrop-cli/backdrop/media"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/backdrop-cli/backdrop/where"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(variantsCmd)
}

// variantsCmd groups the variant table commands.
var variantsCmd = &cobra.Command{
	Use:     "variants",
	Short:   "Inspect and scaffold the variant table",
	Aliases: []string{"table"},
}

func init() {
	variantsCmd.AddCommand(variantsListCmd)
	variantsListCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	variantsListCmd.SetOut(os.Stdout)
}

var variantsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the variant table in use",
	Run: func(cmd *cobra.Command, args []string) {
		table, err := media.Configured()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(table))
			return
		}

		cmd.Printf("%s %s\n", icon.Get(icon.Poster), table.Poster)
		for _, v := range table.Variants {
			var gates []string
			if v.MinViewportWidthPx > 0 {
				gates = append(gates, fmt.Sprintf(">= %gpx", v.MinViewportWidthPx))
			}
			if v.NetworkGated() {
				gates = append(gates, "strong network")
			}

			cmd.Printf("%s %-10s %s %s\n",
				icon.Get(icon.Video),
				style.Fg(color.Purple)(v.Tier.String()),
				v.URI,
				style.Faint(fmt.Sprint(gates)),
			)
		}

		if err := table.Validate(); err != nil {
			cmd.Printf("\n%s %s\n", icon.Get(icon.Warn), style.Fg(color.Yellow)(err.Error()))
		}
	},
}

func init() {
	variantsCmd.AddCommand(variantsSchemaCmd)
}

var variantsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of the variants file",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		handleErr(json.NewEncoder(os.Stdout).Encode(reflector.Reflect(&media.Table{})))
	},
}

func init() {
	variantsCmd.AddCommand(variantsInitCmd)
	variantsInitCmd.Flags().StringP("output", "o", "", "Where to write the table (defaults to the config directory)")
	variantsInitCmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
}

var variantsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively write a variants file",
	Run: func(cmd *cobra.Command, args []string) {
		path := lo.Must(cmd.Flags().GetString("output"))
		if path == "" {
			path = viper.GetString(key.MediaVariantsFile)
		}
		if path == "" {
			path = where.Variants()
		}

		exists, err := filesystem.API().Exists(path)
		handleErr(err)
		if exists && !lo.Must(cmd.Flags().GetBool("force")) {
			handleErr(fmt.Errorf("%s already exists, use --force to overwrite", path))
		}

		table := media.Table{}
		handleErr(survey.AskOne(&survey.Input{
			Message: "Poster image URI:",
			Default: constant.DefaultPoster,
		}, &table.Poster, survey.WithValidator(survey.Required)))

		for {
			variant, err := askVariant()
			handleErr(err)
			table.Variants = append(table.Variants, variant)

			var more bool
			handleErr(survey.AskOne(&survey.Confirm{Message: "Add another variant?", Default: len(table.Variants) < 2}, &more))
			if !more {
				break
			}
		}

		if err := table.Validate(); err != nil {
			fmt.Printf("%s %s\n", icon.Get(icon.Warn), style.Fg(color.Yellow)(err.Error()))
		}

		handleErr(media.Save(path, table))
		fmt.Printf("%s wrote variants to %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

func askVariant() (media.Variant, error) {
	var variant media.Variant

	questions := []*survey.Question{
		{
			Name:     "uri",
			Prompt:   &survey.Input{Message: "Video URI:"},
			Validate: survey.Required,
		},
		{
			Name: "tier",
			Prompt: &survey.Select{
				Message: "Quality tier:",
				Options: lo.Map(media.Tiers(), func(t media.Tier, _ int) string { return t.String() }),
			},
		},
		{
			Name:   "width",
			Prompt: &survey.Input{Message: "Minimum effective viewport width (px, 0 for none):", Default: "0"},
			Validate: func(ans interface{}) error {
				v, err := strconv.ParseFloat(fmt.Sprint(ans), 64)
				if err != nil || v < 0 {
					return fmt.Errorf("expected a non-negative number")
				}
				return nil
			},
		},
	}

	answers := struct {
		URI   string `survey:"uri"`
		Tier  string `survey:"tier"`
		Width string `survey:"width"`
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return variant, err
	}

	tier, err := media.ParseTier(answers.Tier)
	if err != nil {
		return variant, err
	}

	variant.URI = answers.URI
	variant.Tier = tier
	variant.MinViewportWidthPx = lo.Must(strconv.ParseFloat(answers.Width, 64))

	if variant.Tier != media.UltraHigh {
		err = survey.AskOne(&survey.Confirm{Message: "Only offer on a strong network?"}, &variant.RequiresStrongNetwork)
	}

	return variant, err
}
