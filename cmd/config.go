package cmd

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/backdrop-cli/backdrop/color"
	"github.com/backdrop-cli/backdrop/config"
	"github.com/backdrop-cli/backdrop/icon"
	"github.com/backdrop-cli/backdrop/style"
	"github.com/backdrop-cli/backdrop/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	configCmd.Flags().BoolP("changed", "c", false, "Only show fields that differ from their default")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every field")
}

// configCmd shows the tuning fields, their environment variables and active values.
var configCmd = &cobra.Command{
	Use:               "config [key...]",
	Short:             "Show configuration fields",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		fields, err := configFields(args)
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("changed")) {
			fields = lo.Filter(fields, func(f config.Field, _ int) bool { return f.Changed() })
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(lo.ToSlicePtr(fields)))
			return
		}

		for i, field := range fields {
			if i > 0 {
				cmd.Println()
			}
			cmd.Println(field.Pretty())
		}
	},
}

// configFields returns the named fields, or every field, sorted by key.
func configFields(keys []string) ([]config.Field, error) {
	if len(keys) == 0 {
		keys = lo.Keys(config.Default)
	}

	fields := make([]config.Field, 0, len(keys))
	for _, k := range lo.Uniq(keys) {
		field, err := config.Lookup(k)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].Key < fields[j].Key })
	return fields, nil
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value...>",
	Short:             "Set a configuration field and save it",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		field, err := config.Lookup(args[0])
		handleErr(err)

		value, err := field.Parse(args[1:])
		handleErr(err)

		viper.Set(field.Key, value)
		handleErr(config.Save())

		cmd.Printf("%s %s = %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(field.Key),
			style.Fg(color.Yellow)(fmt.Sprint(value)),
		)
	},
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Restore configuration fields to their defaults and save them",
	ValidArgsFunction: completionConfigKeys,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		if all == (len(args) > 0) {
			handleErr(fmt.Errorf("name the keys to reset or pass --all"))
		}

		fields, err := configFields(args)
		handleErr(err)

		for _, field := range fields {
			viper.Set(field.Key, field.Value)
		}
		handleErr(config.Save())

		cmd.Printf("%s reset %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(len(fields), "field", "fields"),
		)
	},
}
