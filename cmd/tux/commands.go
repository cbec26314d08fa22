package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Alielsalek1/cf-ai-linuxSystemHelper/internal/config"
)

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tux configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE\tENV")
		for _, info := range config.ShowAll(cfg) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", info.Key, info.Value, info.EnvVar)
		}
		return w.Flush()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration key",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]
		if err := config.SetKey(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "valid keys: %v\n", config.ValidKeys())
			return err
		}
		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the Linux system profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		conversation, _ := cmd.Flags().GetString("conversation")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/conversations/"+conversation+"/profile")
		if err != nil {
			return err
		}

		var p any
		if err := decodeJSON(resp, &p); err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

var profileResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset the profile to its defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		conversation, _ := cmd.Flags().GetString("conversation")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.delete(cmd.Context(), "/v1/conversations/"+conversation+"/profile")
		if err != nil {
			return err
		}

		var result map[string]string
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		printSuccess("Profile reset")
		return nil
	},
}

func init() {
	profileCmd.PersistentFlags().String("conversation", "default", "conversation ID")
	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileResetCmd)
}
