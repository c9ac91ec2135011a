package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/FlameInTheDark/khedit/internal/config"
	"github.com/FlameInTheDark/khedit/internal/knownhosts"
)

var (
	version = "1.0.0"
	rootCmd *cobra.Command
	cfg     = config.Default()
)

func init() {
	rootCmd = newRootCmd()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if knownhosts.IsWarning(err) {
			log.Warn(err)
		} else {
			log.Error(err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "khedit",
		Short: "Edit the SSH known_hosts file",
		Long: `Editor for ~/.ssh/known_hosts. Without a subcommand it opens a terminal UI
where entries can be deleted, restored, stashed and have their host changed.`,

		Version: version,

		SilenceUsage:  true,
		SilenceErrors: true,

		PersistentPreRunE: setup,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(knownHostsPath(), version)
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/khedit/config.yaml)")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")

	cmd.AddCommand(
		uiCmd(),
		listCmd(),
		showCmd(),
		deleteCmd(),
		editCmd(),
		stashCmd(),
		backupCmd(),
	)

	return cmd
}

// setup loads the config file and applies the log level before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	loaded, used, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Level()
	if flagLevel, _ := cmd.Flags().GetString("log-level"); flagLevel != "" {
		level, err = log.ParseLevel(flagLevel)
		if err != nil {
			return err
		}
	}
	log.SetLevel(level)

	if used != "" {
		log.Debug("loaded config", "path", used)
	}
	return nil
}

func uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Launch the TUI interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUI(knownHostsPath(), version)
		},
	}
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all known_hosts entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			long, _ := cmd.Flags().GetBool("long")
			return listKnownHosts(cmd.OutOrStdout(), knownHostsPath(), long)
		},
	}

	cmd.Flags().BoolP("long", "l", false, "Show key fingerprints")

	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <n>",
		Short: "Show details of entry n (as numbered by list)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return showEntry(cmd.OutOrStdout(), knownHostsPath(), index)
		},
	}
}

func deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <n>",
		Short: "Delete entry n from known_hosts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			yes, _ := cmd.Flags().GetBool("yes")

			var confirm confirmFunc
			if !yes {
				confirm = promptConfirm(os.Stdin, cmd.OutOrStdout())
			}

			return deleteEntry(cmd.OutOrStdout(), knownHostsPath(), index, confirm, mutationFromFlags(cmd))
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Delete without confirmation")
	cmd.Flags().Bool("dry-run", false, "Show the resulting change without writing it")

	return cmd
}

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <n> <host>",
		Short: "Replace the host field of entry n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			hash, _ := cmd.Flags().GetBool("hash")

			return editEntry(cmd.OutOrStdout(), knownHostsPath(), index, args[1], hash, mutationFromFlags(cmd))
		},
	}

	cmd.Flags().Bool("hash", false, "Store the hashed form of the host")
	cmd.Flags().Bool("dry-run", false, "Show the resulting change without writing it")

	return cmd
}

// stashCmd moves entry n into stash_hosts next to the known_hosts file,
// avoiding duplicates in stash.
func stashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stash <n>",
		Short: "Move entry n into a stash_hosts file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}

			stashPath, _ := cmd.Flags().GetString("stash-file")
			if stashPath == "" {
				stashPath = cfg.StashFile
			}

			return stashEntry(cmd.OutOrStdout(), knownHostsPath(), stashPath, index, mutationFromFlags(cmd))
		},
	}

	cmd.Flags().StringP("stash-file", "s", "", "Path to stash file (default: stash_hosts next to known_hosts)")
	cmd.Flags().Bool("dry-run", false, "Show the resulting change without writing it")

	return cmd
}

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Create a timestamped backup of known_hosts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return backupKnownHosts(cmd.OutOrStdout(), knownHostsPath(), getTimestamp())
		},
	}
}

func mutationFromFlags(cmd *cobra.Command) mutation {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return mutation{dryRun: dryRun, backup: cfg.Backup}
}
