// Package cli defines the revisor command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"revisor/config"
	"revisor/internal/app"
	"revisor/internal/prompt"
	"revisor/internal/revise"
	"revisor/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type rootOptions struct {
	configFile string
	noSound    bool
	deps       app.Options
}

// Execute runs the revisor command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd(app.Options{}).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. deps overrides host dependencies.
func NewRootCmd(deps app.Options) *cobra.Command {
	opts := &rootOptions{deps: deps}

	root := &cobra.Command{
		Use:   "revisor",
		Short: "Revise the selected text with a language model",
		Long: `revisor reads the current selection (PRIMARY, then CLIPBOARD), sends it to a
language model together with the system prompt from ~/.revisor and puts the
revised text on the clipboard. Bind it to a hotkey.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadConfig(opts.configFile, cmd.Flags()); err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			if opts.noSound {
				config.AppConfig.Sound.Enabled = false
			}
			logging.InitLogger()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRevise(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default ~/.config/revisor/config.yaml)")
	flags.String("provider", "", "language model provider: openai or ollama")
	flags.String("model", "", "model name (default gpt-5 for openai)")
	flags.String("prompt-file", "", "system prompt file (default ~/.revisor)")
	flags.Bool("echo", false, "also print the revised text to stdout")
	root.Flags().BoolVar(&opts.noSound, "no-sound", false, "do not play the completion sound")

	root.AddCommand(configCmd(), promptCmd())
	return root
}

func runRevise(cmd *cobra.Command, opts *rootOptions) error {
	cfg := config.AppConfig
	log := revise.NewRunLog()
	log.Infof("Start: session=%s, DISPLAY=%q, provider=%s, model=%s",
		cfg.Clipboard.Session, os.Getenv("DISPLAY"), cfg.Provider, cfg.Model)

	deps := opts.deps
	deps.Log = log
	w, err := app.NewWire(cfg, deps)
	if err != nil {
		log.Errorf("ERROR: %v", err)
		return err
	}

	if _, err := w.Engine(cmd.OutOrStdout()).Run(cmd.Context()); err != nil {
		log.Errorf("ERROR: %v", err)
		return err
	}
	return nil
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(config.AppConfig.Redacted()); err != nil {
				return fmt.Errorf("could not render configuration: %w", err)
			}
			return enc.Close()
		},
	}
}

func promptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prompt",
		Short: "Print the system prompt that will be sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := prompt.Load(config.AppConfig.PromptFile, logrus.StandardLogger())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}
