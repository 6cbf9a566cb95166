package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zeusync/evade/internal/config"
	"github.com/zeusync/evade/internal/injector"
)

// state is shared by the subcommands of one root command.
type state struct {
	cfgFile  string
	logLevel string
	app      *injector.App
}

// NewRootCmd builds the command tree. Every call returns an independent
// tree, so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	st := &state{}
	root := &cobra.Command{
		Use:           "evade",
		Short:         "Hazard-avoidance decision engine",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return st.load(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if st.app == nil {
				return nil
			}
			// stderr cannot always be synced
			_ = st.app.Log.Sync()
			return nil
		},
	}
	root.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")
	root.PersistentFlags().StringVarP(&st.cfgFile, "config", "c", "", "config file (default ./evade.yaml when present)")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "override log.level")

	root.AddCommand(
		newSimulateCmd(st),
		newVerifyCmd(st),
		newFieldCmd(st),
		newVersionCmd(),
	)
	return root
}

func (st *state) load(cmd *cobra.Command) error {
	v := viper.New()
	if st.logLevel != "" {
		v.Set("log.level", st.logLevel)
	}
	cfg, err := config.Load(v, st.cfgFile)
	if err != nil {
		return err
	}
	// stdout is reserved for command output
	cfg.Log.Output = cmd.ErrOrStderr()
	st.app, err = injector.InitializeApp(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// Execute runs the CLI with os.Args.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "error:", err)
		return err
	}
	return nil
}
