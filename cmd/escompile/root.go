package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/risor-io/escompile"
	"github.com/risor-io/escompile/syntax"
)

// app holds the state shared by every command of one invocation.
type app struct {
	fs      afero.Fs
	stdin   io.Reader
	config  *viper.Viper
	cfgFile string
	logger  zerolog.Logger
}

func newApp(fs afero.Fs, stdin io.Reader) *app {
	return &app{
		fs:     fs,
		stdin:  stdin,
		config: viper.New(),
		logger: zerolog.Nop(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "escompile",
		Short:         "Compile ECMAScript source into stack bytecode",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.Bool("strict", false, "compile scripts as strict mode code")
	flags.Bool("verify", false, "check generated bytecode against the opcode stack contract")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.Int("max-depth", 0, "maximum syntax tree nesting depth (0 for the parser default)")
	flags.StringSlice("disallow", nil, "reject scripts using these features ("+strings.Join(syntax.Features(), ", ")+")")
	flags.Bool("strip-debugger", false, "remove debugger statements before compiling")
	if err := a.config.BindPFlags(flags); err != nil {
		panic(err)
	}

	// Not a config key, so registered after binding.
	flags.StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.escompile.yaml)")

	cmd.AddCommand(
		newDisCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// initConfig reads the config file and environment, then applies the
// global settings.
func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.config
	v.SetFs(a.fs)
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".escompile")
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("escompile")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if v.GetBool("no-color") {
		color.NoColor = true
	}
	level, err := zerolog.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return fmt.Errorf("invalid log level %q", v.GetString("log-level"))
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     zerolog.SyncWriter(cmd.ErrOrStderr()),
		NoColor: color.NoColor,
	}).Level(level).With().Timestamp().Logger()
	return nil
}

func (a *app) compileOptions() ([]escompile.Option, error) {
	opts := []escompile.Option{
		escompile.WithStrict(a.config.GetBool("strict")),
		escompile.WithVerify(a.config.GetBool("verify")),
		escompile.WithMaxDepth(a.config.GetInt("max-depth")),
		escompile.WithLogger(a.logger),
	}
	if a.config.GetBool("strip-debugger") {
		opts = append(opts, escompile.WithTransformer(syntax.StripDebugger))
	}
	config, err := syntax.ParseFeatures(a.config.GetStringSlice("disallow"))
	if err != nil {
		return nil, err
	}
	if !config.IsZero() {
		opts = append(opts, escompile.WithSyntax(config))
	}
	return opts, nil
}
