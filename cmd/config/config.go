package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	udonconfig "github.com/mattsolo1/grove-udon/pkg/config"
	"github.com/mattsolo1/grove-udon/pkg/service"
	"github.com/mattsolo1/grove-udon/pkg/workspace"
)

var (
	cfgFile string
	Verbose bool
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "udon")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("UDON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, k := range udonconfig.Keys {
		// AutomaticEnv only answers IsSet for bound keys.
		_ = viper.BindEnv(string(k))
	}

	viper.SetDefault("data_dir", workspace.DefaultDataDir())
	viper.SetDefault("max_buffer_mb", 128)

	if err := viper.ReadInConfig(); err == nil {
		// Do not print this in normal operation, it's noisy.
		// fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// NewLogger returns the logger shared by all commands.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel) // Keep it quiet unless there are issues.
	if Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// InitService builds the paste service from the grove.yml extension, the
// user config file and the environment.
func InitService(grove udonconfig.UserConfig, logger *logrus.Logger) (*service.Service, error) {
	loader := &udonconfig.Loader{
		Grove:  grove,
		User:   udonconfig.FromViper(viper.GetViper()),
		Logger: logger,
	}

	cfg := &service.Config{
		DataDir:     viper.GetString("data_dir"),
		HelperDir:   viper.GetString("helper_dir"),
		MaxBufferMB: viper.GetInt("max_buffer_mb"),
	}
	return service.New(cfg, loader, logger)
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "user-config", "", "config file (default is $HOME/.config/udon/config.yaml)")
	// The standard command may already define --verbose.
	if cmd.PersistentFlags().Lookup("verbose") == nil {
		cmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information to stderr")
	}
}

// ReadGlobalFlags picks up flag values that are not bound to variables.
func ReadGlobalFlags(cmd *cobra.Command) {
	if v, err := cmd.Flags().GetBool("verbose"); err == nil {
		Verbose = v
	}
}
