package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hpcdesk/launchpad/pkg/launcher"
)

var cfgFile string

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		configDir := filepath.Join(home, ".config", "launchpad")
		viper.AddConfigPath(configDir)
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")

		viper.SetDefault("handler_registry", filepath.Join(configDir, "handlers.yaml"))
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("LAUNCHPAD")

	home, _ := os.UserHomeDir()
	viper.SetDefault("data_dir", filepath.Join(home, ".local", "share", "launchpad"))
	viper.SetDefault("plugin_dir", filepath.Join(home, ".local", "share", "launchpad", "handlers"))
	viper.SetDefault("history_dir", "")
	viper.SetDefault("index_page", "index.html")
	viper.SetDefault("log_level", "warn")

	// Missing config file just means defaults.
	_ = viper.ReadInConfig()
}

// NewLogger builds the process logger from configuration.
func NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// NewService builds the launcher service rooted at root from the
// current configuration.
func NewService(root string, logger *logrus.Logger) (*launcher.Service, error) {
	svc, err := launcher.New(launcher.Config{
		Root:         root,
		DataDir:      viper.GetString("data_dir"),
		HistoryDir:   viper.GetString("history_dir"),
		PluginDir:    viper.GetString("plugin_dir"),
		RegistryPath: viper.GetString("handler_registry"),
		IndexPage:    viper.GetString("index_page"),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize launcher: %w", err)
	}
	return svc, nil
}

// ResolveBase interprets the positional argument: empty means
// <cwd>/Objects; a directory is the base itself; a descriptor file
// means "use its directory as base and dispatch it on startup". The
// returned descriptor path is empty unless a file was given.
func ResolveBase(arg string) (base, descriptorPath string, err error) {
	if arg == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("determine working directory: %w", err)
		}
		return filepath.Join(cwd, "Objects"), "", nil
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", arg, err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return "", "", fmt.Errorf("stat %s: %w", arg, err)
	}
	if fi.IsDir() {
		return abs, "", nil
	}
	return filepath.Dir(abs), abs, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/launchpad/config.yaml)")
}
