package cmd

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aweris/manifest"
)

var rootCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manifest tree CLI",
	Long:  "CLI for inspecting, editing and merging manifest trees in a local content store.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			logrus.SetLevel(logrus.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/manifest/config.yaml)")
	rootCmd.PersistentFlags().String("store-dir", "", "object store directory (default: ~/.local/share/manifest)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	viper.BindPFlag("store_dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MANIFEST")
	viper.AutomaticEnv()
	viper.SetDefault("store_dir", defaultStoreDir())
	viper.SetDefault("cache_size", 1024)
	viper.SetDefault("compression_level", 2)

	viper.ReadInConfig()
}

func openStore() (manifest.Store, error) {
	return manifest.NewLocalStore(
		viper.GetString("store_dir"),
		viper.GetInt("cache_size"),
		viper.GetInt("compression_level"),
	)
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "manifest")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "manifest")
	}
	return ".manifest"
}

func defaultStoreDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "manifest")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "manifest")
	}
	return ".manifest"
}
