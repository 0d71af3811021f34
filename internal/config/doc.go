// Package config loads the runtime settings of the coachsite server.
//
// Settings are resolved by Viper in this order, highest first:
//
//  1. command-line flags bound with Load
//  2. COACHSITE_* environment variables (dashes become underscores, so
//     submit-delay is COACHSITE_SUBMIT_DELAY)
//  3. the config file
//  4. built-in defaults
//
// # Configuration File Location
//
// An explicit --config path must exist. Without one, the platform default is
// read when present:
//   - Linux: $XDG_CONFIG_HOME/coachsite/config.yaml or $HOME/.config/coachsite/config.yaml
//   - macOS: $HOME/.config/coachsite/config.yaml
//   - Windows: %LOCALAPPDATA%\coachsite\config.yaml
//
// # Usage Example
//
//	settings, err := config.Load(configPath, cmd.Flags())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(settings.Addr())
package config
