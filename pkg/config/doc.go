// Package config provides configuration for the nested columnar engine and
// the nestctl command.
//
// # Key Features
//
// - Config: one structure with Engine, Logging and Metrics sections
// - Environment variable substitution with ${VAR_NAME} syntax in YAML files
// - NESTCTL_* environment and flag overrides through spf13/viper
// - Defaults and validation
//
// # Usage
//
//	cfg, err := config.Load("nestctl.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// A file only needs the keys it changes; everything else keeps its default:
//
//	engine:
//	  offset_width: "64"
//	  workers: ${NESTCTL_WORKERS}
//	logging:
//	  level: debug
//
// Flags and environment variables are layered on top with FromViper:
//
//	v := config.NewViper()
//	_ = v.BindPFlag(config.KeyWorkers, cmd.Flags().Lookup("workers"))
//	cfg, err = config.FromViper(v, cfg)
package config
