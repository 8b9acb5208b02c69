// Package config provides configuration parsing for hardfox.
//
// The configuration is stored in hardfox.json, found in the working
// directory or one of its parents. This package handles loading, saving,
// and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "catalog": "./catalog.yaml",
//	  "view": {
//	    "showAdvanced": false,
//	    "showDescriptions": true,
//	    "expanded": ["privacy"]
//	  },
//	  "server": {
//	    "host": "localhost",
//	    "port": 8080,
//	    "metricsPath": "/metrics"
//	  },
//	  "metrics": {
//	    "namespace": "hardfox"
//	  },
//	  "log": {
//	    "level": "info"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
