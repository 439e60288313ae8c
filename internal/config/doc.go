// Package config provides configuration parsing for the reconcile tool.
//
// The configuration is stored in reconcile.json. This package handles
// loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "debug",
//	    "format": "json"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "reconcile"
//	  },
//	  "tracing": {
//	    "enabled": true,
//	    "tracer": "reconcile"
//	  },
//	  "inspect": {
//	    "addr": "localhost:7357",
//	    "path": "/_reconcile"
//	  },
//	  "fixtures": {
//	    "dir": "fixtures",
//	    "s3": {
//	      "bucket": "ui-fixtures",
//	      "region": "eu-west-1",
//	      "prefix": "reconcile/"
//	    }
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.NewLogger(os.Stderr)
package config
