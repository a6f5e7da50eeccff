// Package config provides configuration parsing for ive projects.
//
// The configuration is stored in ive.json (or ive.yaml / ive.yml) at the
// project root. Every field is optional; missing fields take the defaults
// returned by New.
//
// # Configuration File Structure
//
//	{
//	  "mount": "/",
//	  "markerPrefix": "ive-",
//	  "markerPolicy": "regenerate",
//	  "notify": "index",
//	  "ids": "counter",
//	  "server": {
//	    "addr": "localhost:3000",
//	    "liveRate": 20,
//	    "liveBurst": 40
//	  },
//	  "log": {
//	    "level": "info"
//	  },
//	  "export": {
//	    "paths": ["/", "/users/1"],
//	    "dir": "dist",
//	    "bucket": "",
//	    "prefix": "",
//	    "region": ""
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	rt, err := ive.New(cfg.RuntimeOptions()...)
//
// Watch reloads the file when it changes and emits capitan signals for each
// reload attempt.
package config
