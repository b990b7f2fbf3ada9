// Package config provides configuration loading for the signup server.
//
// Configuration is read from signup.json or signup.hcl. Values missing from
// the file keep their defaults, and command-line flags override both.
//
// # JSON
//
//	{
//	  "server": {"host": "0.0.0.0", "port": 8080, "shutdownTimeout": "10s"},
//	  "session": {"idleTimeout": "30m", "cookieName": "signup_session"},
//	  "metrics": {"enabled": true, "path": "/metrics"},
//	  "tracing": {"enabled": false},
//	  "log": {"level": "info", "format": "text"}
//	}
//
// # HCL
//
//	server {
//	  host = "0.0.0.0"
//	  port = 8080
//	}
//
//	session {
//	  idle_timeout = "30m"
//	}
//
//	log {
//	  level  = "debug"
//	  format = "json"
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Addr())
package config
