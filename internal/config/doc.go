// Package config loads the vcmd configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. Built-in defaults (http://localhost:8090, 10s request timeout, 50s refresh)
//  2. ~/.config/vcmd/config.yaml, or config.yaml in the directory passed to LoadConfig
//  3. VCMD_* environment variables (VCMD_HOST, VCMD_PORT, VCMD_REFRESH_INTERVAL, ...)
//
// Command line flags are applied on top by the cmd package.
//
// Example config.yaml:
//
//	server:
//	  host: velocity.example.com
//	  port: 8090
//	session:
//	  requestTimeout: 10s
//	  refreshInterval: 50s
//	shell:
//	  historyFile: /home/me/.vcmd_history
//	  color: false
//	metrics:
//	  listenAddress: 127.0.0.1:9190
package config
