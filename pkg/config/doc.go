// Package config loads addon-check configuration from YAML files and environment variables.
//
// # Overview
//
// Configuration starts from DefaultConfig, is overlaid with the first config file
// found (.addon-check.yaml, .addon-check.yml, addon-check.yaml) and then with
// ADDON_CHECK_* environment variables. Command line flags override all of these.
//
// # Configuration File
//
//	branch: leia
//	repository_dir: /srv/kodi/repository
//	reporters: [console, json]
//	fail_on: problem
//	workers: 8
//	ignore_dependencies:
//	  - script.module.custom
//	metrics_file: /var/lib/node_exporter/addon_check.prom
//	log:
//	  level: debug
//	  file: /var/log/addon-check/debug.log
//	  rotation:
//	    max_size_mb: 10
//	    max_backups: 3
//	server:
//	  addr: ":8080"
//	  read_timeout: 15s
//	cache:
//	  size: 16
//	  ttl: 10m
//
// # Environment Variables
//
//	ADDON_CHECK_BRANCH="leia"
//	ADDON_CHECK_REPO="/srv/kodi/repository"
//	ADDON_CHECK_LOG_LEVEL="debug"
//	ADDON_CHECK_LOG_FILE="/var/log/addon-check/debug.log"
//	ADDON_CHECK_WORKERS="8"
//	ADDON_CHECK_REPORTERS="console,json"
//	ADDON_CHECK_SERVER_ADDR=":9090"
package config
