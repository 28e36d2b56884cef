// Package config loads and validates RealmGate platform configuration.
//
// Configuration comes from a YAML file with environment variable
// overrides layered on top, so the same file works across environments:
//
//	version: "1.0.0"
//	platform:
//	  name: realmgate-dev
//	  environment: dev
//	policy:
//	  path: /etc/realmgate/policy.yaml
//	metrics:
//	  enabled: true
//	  port: 9090
//	  path: /metrics
//
// Environment overrides use the REALMGATE_ prefix:
// REALMGATE_PLATFORM_NAME, REALMGATE_POLICY_PATH,
// REALMGATE_METRICS_ENABLED, REALMGATE_METRICS_PORT.
package config
