// Package mqtt provides MQTT client connectivity for the EcoRecicle core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// The core publishes device lifecycle events, notifications, and metric
// snapshots to the broker so external consumers (dashboards, municipal
// integrations) can react without polling the HTTP API. The core itself
// subscribes to nothing.
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//
// # Topic Hierarchy
//
//	ecorecicle/core/device/{id}/registered   device registration events
//	ecorecicle/core/device/{id}/collected    device collection events
//	ecorecicle/core/notification             dashboard feed entries
//	ecorecicle/core/metrics                  aggregated snapshots
//	ecorecicle/system/status                 online/offline status (retained)
package mqtt
