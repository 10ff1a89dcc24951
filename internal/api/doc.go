// Package api implements the HTTP REST API and WebSocket server for the
// smart-home core.
//
// This package provides:
//   - REST endpoints for the home, rooms, devices, rules, tasks and scenes
//   - Device commands and security arm/disarm
//   - Execution history for rules, scheduled tasks and scenes
//   - A WebSocket hub that relays controller events to subscribed clients
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Architecture
//
// Handlers never touch the home directly. Every read and write is a
// controller command, so HTTP requests are serialised with engine and
// scheduler ticks:
//
//	HTTP ──► handler ──► controller.Do ──► home / engine / scheduler
//	                         │
//	                         └─► events ──► Hub ──► WebSocket clients
//
// # Errors
//
// Domain errors map to HTTP statuses in writeDomainError: unknown names are
// 404, a wrong lock code is 403, a malformed command is 400, a command the
// device cannot perform is 422, a disconnected device is 409, and a stopped
// controller is 503.
//
// # Graceful Degradation
//
// MQTT, InfluxDB and the database are optional. The API works without them;
// /metrics reports which are connected.
package api
