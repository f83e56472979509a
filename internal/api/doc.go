// Package api implements the HTTP REST API of the smart device.
//
// This package provides:
//   - REST endpoints for device status, configuration, and commands
//   - API key authentication via the x-api-key header
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//   - Audit trail recording for state-changing and rejected requests
//
// # Architecture
//
// The API server is the device's only surface towards the mobile
// application. All /v1 endpoints require the device authorization key;
// state-changing commands additionally take the single-flight busy lock
// so only one maintenance operation runs at a time.
//
// # Security
//
// The authorization key is delivered with the device as a QR code. The
// header value may be a hex string or base64; a missing or malformed key
// is a 400, a well-formed but wrong key is a 401. Key comparison is
// constant time.
package api
