// Package transport provides the HTTP implementation of resource.Transport
// used to reach the Sen backend.
//
// # Overview
//
// Client performs GET, POST, PUT, PATCH and DELETE requests against a base
// URL, encodes flat parameter maps as query strings, sends JSON bodies and
// decodes JSON responses. Non-2xx responses and network failures are
// returned as *resource.TransportError.
//
// # Configuration Example
//
//	api {
//	  base_url    = "https://sen.example.com/api"
//	  auth_token  = env("SEN_API_TOKEN")
//	  token_file  = "~/.sen/token"
//	  timeout     = "15s"
//	  tls_verify  = true
//	  max_retries = 0
//	}
//
// # Authentication
//
// The Bearer token comes from a TokenStore:
//   - StaticToken: fixed token from configuration
//   - MemoryTokenStore: token set at runtime after login
//   - FileTokenStore: token persisted on disk between runs
//
// A 401 response clears the stored token and runs the hook registered with
// WithUnauthorizedHook, so the caller can send the user back to login.
//
// # Error Handling
//
// Error messages are taken from the "message" (or "error") field of the
// response body when present. Retries are off by default; when MaxRetries
// is set, only network failures and 5xx responses are retried with
// exponential backoff.
//
// # Observability
//
//   - hclog debug logs per request and response, with an X-Request-ID
//   - OpenTelemetry client spans
//   - request counter and duration histogram
//
// # Security
//
//   - Auth token is not logged or serialized to JSON
//   - TLS verification can be disabled for development only
package transport
