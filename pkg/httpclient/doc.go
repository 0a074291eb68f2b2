// Package httpclient builds the HTTP clients the SDK uses to reach remote
// schema endpoints.
//
// Clients created here share a small set of defaults:
//   - TLS 1.2 minimum (TLS 1.3 preferred) with certificate validation
//   - Connection pooling
//   - User-Agent header injection
//   - Correlation ID propagation from the request context
//   - Request logging through log/slog with sanitized URLs
//
// There is no retry layer. A failed request is reported to the caller once
// and the caller decides what to do with it.
//
// # Usage
//
//	cfg := httpclient.DefaultConfig()
//	cfg.UserAgent = "my-tool/1.0"
//	client, err := httpclient.New(cfg)
//	if err != nil {
//	    return err
//	}
//	v := validator.New(validator.WithHTTPClient(client))
//
// # Observability
//
// Successful requests are logged at debug level, 4xx/5xx responses and
// transport failures at warn. Fields: method, url, status, duration_ms, error.
// Query parameters that look like credentials and URL user info are replaced
// with [REDACTED] before logging.
package httpclient
