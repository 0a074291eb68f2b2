// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
Package tracing provides OpenTelemetry setup and correlation ID propagation
for the SDK.

# Console tracing

The CLI installs a console exporter when --trace is set:

	shutdown, err := tracing.SetupConsole(tracing.ConsoleConfig{
	    ServiceName:    "swsdk",
	    ServiceVersion: version,
	    Writer:         os.Stderr,
	})
	if err != nil {
	    return err
	}
	defer shutdown(context.Background())

Library code gets tracers from the global provider with otel.Tracer, so spans
are no-ops until a provider is installed.

# Correlation IDs

A correlation ID ties the log lines and outbound requests of one command
together:

	id := tracing.NewCorrelationID()
	ctx = tracing.ToContext(ctx, id)

The httpclient transport sends it as X-Correlation-ID along with the W3C
trace context headers.
*/
package tracing
