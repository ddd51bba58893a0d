// Package observability holds the logging, metrics and tracing shared by
// the api, worker and scan commands. See the logging, metrics and tracing
// subpackages.
package observability
