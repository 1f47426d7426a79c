// Package diagnostic collects structured findings produced while resolving
// type metadata: why a constructor candidate was rejected, which marker was
// ignored, which member was dropped.
//
// Diagnostics never change resolution results. They are attached to
// resolution errors and written to the log so that a failed type can be
// explained parameter by parameter.
package diagnostic
