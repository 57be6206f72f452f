// Package error provides structured, coded errors for cmdcore.
//
// Package: error
// Title: cmdcore Error Handling Framework
// Description: Structured error type with codes, severity, details and stack
//              traces. Configuration errors raised while building and
//              registering commands, as well as host-side failures (config
//              loading, audit storage, gateway transport), are reported with
//              this type. Runtime dispatch outcomes are NOT errors; they are
//              returned as values by the dispatch package.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-12
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-12 v0.2.0: Command registration codes, dropped localisation fields
//
// Usage:
//
//	import mdwerror "github.com/msto63/cmdcore/foundation/core/error"
//
//	err := mdwerror.New("optional argument before required argument").
//		WithCode(mdwerror.CodeInvalidSpec).
//		WithOperation("command.Build").
//		WithDetail("argument", "target")
//
//	if mdwerror.HasCode(err, mdwerror.CodeInvalidSpec) {
//		// refuse registration
//	}
package error
