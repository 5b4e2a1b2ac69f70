// Package logx configures slackpost's structured logging.
//
// This repo uses a small wrapper (logx.Logger) on top of zerolog to keep
// console output readable (short timestamp + short caller) and call sites
// uniform. Logs go to stderr; stdout is reserved for the command's result.
package logx
