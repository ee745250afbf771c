// Package logger provides slog construction and attribute helpers shared by
// the SDK's packages. New builds a text or JSON handler from functional
// options; the attr helpers keep log field names consistent across packages
// (user_id, target_id, kind, error).
package logger
