// Package logger provides slog attribute helpers and a small factory shared
// by the credential engines.
//
// The helpers keep attribute keys consistent across packages (user_id,
// component, channel, purpose, provider) so log aggregation can pivot on
// them. None of the helpers ever receive secret material; engines log ids
// and channel values only.
package logger
