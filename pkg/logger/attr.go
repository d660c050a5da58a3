package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
// If id is nil, it returns an empty Attr.
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Channel records a delivery channel kind under the key "channel".
func Channel(kind string) slog.Attr {
	return slog.String("channel", kind)
}

// Purpose records a one-time-secret purpose under the key "purpose".
func Purpose(purpose string) slog.Attr {
	return slog.String("purpose", purpose)
}

// Provider records a federated provider name under the key "provider".
func Provider(name string) slog.Attr {
	return slog.String("provider", name)
}

// TokenID records a credential row id under the key "token_id".
// Never used for token secrets, only for their storage ids.
func TokenID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("token_id", id)
}
