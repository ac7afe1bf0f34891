package logger

import "log/slog"

// Error records a single error under the key "error". Nil errors produce an
// empty attribute, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// UserID records the user identifier under the key "user_id".
func UserID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("user_id", id)
}

// Feature records the metered feature name under the key "feature".
func Feature(name string) slog.Attr {
	return slog.String("feature", name)
}

// Tier records the billing tier under the key "tier".
func Tier(name string) slog.Attr {
	return slog.String("tier", name)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
