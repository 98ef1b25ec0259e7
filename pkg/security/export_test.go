package security

// IncrWithTTLScript exposes the counter script to the external tests.
func IncrWithTTLScript() string { return incrWithTTLScript }
