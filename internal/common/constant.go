package common

// MiB is the size unit used for audio limits.
const MiB = 1024 * 1024

// DemoEmail and DemoPassword identify the optional seeded demo account.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "demo123"
)
