package configs

import "time"

// Auth configures bearer token verification. Secret is the HMAC key shared
// with the token issuer. Permissive skips identity checks entirely and is
// intended for local runs only.
type Auth struct {
	Secret     string        `env:"JWT_SECRET"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"milestone-escrow"`
	Permissive bool          `env:"PERMISSIVE" envDefault:"false"`
	DemoTTL    time.Duration `env:"DEMO_TOKEN_TTL" envDefault:"1h"`
}
