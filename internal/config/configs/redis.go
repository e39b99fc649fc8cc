package configs

// Redis configures the Redis-backed store. A single address connects to a
// standalone server; the store relies on WATCH so cluster deployments are
// not supported.
type Redis struct {
	Addrs    []string `env:"ADDRS" envSeparator:"," envDefault:"localhost:6379"`
	Password string   `env:"PASSWORD"`
	DB       int      `env:"DB" envDefault:"0"`
	// KeyPrefix namespaces every key written by the store.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"escrow"`
}
