package configs

// SQLite configures the embedded store. The schema is migrated on every
// open.
type SQLite struct {
	Path string `env:"PATH" envDefault:"escrow.db"`
}
