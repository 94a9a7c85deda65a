package config

// Config contains all application settings
type Config struct {
	BindPort int    `mapstructure:"PORT" yaml:"port"`
	BindHost string `mapstructure:"HOST" yaml:"host"`

	// Storage selects the device/session persistence: "memory" or "document".
	Storage string `mapstructure:"STORAGE" yaml:"storage"`

	// BlobBackend selects the document blob backend: "filesystem" or "postgres".
	BlobBackend string `mapstructure:"BLOB_BACKEND" yaml:"blob_backend"`
	DataDir     string `mapstructure:"DATA_DIR" yaml:"data_dir"`
	DatabaseURL string `mapstructure:"DATABASE_URL" yaml:"database_url"`

	// Enabler selects the device enablement capability: "simulator" or "nats".
	Enabler       string `mapstructure:"ENABLER" yaml:"enabler"`
	NATSServerURL string `mapstructure:"NATS_URL" yaml:"nats_url"`

	JWTSecret     string `mapstructure:"JWT_SECRET" yaml:"jwt_secret"`
	AttemptSecret string `mapstructure:"ATTEMPT_SECRET" yaml:"attempt_secret"`

	// Timeouts and windows in seconds
	EnableTimeout   int `mapstructure:"ENABLE_TIMEOUT" yaml:"enable_timeout"`
	SessionMaxAge   int `mapstructure:"SESSION_MAX_AGE" yaml:"session_max_age"`
	SweepInterval   int `mapstructure:"SWEEP_INTERVAL" yaml:"sweep_interval"`
	RefreshInterval int `mapstructure:"REFRESH_INTERVAL" yaml:"refresh_interval"`

	// Version
	BuildVersion string `yaml:"-"`
	BuildHash    string `yaml:"-"`
	BuildTime    string `yaml:"-"`
}
