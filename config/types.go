package config

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gte=0,lte=65535"`
}

// GTFSConfig contains GTFS static schedule configuration.
// StaticPath may be a directory of .txt tables, a zip file, or an http(s) URL of a zip.
type GTFSConfig struct {
	StaticPath string `yaml:"staticPath" validate:"required"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	TripUpdatesURL string `yaml:"tripUpdatesURL" validate:"required"`
	TimeoutMS      int    `yaml:"timeoutMS" validate:"gte=0"`
	MaxFeedAgeSec  int    `yaml:"maxFeedAgeSec" validate:"gte=0"`
	HorizonMinutes int    `yaml:"horizonMinutes" validate:"gte=0"`
}

// SearchConfig tunes stop search
type SearchConfig struct {
	Limit    int     `yaml:"limit" validate:"gte=0"`
	MinScore float64 `yaml:"minScore" validate:"gte=0,lte=100"`
}

// ScheduleConfig tunes scheduled-arrival queries made on behalf of a rider
type ScheduleConfig struct {
	GraceMinutes int `yaml:"graceMinutes" validate:"gte=0"`
}

// LoggingConfig selects log level and handler
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"omitempty,oneof=json text"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server   ServerConfig   `yaml:"server"`
	GTFS     GTFSConfig     `yaml:"gtfs"`
	GTFSRT   GTFSRTConfig   `yaml:"gtfsrt"`
	Search   SearchConfig   `yaml:"search"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Logging  LoggingConfig  `yaml:"logging"`
}
