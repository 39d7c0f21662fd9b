package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TrueTimeConfig drives clock reconciliation. Sources are tried in order.
type TrueTimeConfig struct {
	Sources  []string      `yaml:"sources"`
	Timeout  time.Duration `yaml:"timeout" validate:"required|min:1"`
	DeadZone time.Duration `yaml:"deadZone" validate:"min:0"`
	Timezone string        `yaml:"timezone"`
}

type GoalsConfig struct {
	Calories int `yaml:"calories" validate:"required|min:1"`
	Protein  int `yaml:"protein" validate:"min:0"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	TrueTime    TrueTimeConfig `yaml:"trueTime"`
	Goals       GoalsConfig    `yaml:"goals"`
}
