package config

type StreamServer struct {
	Global *Global `yaml:"-"`

	// Database options for this component, falling back to the global
	// pool when not set.
	Database DatabaseOptions `yaml:"database,omitempty"`

	// The maximum number of activity ids kept per cached stream list.
	// Older entries fall off the tail as new activities arrive.
	MaxActivityListSize int `yaml:"max_activity_list_size"`

	// Whether to bulk-populate the entity caches at startup.
	WarmCacheOnStartup bool `yaml:"warm_cache_on_startup"`
}

func (c *StreamServer) Defaults() {
	c.MaxActivityListSize = 200
	c.WarmCacheOnStartup = false
}

func (c *StreamServer) Verify(configErrs *ConfigErrors) {
	checkPositive(configErrs, "stream_server.max_activity_list_size", int64(c.MaxActivityListSize))
}

// DatabaseOpts returns this component's database options, or the global
// pool options if the component doesn't carry its own.
func (c *StreamServer) DatabaseOpts() *DatabaseOptions {
	if c.Database.ConnectionString != "" {
		return &c.Database
	}
	return &c.Global.DatabaseOptions
}
