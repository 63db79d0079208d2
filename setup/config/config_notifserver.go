package config

type NotifServer struct {
	Global *Global `yaml:"-"`

	Database DatabaseOptions `yaml:"database,omitempty"`

	// Email configures the outbound SMTP channel. If no host is set the
	// email notifier is disabled and only in-app/alert channels run.
	Email EmailOptions `yaml:"email"`

	// URL of the web frontend, substituted into notification bodies as
	// $(baseurl).
	BaseURL string `yaml:"base_url"`
}

type EmailOptions struct {
	// The SMTP host to deliver through, e.g. "localhost:25".
	Host string `yaml:"smtp_host"`
	// SMTP AUTH credentials, optional.
	User     string `yaml:"smtp_user"`
	Password string `yaml:"smtp_password"`
	// The From address on outbound notifications.
	From string `yaml:"from"`
	// Directory holding the *.eml notification templates.
	TemplatesPath string `yaml:"templates_path"`
}

func (c *NotifServer) Defaults() {
	c.Email.TemplatesPath = "./templates"
}

func (c *NotifServer) Verify(configErrs *ConfigErrors) {
	if c.Email.Host != "" {
		checkNotEmpty(configErrs, "notification_server.email.from", c.Email.From)
	}
	checkURL(configErrs, "notification_server.base_url", c.BaseURL)
}

func (c *NotifServer) DatabaseOpts() *DatabaseOptions {
	if c.Database.ConnectionString != "" {
		return &c.Database
	}
	return &c.Global.DatabaseOptions
}
