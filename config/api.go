package config

// APIConfig configures the HTTP API started by the serve command.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token enables bearer authentication when set.
	Token string `json:"token"`
}

func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// ReportConfig configures the dispatch report files.
type ReportConfig struct {
	OutputDir string `json:"output_dir"`
}

func (c *ReportConfig) SetDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
}
