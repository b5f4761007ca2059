package config

type HTTP struct {
	Port        string `env:"PORT" envDefault:"10000" validate:"numeric"`
	Addr        string `env:"HTTP_ADDR"`
	ProbeAddr   string `env:"PROBE_ADDR" envDefault:":8081"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`
}

// ListenAddr отдаёт HTTP_ADDR, а без него все интерфейсы на PORT.
func (h HTTP) ListenAddr() string {
	if h.Addr != "" {
		return h.Addr
	}
	return ":" + h.Port
}
