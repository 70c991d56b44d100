package types

// RPCConf 描述与宿主平台之间的本地 gRPC 通道。
type RPCConf struct {
	Address            string `ini:"address" env:"CAFE_RPC_ADDRESS"`
	ServicePackage     string `ini:"service_package" env:"CAFE_RPC_SERVICE_PACKAGE"` // proto package of the host services, e.g. "sdk"
	CallTimeoutSeconds int    `ini:"call_timeout_seconds" env:"CAFE_RPC_CALL_TIMEOUT_SECONDS"`
}

// ProxyConf 是上游代理的固定入口，凭证来自 PROXY_AUTH 环境变量。
type ProxyConf struct {
	Scheme string `ini:"scheme"`
	Host   string `ini:"host"`
	Port   int    `ini:"port"`
}

// ScrapeConf 包含默认业务逻辑 (页面抓取) 的配置
type ScrapeConf struct {
	UserAgent             string `ini:"user_agent" env:"CAFE_SCRAPE_USER_AGENT"`
	RequestTimeoutSeconds int    `ini:"request_timeout_seconds"`
}

// ResultConf controls what is published alongside the result payload.
type ResultConf struct {
	// TableHeaders is a ';' separated list of "label|key|format" columns.
	TableHeaders string `ini:"table_headers"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level" env:"CAFE_LOG_LEVEL"`
}

// Config 是任务脚本的统一配置结构体
type Config struct {
	RPCConf    `ini:"rpc"`
	ProxyConf  `ini:"proxy"`
	ScrapeConf `ini:"scrape"`
	ResultConf `ini:"result"`
	LogConf    `ini:"log"`
}

// DefaultConfig returns the values the host platform expects when no ini file is shipped
// with the task.
func DefaultConfig() *Config {
	return &Config{
		RPCConf: RPCConf{
			Address:            "127.0.0.1:20086",
			ServicePackage:     "sdk",
			CallTimeoutSeconds: 30,
		},
		ProxyConf: ProxyConf{
			Scheme: "socks5",
			Host:   "proxy-inner.cafescraper.com",
			Port:   6000,
		},
		ScrapeConf: ScrapeConf{
			UserAgent:             "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36",
			RequestTimeoutSeconds: 20,
		},
		ResultConf: ResultConf{
			TableHeaders: "URL|url|text;Status|status|text",
		},
		LogConf: LogConf{
			Level: "info",
		},
	}
}
