package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/ini.v1"

	"cafe_task/internal/shared/types"
)

// Load 在 cfg (通常来自 types.DefaultConfig) 之上依次叠加 ini 文件和环境变量。
// ini 文件不存在时保持默认值，任务脚本通常不带配置文件运行。
func Load(cfg *types.Config, fileName string) error {
	if err := LoadIni(cfg, fileName); err != nil {
		return err
	}
	return ApplyEnv(cfg)
}

// LoadIni 只加载 ini 行为配置文件。
func LoadIni(cfg *types.Config, fileName string) error {
	if fileName == "" {
		return nil
	}
	if _, err := os.Stat(fileName); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	// 值里会出现 ';' (表头分隔符、User-Agent)，不能当作行内注释截断
	iniFile, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, fileName)
	if err != nil {
		return fmt.Errorf("failed to load ini file %s: %w", fileName, err)
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return fmt.Errorf("failed to map ini file %s: %w", fileName, err)
	}
	return nil
}

// ApplyEnv overrides fields tagged with `env:"..."` from the process environment.
// Unset variables leave the current value alone.
func ApplyEnv(cfg *types.Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env overrides: %w", err)
	}
	return nil
}

type proxyEnv struct {
	ProxyAuth string `env:"PROXY_AUTH"`
}

// LookupProxyAuth reads the optional proxy credential. An unset or empty variable
// yields "".
func LookupProxyAuth() (string, error) {
	var pe proxyEnv
	if err := env.Parse(&pe); err != nil {
		return "", fmt.Errorf("read PROXY_AUTH: %w", err)
	}
	return pe.ProxyAuth, nil
}
