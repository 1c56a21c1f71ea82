//go:build linux

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	logText     = "text"
	logJSON     = "json"
)

type config struct {
	Cycles   int
	Interval time.Duration
	Fixture  string
	Procfs   string
	Threads  bool
	Format   string
	ShowAll  bool
	PIDs     []int

	HideKernelThreads   bool
	HideUserlandThreads bool
	UpdateProcessNames  bool
	ClampMem            bool
	MaxArgvBytes        int

	LogLevel  string
	LogFormat string
	LogFile   string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("proctab")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig merges flags, environment and the optional config file. Flags
// set on the command line win over both.
func loadConfig(v *viper.Viper) (config, error) {
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	c := config{
		Cycles:              v.GetInt("cycles"),
		Interval:            v.GetDuration("interval"),
		Fixture:             v.GetString("fixture"),
		Procfs:              v.GetString("procfs"),
		Threads:             v.GetBool("threads"),
		Format:              strings.ToLower(v.GetString("format")),
		ShowAll:             v.GetBool("all"),
		PIDs:                v.GetIntSlice("pid"),
		HideKernelThreads:   v.GetBool("hide-kernel-threads"),
		HideUserlandThreads: v.GetBool("hide-userland-threads"),
		UpdateProcessNames:  v.GetBool("update-process-names"),
		ClampMem:            v.GetBool("clamp-mem"),
		MaxArgvBytes:        v.GetInt("max-argv-bytes"),
		LogLevel:            v.GetString("log-level"),
		LogFormat:           strings.ToLower(v.GetString("log-format")),
		LogFile:             v.GetString("log-file"),
	}
	return c, c.validate()
}

func (c config) validate() error {
	switch {
	case c.Interval <= 0:
		return errors.New("interval must be > 0")
	case c.Cycles < 0:
		return errors.New("cycles must be >= 0")
	case c.MaxArgvBytes < 0:
		return errors.New("max-argv-bytes must be >= 0")
	case c.Format != formatTable && c.Format != formatJSON:
		return fmt.Errorf("unknown format %q", c.Format)
	case c.LogFormat != logText && c.LogFormat != logJSON:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
