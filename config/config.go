// Package config loads the service configuration from an ini file.
package config

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"geowell/formation"
	"geowell/model"
	"geowell/well"
)

type Config struct {
	Server    Server
	Solver    Solver
	Formation formation.Properties
	Fluid     Fluid
	Log       Log
}

type Server struct {
	Addr            string
	ReadBufferSize  int
	WriteBufferSize int
	MaxWorkers      int // upper bound of the workers of one sweep
}

type Solver struct {
	Segments      int
	Tolerance     float64
	MaxIterations int
}

type Fluid struct {
	CacheSize int // number of cached states, 0 disables the cache
}

type Log struct {
	Level  string
	Format string // text or json
}

// Load reads the configuration at path; missing keys take their defaults
func Load(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return load(file)
}

// Default returns the configuration with all defaults
func Default() *Config {
	cfg, err := load(ini.Empty())
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(file *ini.File) (*Config, error) {
	server := file.Section("server")
	solver := file.Section("solver")
	rock := file.Section("formation")
	cfg := &Config{
		Server: Server{
			Addr:            server.Key("Addr").MustString(":9000"),
			ReadBufferSize:  server.Key("ReadBufferSize").MustInt(1024),
			WriteBufferSize: server.Key("WriteBufferSize").MustInt(1024),
			MaxWorkers:      server.Key("MaxWorkers").MustInt(8),
		},
		Solver: Solver{
			Segments:      solver.Key("Segments").MustInt(well.DefaultSegments),
			Tolerance:     solver.Key("Tolerance").MustFloat64(well.DefaultTolerance),
			MaxIterations: solver.Key("MaxIterations").MustInt(well.DefaultMaxIterations),
		},
		Formation: formation.Properties{
			Conductivity:       rock.Key("Conductivity").MustFloat64(2.1),
			Density:            rock.Key("Density").MustFloat64(2650),
			HeatCapacity:       rock.Key("HeatCapacity").MustFloat64(1000),
			SurfaceTemperature: rock.Key("SurfaceTemperature").MustFloat64(15),
			Gravity:            rock.Key("Gravity").MustFloat64(model.Gravity),
		},
		Fluid: Fluid{
			CacheSize: file.Section("fluid").Key("CacheSize").MustInt(65536),
		},
		Log: Log{
			Level:  file.Section("log").Key("Level").In("info", []string{"trace", "debug", "info", "warn", "warning", "error"}),
			Format: file.Section("log").Key("Format").In("text", []string{"text", "json"}),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if err := c.Formation.Validate(); err != nil {
		return fmt.Errorf("config: [formation] %w", err)
	}
	switch {
	case c.Solver.Segments < 1:
		return fmt.Errorf("config: [solver] Segments = %d must be at least 1", c.Solver.Segments)
	case !(c.Solver.Tolerance > 0):
		return fmt.Errorf("config: [solver] Tolerance = %g must be positive", c.Solver.Tolerance)
	case c.Solver.MaxIterations < 1:
		return fmt.Errorf("config: [solver] MaxIterations = %d must be at least 1", c.Solver.MaxIterations)
	case c.Server.MaxWorkers < 1:
		return fmt.Errorf("config: [server] MaxWorkers = %d must be at least 1", c.Server.MaxWorkers)
	case c.Fluid.CacheSize < 0:
		return fmt.Errorf("config: [fluid] CacheSize = %d must not be negative", c.Fluid.CacheSize)
	}
	return nil
}

// Options returns the solver options of the configuration
func (c *Config) Options() []well.Option {
	return []well.Option{
		well.WithSegments(c.Solver.Segments),
		well.WithTolerance(c.Solver.Tolerance),
		well.WithMaxIterations(c.Solver.MaxIterations),
	}
}

// Store returns the formation properties as a store
func (c *Config) Store() formation.Store {
	return formation.Static(c.Formation)
}

// Apply sets the level and format of the standard logger
func (l Log) Apply() error {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if l.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}
