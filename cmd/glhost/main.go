// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"flag"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/glhost/assets"
	"github.com/devblok/glhost/core"
	"github.com/devblok/glhost/device"
)

func init() {
	runtime.LockOSThread()
}

// Configuration
var (
	configFile = flag.String("config", "", "YAML configuration file")
	envFile    = flag.String("env", "", "Additional dotenv file")
)

// Profiling
var (
	cpuProfile   = flag.String("cpuprof", "", "Profile CPU usage to file")
	memProfile   = flag.String("memprof", "", "Profile memory usage into a file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
)

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if *envFile != "" {
		if err := core.LoadEnv(*envFile); err != nil {
			return err
		}
	}

	cfg, err := core.LoadConfiguration(*configFile)
	if err != nil {
		return err
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			return err
		}
		defer trace.Stop()
	}

	src, err := assets.Open(cfg.Renderer.Assets)
	if err != nil {
		return err
	}
	defer src.Close()

	scene, err := core.NewScene(cfg.Renderer, src)
	if err != nil {
		return err
	}

	window, err := device.New(cfg)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"title":  cfg.Window.Title,
		"width":  cfg.Window.Width,
		"height": cfg.Window.Height,
		"driver": cfg.Window.Driver,
		"assets": cfg.Renderer.Assets,
	}).Info("starting")

	host := core.Create(window, src, scene)
	if err := host.Run(); err != nil {
		return err
	}
	log.Info("window closed")

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return err
		}
	}
	return nil
}
