// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command glinfo prints the OpenGL driver of this machine as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/glhost/core"
	"github.com/devblok/glhost/device"
	"github.com/devblok/glhost/gfx/glcore"
)

func init() {
	runtime.LockOSThread()
}

var driver = flag.String("driver", device.DriverSDL, "Window backend used to create the context")

func main() {
	flag.Parse()

	cfg := core.DefaultConfiguration()
	cfg.Window.Title = "glinfo"
	cfg.Window.Width, cfg.Window.Height = 64, 64
	cfg.Window.Driver = *driver

	window, err := device.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer window.Dispose()

	gl, err := window.CreateGL()
	if err != nil {
		log.Fatal(err)
	}

	ctx, ok := gl.(*glcore.Context)
	if !ok {
		log.Fatalf("unexpected driver %T", gl)
	}

	bytes, err := json.Marshal(ctx.Info())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s\n", bytes)
}
