// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import (
	"runtime"

	log "github.com/sirupsen/logrus"
)

// watchLeak arranges a warning if obj is collected while still holding
// its handle. The finalizer runs on the collector's goroutine so it must
// never talk to the driver.
func watchLeak[T any](obj *T, kind string, handle uint32, released func(*T) bool) {
	runtime.SetFinalizer(obj, func(o *T) {
		if !released(o) {
			log.WithFields(log.Fields{
				"kind":   kind,
				"handle": handle,
			}).Warn("GPU resource collected without Release")
		}
	})
}

func unwatchLeak[T any](obj *T) {
	runtime.SetFinalizer(obj, nil)
}
