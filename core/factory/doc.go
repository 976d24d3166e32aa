// Package factory is a generic registry that builds modules, such as the
// metrics sinks, from a type name and a map of raw settings:
//
//	sinks:
//	  - type: influx
//	    conf: {url: "http://influx:8086", org: grid, bucket: dispatch, timeout: 2s}
//
// Factories decode their settings with Decode and return the implementation.
package factory
