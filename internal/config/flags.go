// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// NetAddress holds structured network address data for host and port.
// It implements the pflag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// Overrides holds the values of the persistent command-line flags. Zero
// values mean "not set" and leave lower-priority sources in charge.
type Overrides struct {
	ConfigPath     string
	LogFile        string
	RemoteDSN      string
	LocalDSN       string
	TokenSignKey   string
	RequestTimeout time.Duration
	ProbeAddress   NetAddress
}

// BindFlags registers the configuration flags on fs and returns the
// [Overrides] they populate once fs is parsed.
//
// Flags:
//
//	-c/--config json file path with configs
//	--log-file client log file path
//	--remote-dsn remote document store DSN
//	--local-dsn local settings database path
//	--token-sign-key session token signing key
//	--request-timeout HTTP request timeout (e.g., "10s")
//	--probe-address reachability probe address in format [host]:[port]
func BindFlags(fs *pflag.FlagSet) *Overrides {
	o := &Overrides{}

	fs.StringVarP(&o.ConfigPath, "config", "c", "", "JSON config file path")
	fs.StringVar(&o.LogFile, "log-file", "", "Client log file path")
	fs.StringVar(&o.RemoteDSN, "remote-dsn", "", "Remote document store DSN")
	fs.StringVar(&o.LocalDSN, "local-dsn", "", "Local settings database path")
	fs.StringVar(&o.TokenSignKey, "token-sign-key", "", "Session token signing key")
	fs.DurationVar(&o.RequestTimeout, "request-timeout", 0, "HTTP request timeout (e.g., 10s)")
	fs.Var(&o.ProbeAddress, "probe-address", "Reachability probe address host:port")

	return o
}

func (o *Overrides) config() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			RequestTimeout: o.RequestTimeout,
			ProbeAddress:   o.ProbeAddress.String(),
		},
		Storage: Storage{
			RemoteDSN: o.RemoteDSN,
			LocalDSN:  o.LocalDSN,
		},
		Auth: Auth{
			TokenSignKey: o.TokenSignKey,
		},
		LogFile:      o.LogFile,
		JSONFilePath: o.ConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses the input string of form host:port and populates the NetAddress.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host == "" {
		return errors.New("host must not be empty")
	}

	a.Host = host
	a.Port = port
	return nil
}

// Type implements pflag.Value.
func (a *NetAddress) Type() string {
	return "host:port"
}
