// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"net"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// invariants before it is used at startup. Every failing group is reported.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.App.FactURL == "" || cfg.App.ScreenURL == "" ||
		cfg.App.FactMaxAttempts < 1 || cfg.App.SettleDelay < 0 {
		errs = append(errs, ErrInvalidAppConfigs)
	}

	if cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.ProbeInterval <= 0 ||
		cfg.Adapter.ProbeTimeout <= 0 || !validHostPort(cfg.Adapter.ProbeAddress) {
		errs = append(errs, ErrInvalidAdapterConfigs)
	}

	if cfg.Storage.RemoteDSN == "" || cfg.Storage.LocalDSN == "" {
		errs = append(errs, ErrInvalidStorageConfigs)
	}

	if cfg.Auth.TokenSignKey == "" || cfg.Auth.SessionDuration <= 0 ||
		cfg.Auth.RecentLoginWindow <= 0 {
		errs = append(errs, ErrInvalidAuthConfigs)
	}

	if cfg.Workers.WatchInterval <= 0 || cfg.Workers.DeleteConcurrency < 1 {
		errs = append(errs, ErrInvalidWorkerConfigs)
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed: %w", errors.Join(errs...))
}

func validHostPort(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	return err == nil && host != "" && port != ""
}
