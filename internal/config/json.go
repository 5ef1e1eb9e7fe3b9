// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files, with
// durations accepted as strings such as "30s".
type StructuredJSONConfig struct {
	App struct {
		FactURL         string   `json:"fact_url"`
		ScreenURL       string   `json:"screen_url"`
		FactMaxAttempts int      `json:"fact_max_attempts"`
		SettleDelay     Duration `json:"settle_delay"`
	} `json:"app,omitempty"`

	Adapter struct {
		RequestTimeout Duration `json:"request_timeout"`
		ProbeAddress   string   `json:"probe_address"`
		ProbeInterval  Duration `json:"probe_interval"`
		ProbeTimeout   Duration `json:"probe_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		RemoteDSN string `json:"remote_dsn"`
		LocalDSN  string `json:"local_dsn"`
	} `json:"storage,omitempty"`

	Auth struct {
		TokenSignKey      string   `json:"token_sign_key"`
		TokenIssuer       string   `json:"token_issuer"`
		SessionDuration   Duration `json:"session_duration"`
		RecentLoginWindow Duration `json:"recent_login_window"`
	} `json:"auth,omitempty"`

	Workers struct {
		WatchInterval     Duration `json:"watch_interval"`
		DeleteConcurrency int      `json:"delete_concurrency"`
	} `json:"workers,omitempty"`

	LogFile string `json:"log_file"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			FactURL:         jsonCfg.App.FactURL,
			ScreenURL:       jsonCfg.App.ScreenURL,
			FactMaxAttempts: jsonCfg.App.FactMaxAttempts,
			SettleDelay:     time.Duration(jsonCfg.App.SettleDelay),
		},
		Adapter: Adapter{
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			ProbeAddress:   jsonCfg.Adapter.ProbeAddress,
			ProbeInterval:  time.Duration(jsonCfg.Adapter.ProbeInterval),
			ProbeTimeout:   time.Duration(jsonCfg.Adapter.ProbeTimeout),
		},
		Storage: Storage{
			RemoteDSN: jsonCfg.Storage.RemoteDSN,
			LocalDSN:  jsonCfg.Storage.LocalDSN,
		},
		Auth: Auth{
			TokenSignKey:      jsonCfg.Auth.TokenSignKey,
			TokenIssuer:       jsonCfg.Auth.TokenIssuer,
			SessionDuration:   time.Duration(jsonCfg.Auth.SessionDuration),
			RecentLoginWindow: time.Duration(jsonCfg.Auth.RecentLoginWindow),
		},
		Workers: Workers{
			WatchInterval:     time.Duration(jsonCfg.Workers.WatchInterval),
			DeleteConcurrency: jsonCfg.Workers.DeleteConcurrency,
		},
		LogFile: jsonCfg.LogFile,
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
