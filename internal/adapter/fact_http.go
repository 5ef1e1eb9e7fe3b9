// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/TechWithTyler/randofacto/internal/config"
	"github.com/TechWithTyler/randofacto/internal/logger"
	"github.com/TechWithTyler/randofacto/internal/utils"
)

type factResponse struct {
	Text *string `json:"text"`
}

type httpFactProvider struct {
	client *utils.HTTPClient

	factURL     string
	screenURL   string
	maxAttempts int

	logger *logger.Logger
}

// NewHTTPFactProvider constructs a [FactProvider] that fetches facts from
// appCfg.FactURL and screens each one through appCfg.ScreenURL, trying up to
// appCfg.FactMaxAttempts facts. Requests are bounded by
// adapterCfg.RequestTimeout.
func NewHTTPFactProvider(appCfg config.App, adapterCfg config.Adapter, log *logger.Logger) FactProvider {
	maxAttempts := appCfg.FactMaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return &httpFactProvider{
		client:      utils.NewHTTPClient(adapterCfg.RequestTimeout),
		factURL:     appCfg.FactURL,
		screenURL:   appCfg.ScreenURL,
		maxAttempts: maxAttempts,
		logger:      log.Component("fact_provider"),
	}
}

// GenerateFact implements [FactProvider]. A transport or decoding failure
// ends the attempt immediately; only facts flagged by screening are retried.
func (p *httpFactProvider) GenerateFact(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		text, err := p.fetchFact(ctx)
		if err != nil {
			return "", err
		}

		inappropriate, err := p.screen(ctx, text)
		if err != nil {
			return "", err
		}
		if !inappropriate {
			return text, nil
		}

		p.logger.Debug().Int("attempt", attempt).Msg("fact rejected by screening")
	}

	return "", ErrNoAppropriateFact
}

func (p *httpFactProvider) fetchFact(ctx context.Context) (string, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		Get(p.factURL)
	if err != nil {
		return "", fmt.Errorf("error fetching fact: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return "", err
	}

	var body factResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", factMalformed(err)
	}
	if body.Text == nil || strings.TrimSpace(*body.Text) == "" {
		return "", factTextMissing()
	}

	return strings.TrimSpace(*body.Text), nil
}

func (p *httpFactProvider) screen(ctx context.Context, text string) (bool, error) {
	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		SetQueryParam("text", text).
		Get(p.screenURL)
	if err != nil {
		return false, fmt.Errorf("error screening fact: %w", err)
	}
	if err := mapHTTPError(resp); err != nil {
		return false, err
	}

	inappropriate, err := strconv.ParseBool(strings.TrimSpace(string(resp.Body())))
	if err != nil {
		return false, factMalformed(err)
	}

	return inappropriate, nil
}
