// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"net/http"
	"strings"

	"github.com/TechWithTyler/randofacto/internal/app"
	"github.com/go-resty/resty/v2"
)

// mapHTTPError turns a non-2xx response into a coded error of the HTTP
// response domain. The body, or the status text when the body is empty, is
// kept as the description.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	return app.NewCodedError(app.DomainHTTP, resp.StatusCode(), body, nil)
}

func factMalformed(err error) error {
	return app.NewCodedError(app.DomainApp, app.CodeFactDataMalformed, "fact data malformed", err)
}

func factTextMissing() error {
	return app.NewCodedError(app.DomainApp, app.CodeFactTextMissing, "fact text missing", nil)
}
