package geo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ipguard/config"
)

// IPAPIProvider 查詢 ip-api.com；status 欄位為 "success" 才算成功
type IPAPIProvider struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	baseURL   string
}

func NewIPAPIProvider(client *http.Client, conf *config.Configuration) *IPAPIProvider {
	return &IPAPIProvider{
		client:    client,
		userAgent: conf.Geo.UserAgentOrDefault(),
		timeout:   time.Duration(conf.Geo.TimeoutOrDefault()) * time.Second,
		baseURL:   "http://ip-api.com",
	}
}

func (p *IPAPIProvider) Name() string { return "ip-api.com" }

func (p *IPAPIProvider) Fetch(ctx context.Context, ip string) (Location, error) {
	var payload struct {
		Status  string `json:"status"`
		Country string `json:"country"`
		City    string `json:"city"`
	}
	url := fmt.Sprintf("%s/json/%s", p.baseURL, ip)
	if err := getJSON(ctx, p.client, url, p.userAgent, p.timeout, &payload); err != nil {
		return Location{}, err
	}
	if payload.Status != "success" {
		return Location{}, &providerError{provider: p.Name(), message: "status " + payload.Status}
	}
	return Location{
		Country: normalizeField(payload.Country),
		City:    normalizeField(payload.City),
	}, nil
}
