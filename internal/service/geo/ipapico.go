package geo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ipguard/config"
)

// IPAPICoProvider 查詢 ipapi.co；回應帶 error 欄位即視為失敗
type IPAPICoProvider struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	baseURL   string
}

func NewIPAPICoProvider(client *http.Client, conf *config.Configuration) *IPAPICoProvider {
	return &IPAPICoProvider{
		client:    client,
		userAgent: conf.Geo.UserAgentOrDefault(),
		timeout:   time.Duration(conf.Geo.TimeoutOrDefault()) * time.Second,
		baseURL:   "https://ipapi.co",
	}
}

func (p *IPAPICoProvider) Name() string { return "ipapi.co" }

func (p *IPAPICoProvider) Fetch(ctx context.Context, ip string) (Location, error) {
	var payload struct {
		Error       bool   `json:"error"`
		Reason      string `json:"reason"`
		CountryName string `json:"country_name"`
		City        string `json:"city"`
	}
	url := fmt.Sprintf("%s/%s/json/", p.baseURL, ip)
	if err := getJSON(ctx, p.client, url, p.userAgent, p.timeout, &payload); err != nil {
		return Location{}, err
	}
	if payload.Error {
		return Location{}, &providerError{provider: p.Name(), message: payload.Reason}
	}
	return Location{
		Country: normalizeField(payload.CountryName),
		City:    normalizeField(payload.City),
	}, nil
}
