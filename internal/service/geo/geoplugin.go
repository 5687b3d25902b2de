package geo

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ipguard/config"
)

// GeoPluginProvider 查詢 geoplugin.net；沒有成功旗標，欄位為空就是查不到
type GeoPluginProvider struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	baseURL   string
}

func NewGeoPluginProvider(client *http.Client, conf *config.Configuration) *GeoPluginProvider {
	return &GeoPluginProvider{
		client:    client,
		userAgent: conf.Geo.UserAgentOrDefault(),
		timeout:   time.Duration(conf.Geo.TimeoutOrDefault()) * time.Second,
		baseURL:   "http://www.geoplugin.net",
	}
}

func (p *GeoPluginProvider) Name() string { return "geoplugin.net" }

func (p *GeoPluginProvider) Fetch(ctx context.Context, ip string) (Location, error) {
	var payload struct {
		CountryName string `json:"geoplugin_countryName"`
		City        string `json:"geoplugin_city"`
	}
	url := fmt.Sprintf("%s/json.gp?ip=%s", p.baseURL, ip)
	if err := getJSON(ctx, p.client, url, p.userAgent, p.timeout, &payload); err != nil {
		return Location{}, err
	}
	return Location{
		Country: normalizeField(payload.CountryName),
		City:    normalizeField(payload.City),
	}, nil
}
