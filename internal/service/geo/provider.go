package geo

import (
	"net/http"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewHTTPClient,
	NewIPAPIProvider,
	NewIPAPICoProvider,
	NewGeoPluginProvider,
	NewProviders,
	NewService,
)

// NewHTTPClient 地理位置查詢共用的 HTTP client（逾時由各 Provider 的 ctx 控制）
func NewHTTPClient() *http.Client {
	return &http.Client{}
}

// NewProviders 固定查詢順序
func NewProviders(ipAPI *IPAPIProvider, ipAPICo *IPAPICoProvider, geoPlugin *GeoPluginProvider) []Provider {
	return []Provider{ipAPI, ipAPICo, geoPlugin}
}
