package geo

import "context"

// Location 粗粒度地理位置。Country 可單獨存在；City 不會在沒有 Country 時回傳。
type Location struct {
	Country *string `json:"country"`
	City    *string `json:"city"`
}

func (l Location) Empty() bool {
	return l.Country == nil && l.City == nil
}

// Provider 單一地理位置查詢來源。
// Fetch 只回傳該來源解析出的欄位；查詢失敗（HTTP 錯誤、格式錯誤、來源回報失敗）回 error。
type Provider interface {
	Name() string
	Fetch(ctx context.Context, ip string) (Location, error)
}

// normalizeField 將空字串與字面 "None" 視為缺值
func normalizeField(value string) *string {
	if value == "" || value == "None" {
		return nil
	}
	v := value
	return &v
}

type providerError struct {
	provider string
	message  string
}

func (e *providerError) Error() string {
	return "geo provider " + e.provider + ": " + e.message
}
