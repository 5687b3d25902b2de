package iputil

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP 從 request header 解析真實來源 IP。
// 順序：X-Forwarded-For 第一段 → X-Real-IP → transport peer address。
// header 內容不做格式驗證（可能被不可信 proxy 偽造，部署時僅信任已知 hop）。
func ClientIP(header http.Header, remoteAddr string) string {
	if forwarded := header.Get("X-Forwarded-For"); forwarded != "" {
		first := forwarded
		if i := strings.Index(forwarded, ","); i >= 0 {
			first = forwarded[:i]
		}
		if trimmed := strings.TrimSpace(first); trimmed != "" {
			return trimmed
		}
	}
	if realIP := strings.TrimSpace(header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return peerIP(remoteAddr)
}

// peerIP 取連線層位址（去除 port），取不到回 0.0.0.0
func peerIP(remoteAddr string) string {
	if remoteAddr == "" {
		return "0.0.0.0"
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

// IsPrivate 判斷是否為 private / loopback / link-local。
// 解析失敗一律視為 private（不對外查詢）。
func IsPrivate(ip string) bool {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return true
	}
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast()
}

// IsValid 驗證 IPv4 / IPv6 字面格式
func IsValid(ip string) bool {
	_, err := netip.ParseAddr(strings.TrimSpace(ip))
	return err == nil
}
