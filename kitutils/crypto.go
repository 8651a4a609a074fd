package kitutils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// HmacSHA256Hex 对 payload 做 HMAC-SHA256, 十六进制输出
// binance 系场馆的签名格式
func HmacSHA256Hex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return fmt.Sprintf("%x", mac.Sum(nil))
}

// HmacSHA256Base64 对 payload 做 HMAC-SHA256, base64 输出
// okx 系场馆的签名格式
func HmacSHA256Base64(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
