package sink

import (
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"sync"
)

// EmbedImages returns a resolver for [WithImageResolver] that inlines local
// files as base64 data URIs. Data URIs and http(s) URLs pass through.
// Every file is read once; the resolver is safe for concurrent use.
func EmbedImages() func(src string) (string, error) {
	var mu sync.Mutex
	seen := make(map[string]string)
	return func(src string) (string, error) {
		if src == "" || strings.HasPrefix(src, "data:") ||
			strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
			return src, nil
		}
		mu.Lock()
		defer mu.Unlock()
		if uri, ok := seen[src]; ok {
			return uri, nil
		}
		data, err := os.ReadFile(src)
		if err != nil {
			return "", err
		}
		uri := "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
		seen[src] = uri
		return uri, nil
	}
}
