package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

// CompressionConfig configures response compression
type CompressionConfig struct {
	BrotliLevel  int
	GzipLevel    int
	MinSizeBytes int
}

// DefaultCompressionConfig favours speed; API payloads are small JSON
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		BrotliLevel:  5,
		GzipLevel:    gzip.DefaultCompression,
		MinSizeBytes: 1024,
	}
}

// bufferedWriter holds the body until the handler returns so the size
// is known before choosing whether to compress.
type bufferedWriter struct {
	http.ResponseWriter
	buffer     bytes.Buffer
	statusCode int
}

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.statusCode == 0 {
		bw.statusCode = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	if bw.statusCode == 0 {
		bw.statusCode = http.StatusOK
	}
	return bw.buffer.Write(b)
}

// Compression encodes JSON responses with brotli, or gzip when brotli is
// not accepted. Small bodies and other content types pass through as is.
func Compression(cfg CompressionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			encoding := negotiateEncoding(r.Header.Get("Accept-Encoding"))
			if encoding == "" || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			bw := &bufferedWriter{ResponseWriter: w}
			next.ServeHTTP(bw, r)
			if bw.statusCode == 0 {
				bw.statusCode = http.StatusOK
			}

			w.Header().Add("Vary", "Accept-Encoding")
			body := bw.buffer.Bytes()
			if len(body) < cfg.MinSizeBytes || !compressible(w.Header().Get("Content-Type")) {
				w.WriteHeader(bw.statusCode)
				w.Write(body)
				return
			}

			var compressed bytes.Buffer
			if err := encode(&compressed, encoding, body, cfg); err != nil {
				w.WriteHeader(bw.statusCode)
				w.Write(body)
				return
			}

			w.Header().Set("Content-Encoding", encoding)
			w.Header().Set("Content-Length", strconv.Itoa(compressed.Len()))
			w.WriteHeader(bw.statusCode)
			w.Write(compressed.Bytes())
		})
	}
}

func encode(dst io.Writer, encoding string, body []byte, cfg CompressionConfig) error {
	var zw io.WriteCloser
	switch encoding {
	case "br":
		zw = brotli.NewWriterLevel(dst, cfg.BrotliLevel)
	default:
		gz, err := gzip.NewWriterLevel(dst, cfg.GzipLevel)
		if err != nil {
			return err
		}
		zw = gz
	}
	if _, err := zw.Write(body); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// negotiateEncoding picks br over gzip, ignoring anything with q=0
func negotiateEncoding(header string) string {
	if header == "" {
		return ""
	}

	accepted := make(map[string]bool)
	for _, part := range strings.Split(header, ",") {
		fields := strings.Split(strings.TrimSpace(part), ";")
		name := strings.ToLower(strings.TrimSpace(fields[0]))
		quality := 1.0
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if strings.HasPrefix(param, "q=") {
				if q, err := strconv.ParseFloat(param[2:], 64); err == nil {
					quality = q
				}
			}
		}
		accepted[name] = quality > 0
	}

	switch {
	case accepted["br"]:
		return "br"
	case accepted["gzip"]:
		return "gzip"
	}
	return ""
}

func compressible(contentType string) bool {
	return strings.HasPrefix(contentType, "application/json") || strings.HasPrefix(contentType, "text/")
}
