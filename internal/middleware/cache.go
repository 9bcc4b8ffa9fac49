package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"tourbooking/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// captureWriter tees the response body into a bounded buffer.
type captureWriter struct {
	gin.ResponseWriter
	buf   bytes.Buffer
	limit int64
	over  bool
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	cw.capture(b)
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) WriteString(s string) (int, error) {
	cw.capture([]byte(s))
	return cw.ResponseWriter.WriteString(s)
}

func (cw *captureWriter) capture(b []byte) {
	if cw.over {
		return
	}
	if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
		cw.over = true
		cw.buf.Reset()
		return
	}
	cw.buf.Write(b)
}

// cacheKey hashes the route pattern with the concrete path and query so
// /catalog/tours/:slug entries never collide.
func cacheKey(prefix string, c *gin.Context) string {
	tail := strings.Join([]string{"route", c.FullPath(), "path", c.Request.URL.Path, "q", c.Request.URL.RawQuery}, ":")
	sum := sha1.Sum([]byte(tail))
	return fmt.Sprintf("%s:%x", prefix, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:8+len(hdrJSON)], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

const cacheSkipKey = "cache_skip"

// SkipCache keeps the current response out of the response cache, for example
// when a handler served fallback data.
func SkipCache(c *gin.Context) {
	c.Set(cacheSkipKey, true)
}

// ResponseCache serves repeated public GETs from Redis. Only 200 responses that fit
// within MaxBodyBytes and were not marked with SkipCache are stored. With caching
// disabled or no client it is a pass-through.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled || rdb == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := cacheKey(cfg.Prefix, c)

		if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
			if status, hdr, body, ok := decodePayload(bs); ok {
				for k, vals := range hdr {
					if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, "X-Request-Id") {
						continue
					}
					for _, v := range vals {
						c.Writer.Header().Add(k, v)
					}
				}
				c.Writer.Header().Set("X-Cache", "HIT")
				c.Status(status)
				_, _ = c.Writer.Write(body)
				c.Abort()
				return
			}
		}

		cw := &captureWriter{ResponseWriter: c.Writer, limit: int64(cfg.MaxBodyBytes)}
		c.Writer = cw
		c.Header("X-Cache", "MISS")

		c.Next()

		if cw.Status() != http.StatusOK || cw.over || c.GetBool(cacheSkipKey) {
			return
		}
		hdr := cw.Header().Clone()
		hdr.Del("X-Cache")
		payload, err := encodePayload(http.StatusOK, hdr, cw.buf.Bytes())
		if err != nil {
			return
		}
		_ = rdb.SetEx(context.WithoutCancel(ctx), key, payload, cfg.TTL).Err()
	}
}
