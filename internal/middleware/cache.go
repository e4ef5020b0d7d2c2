package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/reservite/hotel-booking/internal/config"
)

// captureWriter records the response body and status while forwarding both
// to the client, so a successful read can be stored after the handler ran.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.size < cw.limit {
		remain := cw.limit - cw.size
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey hashes method, route and query under the configured prefix.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	raw := strings.Join([]string{
		c.Request().Method, c.Path(), c.Request().URL.RawQuery,
	}, ":")
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// Cached entries pack [4 bytes status][JSON body]; only 200 responses from
// the configured methods are stored, and all cached bodies are JSON.
func encodeEntry(status int, body []byte) []byte {
	out := make([]byte, 4+len(body))
	binary.BigEndian.PutUint32(out[:4], uint32(status))
	copy(out[4:], body)
	return out
}

func decodeEntry(bs []byte) (status int, body []byte, ok bool) {
	if len(bs) < 4 {
		return 0, nil, false
	}
	return int(binary.BigEndian.Uint32(bs[:4])), bs[4:], true
}

// NewResponseCache returns Echo middleware that serves read projections
// from Redis.  With caching disabled or no Redis client it is a
// pass-through, so the orchestrators run fine without Redis.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKey(cfg, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, body, ok := decodeEntry(bs); ok {
					c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			// Only complete 200 bodies are cached; anything truncated by the
			// size limit is skipped.
			if cw.status == http.StatusOK && cw.size <= int64(cfg.MaxBodyBytes) {
				entry := encodeEntry(cw.status, cw.buf.Bytes())
				_ = rdb.SetEx(context.Background(), key, entry, cfg.TTL).Err()
			}
			return nil
		}
	}
}
