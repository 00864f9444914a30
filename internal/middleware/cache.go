package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/reservas/internal/config"
)

// captureWriter copies the response body (up to limit bytes) while
// forwarding everything to the client.
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
	if cw.limit <= 0 {
		cw.buf.Write(b)
	} else if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) truncated() bool {
	return cw.limit > 0 && cw.size > cw.limit
}

// genKey holds the cache generation. Entries are keyed by generation, so a
// bump makes every older entry unreachable.
func genKey(prefix string) string { return prefix + ":gen" }

func cacheGeneration(ctx context.Context, rdb *redis.Client, prefix string) (int64, error) {
	gen, err := rdb.Get(ctx, genKey(prefix)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// cacheKey hashes the matched route and raw query under prefix and gen.
func cacheKey(prefix string, gen int64, c echo.Context) string {
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%d:%x", prefix, gen, sum[:])
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
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

// ResponseCache caches successful GET responses in Redis for cfg.TTL. Any
// successful non-GET request bumps the cache generation and drops every
// entry under cfg.Prefix, so the next list reflects the mutation. A GET
// that raced a mutation never stores under the new generation. With
// caching disabled, rdb nil or Redis unreachable it is a passthrough.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	maxBody := int64(cfg.MaxBodyBytes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				err := next(c)
				if err == nil && c.Response().Status < http.StatusBadRequest {
					if n, ierr := InvalidateCache(context.WithoutCancel(req.Context()), rdb, cfg.Prefix); ierr != nil {
						logger.Warn("cache invalidation failed", "prefix", cfg.Prefix, "error", ierr)
					} else if n > 0 {
						logger.Debug("cache invalidated", "prefix", cfg.Prefix, "keys", n)
					}
				}
				return err
			}

			ctx := req.Context()
			gen, err := cacheGeneration(ctx, rdb, cfg.Prefix)
			if err != nil {
				logger.Warn("cache lookup failed", "prefix", cfg.Prefix, "error", err)
				return next(c)
			}
			key := cacheKey(cfg.Prefix, gen, c)

			if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
				if status, hdr, body, ok := decodePayload(bs); ok {
					for k, vals := range hdr {
						if strings.EqualFold(k, echo.HeaderContentLength) {
							continue
						}
						for _, v := range vals {
							c.Response().Header().Add(k, v)
						}
					}
					c.Response().Header().Set("X-Cache", "HIT")
					c.Response().WriteHeader(status)
					_, _ = c.Response().Write(body)
					return nil
				}
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}

			hdr := c.Response().Header().Clone()
			hdr.Del("X-Cache")
			hdr.Del(echo.HeaderXRequestID)
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			storeCtx := context.WithoutCancel(ctx)
			if now, err := cacheGeneration(storeCtx, rdb, cfg.Prefix); err != nil || now != gen {
				// a write landed while the handler ran
				return nil
			}
			if err := rdb.SetEx(storeCtx, key, payload, cfg.TTL).Err(); err != nil {
				logger.Warn("cache store failed", "key", key, "error", err)
			}
			return nil
		}
	}
}

// InvalidateCache bumps the cache generation, then deletes every entry
// under prefix and reports how many were removed.
func InvalidateCache(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	if err := rdb.Incr(ctx, genKey(prefix)).Err(); err != nil {
		return 0, fmt.Errorf("bump %s generation: %w", prefix, err)
	}
	var (
		cursor  uint64
		removed int
	)
	gk := genKey(prefix)
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+":*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scan %s: %w", prefix, err)
		}
		keys = slices.DeleteFunc(keys, func(k string) bool { return k == gk })
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("del %s: %w", prefix, err)
			}
			removed += int(n)
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
