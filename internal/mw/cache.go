package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"smartmap-backend/internal/metrics"
	"smartmap-backend/internal/model"
)

// ChangeSource announces commits to the data behind cached responses.
// *store.Store satisfies it.
type ChangeSource interface {
	OnChange(fn func([]model.Facility))
}

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// captureWriter tees the response body so it can be stored after the handler ran.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache keeps successful GET responses keyed by request URI until they
// expire or the source commits a change.
type ResponseCache struct {
	items *cache.Cache
	ttl   time.Duration
}

// NewResponseCache creates a cache whose entries live for ttl. Every commit
// announced by src empties it; src may be nil.
func NewResponseCache(ttl time.Duration, src ChangeSource) *ResponseCache {
	rc := &ResponseCache{
		items: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
	if src != nil {
		src.OnChange(func([]model.Facility) {
			rc.Flush()
		})
	}
	return rc
}

// Flush drops every entry.
func (rc *ResponseCache) Flush() {
	rc.items.Flush()
}

// Len returns the number of stored responses.
func (rc *ResponseCache) Len() int {
	return rc.items.ItemCount()
}

// Handler returns the middleware. The X-Cache header tells HIT from MISS; the
// per-request id is never replayed from a stored response.
func (rc *ResponseCache) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.URL.RequestURI()
		if v, found := rc.items.Get(key); found {
			metrics.ObserveCache(true)
			hit := v.(cachedResponse)
			h := c.Writer.Header()
			for k, vals := range hit.headers {
				h[k] = vals
			}
			h.Set("X-Cache", "HIT")
			c.Writer.WriteHeader(hit.status)
			_, _ = c.Writer.Write(hit.body)
			c.Abort()
			return
		}

		metrics.ObserveCache(false)
		c.Writer.Header().Set("X-Cache", "MISS")
		w := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		status := w.Status()
		if status < 200 || status >= 300 {
			return
		}
		headers := w.Header().Clone()
		headers.Del("X-Cache")
		headers.Del(RequestIDHeader)
		rc.items.Set(key, cachedResponse{status: status, headers: headers, body: w.body.Bytes()}, rc.ttl)
	}
}
