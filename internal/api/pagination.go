package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Paging holds the page parameters of a list request.
type Paging struct {
	Page     int
	PageSize int
}

func (p Paging) Offset() int { return (p.Page - 1) * p.PageSize }

// PageResponse is the envelope of every paginated list.
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Paginator reads ?page= and ?page_size=. page_size is clamped to [1, maxSize].
type Paginator struct {
	DefaultSize int
	MaxSize     int
}

// maxOffset bounds (page-1)*page_size so the offset cannot overflow.
const maxOffset = math.MaxInt32

func (p Paginator) Parse(c *gin.Context) (Paging, bool) {
	maxSize := p.MaxSize
	if maxSize <= 0 {
		maxSize = 100
	}
	size := p.DefaultSize
	if size <= 0 {
		size = 10
	}
	if raw := c.Query("page_size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			size = n
		}
	}
	if size > maxSize {
		size = maxSize
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n-1 > maxOffset/size {
			abortWithError(c, http.StatusNotFound, "Invalid page.")
			return Paging{}, false
		}
		page = n
	}
	return Paging{Page: page, PageSize: size}, true
}

// NewPage builds the envelope; next and previous keep the request's other query parameters.
func NewPage[T any](c *gin.Context, p Paging, count int64, results []T) PageResponse[T] {
	if results == nil {
		results = []T{}
	}
	resp := PageResponse[T]{Count: count, Page: p.Page, PageSize: p.PageSize, Results: results}
	if int64(p.Page*p.PageSize) < count {
		u := pageURL(c, p.Page+1)
		resp.Next = &u
	}
	if p.Page > 1 {
		u := pageURL(c, p.Page-1)
		resp.Previous = &u
	}
	return resp
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	u.Scheme = scheme
	u.Host = c.Request.Host
	return u.String()
}
