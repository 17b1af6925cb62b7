package httpx

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pandenic/media-review-board/internal/repository"
)

var ErrInvalidPage = errors.New("invalid page")

// Paginated is the page-number list envelope.
type Paginated[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Pager turns ?page=N into a storage window of Size rows.
type Pager struct {
	Number int
	Size   int
}

func ParsePage(r *http.Request, size int) (Pager, error) {
	p := Pager{Number: 1, Size: size}
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || (size > 0 && n-1 > math.MaxInt/size) {
			return p, ErrInvalidPage
		}
		p.Number = n
	}
	return p, nil
}

func (p Pager) Window() repository.Page {
	return repository.Page{Limit: p.Size, Offset: (p.Number - 1) * p.Size}
}

// Build wraps one page of results. Pages past the end are invalid, except
// the first page of an empty list.
func Build[T any](r *http.Request, p Pager, count int, results []T) (Paginated[T], error) {
	if p.Number > 1 && (p.Number-1)*p.Size >= count {
		return Paginated[T]{}, ErrInvalidPage
	}
	if results == nil {
		results = []T{}
	}
	out := Paginated[T]{Count: count, Results: results}
	if p.Number*p.Size < count {
		out.Next = pageURL(r, p.Number+1)
	}
	if p.Number > 1 {
		out.Previous = pageURL(r, p.Number-1)
	}
	return out, nil
}

func pageURL(r *http.Request, n int) *string {
	u := url.URL{Scheme: "http", Host: r.Host, Path: r.URL.Path}
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}
	q := r.URL.Query()
	if n == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}
