package server

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/KaramelBytes/boxoffice-cli/internal/analysis"
	"github.com/KaramelBytes/boxoffice-cli/internal/filter"
	"github.com/KaramelBytes/boxoffice-cli/internal/movies"
)

// ParseCriteria builds filter criteria from query parameters:
//
//	genre (repeatable or comma separated), year_min, year_max,
//	profit_min, profit_max, budget_min, budget_max, roi, studio,
//	video_format, with_video_sales
//
// A range is active when either bound is given; the missing bound is open.
func ParseCriteria(q url.Values) (filter.Criteria, error) {
	var c filter.Criteria
	for _, g := range q["genre"] {
		for _, part := range strings.Split(g, ",") {
			if part = strings.TrimSpace(part); part != "" {
				c.Genres = append(c.Genres, part)
			}
		}
	}

	yLo, yHi, ok, err := intBounds(q, "year_min", "year_max")
	if err != nil {
		return c, err
	}
	if ok {
		c.Years = &filter.IntRange{Min: yLo, Max: yHi}
	}
	if c.Profit, err = floatRange(q, "profit_min", "profit_max"); err != nil {
		return c, err
	}
	if c.Budget, err = floatRange(q, "budget_min", "budget_max"); err != nil {
		return c, err
	}

	c.ROI = filter.ROICategory(strings.ToLower(q.Get("roi")))
	c.Studio = strings.TrimSpace(q.Get("studio"))
	c.VideoFormat = filter.VideoFormat(strings.ToLower(q.Get("video_format")))
	if v := q.Get("with_video_sales"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("with_video_sales: %q is not a boolean", v)
		}
		c.WithVideoSales = b
	}
	return c, filter.Validate(c)
}

func intBounds(q url.Values, minKey, maxKey string) (lo, hi int, ok bool, err error) {
	lo, hi = math.MinInt32, math.MaxInt32
	if v := q.Get(minKey); v != "" {
		if lo, err = strconv.Atoi(v); err != nil {
			return 0, 0, false, fmt.Errorf("%s: %q is not an integer", minKey, v)
		}
		ok = true
	}
	if v := q.Get(maxKey); v != "" {
		if hi, err = strconv.Atoi(v); err != nil {
			return 0, 0, false, fmt.Errorf("%s: %q is not an integer", maxKey, v)
		}
		ok = true
	}
	return lo, hi, ok, nil
}

func floatRange(q url.Values, minKey, maxKey string) (*filter.Range, error) {
	r := filter.Range{Min: math.Inf(-1), Max: math.Inf(1)}
	set := false
	for _, b := range []struct {
		key string
		dst *float64
	}{{minKey, &r.Min}, {maxKey, &r.Max}} {
		v := q.Get(b.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			return nil, fmt.Errorf("%s: %q is not a number", b.key, v)
		}
		*b.dst = f
		set = true
	}
	if !set {
		return nil, nil
	}
	return &r, nil
}

// page reads page (zero-based) and page_size, falling back to def.
func page(q url.Values, def int) (page, size int, err error) {
	size = def
	if v := q.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil || page < 0 {
			return 0, 0, fmt.Errorf("page: %q is not a non-negative integer", v)
		}
	}
	if v := q.Get("page_size"); v != "" {
		if size, err = strconv.Atoi(v); err != nil || size <= 0 {
			return 0, 0, fmt.Errorf("page_size: %q is not a positive integer", v)
		}
	}
	return page, size, nil
}

// rankParams reads field (header or alias, default worldwide gross), n
// (default def) and order (desc or asc).
func rankParams(q url.Values, def int) (movies.Field, int, analysis.Direction, error) {
	field := movies.WorldwideGross
	if v := q.Get("field"); v != "" {
		f, ok := movies.ParseField(v)
		if !ok {
			return 0, 0, 0, fmt.Errorf("field: unknown field %q", v)
		}
		field = f
	}
	n := def
	if n <= 0 {
		n = 10
	}
	if v := q.Get("n"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n <= 0 {
			return 0, 0, 0, fmt.Errorf("n: %q is not a positive integer", v)
		}
	}
	dir := analysis.Descending
	switch strings.ToLower(q.Get("order")) {
	case "", "desc":
	case "asc":
		dir = analysis.Ascending
	default:
		return 0, 0, 0, fmt.Errorf("order: %q is not asc or desc", q.Get("order"))
	}
	return field, n, dir, nil
}
