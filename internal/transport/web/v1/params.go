package v1

import (
	"net/http"
	"strconv"
)

// QueryInt64 — числовой query-параметр; мусор и отсутствие — def.
func QueryInt64(r *http.Request, name string, def int64) int64 {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return n
}

// PathInt64 — числовой сегмент пути из паттерна ServeMux ("{id}").
func PathInt64(r *http.Request, name string) (int64, bool) {
	n, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Page нормализует номер страницы: всё, что меньше единицы, — первая.
func Page(r *http.Request) int64 {
	p := QueryInt64(r, "page", 1)
	if p < 1 {
		p = 1
	}
	return p
}
