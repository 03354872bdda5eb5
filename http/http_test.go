package http

import (
	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"go-sol-display/exchange"
	"go-sol-display/rates"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServer_ServeHTTP(t *testing.T) {
	service := exchange.NewService(rates.NewStaticService(), nil)
	service = exchange.NewLoggingService(log.NewNopLogger(), service)

	server := NewServer(service)

	w := httptest.NewRecorder()
	msg := `{"fromCurrency":"SOL", "toCurrency":"USD","amount":2.0}`
	r := httptest.NewRequest("POST", "/api/convert", strings.NewReader(msg))

	server.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, `{"exchange":156,"amount":312,"original":2}`, strings.TrimSpace(w.Body.String()))

	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/contribution?amount=50&currency=USDC", nil)

	server.ServeHTTP(w, r)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, `{"primary":"$50.00","secondary":"50.00 USDC"}`, strings.TrimSpace(w.Body.String()))

	w = httptest.NewRecorder()
	r = httptest.NewRequest("POST", "/api/convert", strings.NewReader(`{"fromCurrency":"SOL","toCurrency":"EUR","amount":1}`))

	server.ServeHTTP(w, r)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, `{"error":"failed conversion"}`, strings.TrimSpace(w.Body.String()))

	w = httptest.NewRecorder()
	r = httptest.NewRequest("POST", "/api/convert", strings.NewReader(`{"fromCurrency":"SOL","toCurrency":"USD","amount":1e307}`))

	server.ServeHTTP(w, r)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, `{"error":"failed conversion"}`, strings.TrimSpace(w.Body.String()))

	w = httptest.NewRecorder()
	r = httptest.NewRequest("GET", "/api/contribution?amount=1e307&currency=SOL", nil)

	server.ServeHTTP(w, r)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, `{"error":"failed formatting"}`, strings.TrimSpace(w.Body.String()))
}
