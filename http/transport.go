package http

import (
	"encoding/json"
	"errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go-sol-display"
	"go-sol-display/exchange"
	"go-sol-display/format"
	"io"
	"net/http"
	"strconv"
)

// Server dependencies for HTTP Server functions
type Server struct {
	Service exchange.Service
	router  chi.Router
}

func NewServer(s exchange.Service) *Server {
	server := &Server{
		Service: s,
		router:  chi.NewRouter(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID, middleware.Recoverer)

	s.router.Get("/healthz", s.health())
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/convert", s.convert())
		r.Get("/contribution", s.contribution())
		r.Get("/format", s.formatAmount())
		r.Get("/drift", s.drift())
	})
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

func (s *Server) health() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients
	type request struct {
		FromCurrency display.Currency
		ToCurrency   display.Currency
		Amount       display.Amount
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		Exchange display.Rate   `json:"exchange"`
		Amount   display.Amount `json:"amount"`
		Original display.Amount `json:"original"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		bytes, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid request")
			return
		}

		var request request
		err = json.Unmarshal(bytes, &request)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid json")
			return
		}

		result, err := s.Service.Convert(r.Context(), request.Amount, request.FromCurrency, request.ToCurrency)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "failed conversion")
			return
		}

		writeJSON(rw, http.StatusOK, response{
			Exchange: result.Rate,
			Amount:   result.Amount,
			Original: request.Amount,
		})
	}
}

// contribution renders ?amount=&currency= as a primary and secondary line
func (s *Server) contribution() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		amount, err := parseAmount(r.URL.Query().Get("amount"))
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid amount")
			return
		}
		currency, err := display.ParseCurrency(r.URL.Query().Get("currency"))
		if err != nil {
			writeError(rw, http.StatusBadRequest, "unknown currency")
			return
		}

		result, err := s.Service.Contribution(r.Context(), amount, currency)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "failed formatting")
			return
		}
		writeJSON(rw, http.StatusOK, result)
	}
}

// formatAmount renders a single amount; style is compact (default), precise or sol
func (s *Server) formatAmount() http.HandlerFunc {
	type response struct {
		Text string `json:"text"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		amount, err := parseAmount(r.URL.Query().Get("amount"))
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid amount")
			return
		}

		var text string
		switch r.URL.Query().Get("style") {
		case "", "compact":
			text = format.FormatCurrency(amount)
		case "precise":
			text = format.FormatCurrencyPrecise(amount)
		case "sol":
			text = format.FormatSol(amount)
		default:
			writeError(rw, http.StatusBadRequest, "unknown style")
			return
		}
		writeJSON(rw, http.StatusOK, response{Text: text})
	}
}

// drift reports the static rate against the market reference
func (s *Server) drift() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		currency := display.NativeAsset
		if q := r.URL.Query().Get("currency"); q != "" {
			c, err := display.ParseCurrency(q)
			if err != nil {
				writeError(rw, http.StatusBadRequest, "unknown currency")
				return
			}
			currency = c
		}

		result, err := s.Service.Drift(r.Context(), currency)
		switch {
		case errors.Is(err, display.ErrNoReference):
			writeError(rw, http.StatusNotImplemented, "reference rates disabled")
			return
		case err != nil:
			writeError(rw, http.StatusBadGateway, "reference rates unavailable")
			return
		}
		writeJSON(rw, http.StatusOK, result)
	}
}

func parseAmount(s string) (display.Amount, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	amount := display.Amount(f)
	return amount, amount.Validate()
}

// writeJSON encodes v before any header is written, so an encoding failure can still answer 500
func writeJSON(rw http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed json encoding"}`)
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_, _ = rw.Write(append(body, '\n'))
}

func writeError(rw http.ResponseWriter, status int, msg string) {
	writeJSON(rw, status, map[string]string{"error": msg})
}
