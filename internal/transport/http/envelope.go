package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"quizhub-service/internal/domain"

	"go.uber.org/zap"
)

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

type table[T any] struct {
	Table []T `json:"table"`
}

func newTable[T any](rows []T) table[T] {
	if rows == nil {
		rows = []T{}
	}
	return table[T]{Table: rows}
}

// writeJSON always answers 200; failures travel in the envelope.
func writeJSON(w http.ResponseWriter, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) ok(w http.ResponseWriter, data any) {
	writeJSON(w, envelope{Success: true, Data: data})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	de := domain.AsError(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.String("kind", de.Kind.String()),
		zap.String("message", de.Message),
	}
	if de.Kind == domain.KindInternal {
		h.logger.Error("request failed", append(fields, zap.Error(de.Err))...)
	} else {
		h.logger.Info("request rejected", fields...)
	}
	writeJSON(w, envelope{Success: false, Error: &errorBody{Message: de.Message}})
}

// decode reads a JSON body into dst. An empty body is treated as {}.
func decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return domain.Validation(domain.MsgInvalidBody)
}

// looseInt accepts JSON numbers and numeric strings; blanks and null decode to 0.
type looseInt int64

func (n *looseInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*n = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
		if s == "" {
			*n = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	if f != float64(int64(f)) {
		return errors.New("not an integer")
	}
	*n = looseInt(f)
	return nil
}
