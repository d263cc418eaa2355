package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/carematch/binder"
)

const (
	// DataStarAcceptHeader is the Accept header value that indicates a DataStar request
	DataStarAcceptHeader = "text/event-stream"

	// DataStarQueryParam is the query parameter used by DataStar for signals
	DataStarQueryParam = "datastar"
)

// IsDataStar checks if the request is a DataStar request.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}

	if r.URL.Query().Has(DataStarQueryParam) {
		return true
	}

	return strings.Contains(r.Header.Get("Content-Type"), "application/x-datastar")
}

// NewSSE creates a Server-Sent Event generator for DataStar responses.
func NewSSE(w http.ResponseWriter, r *http.Request) *datastar.ServerSentEventGenerator {
	return datastar.NewSSE(w, r)
}

// ReadSignals decodes the DataStar signals of r into v.
func ReadSignals(r *http.Request, v any) error {
	return datastar.ReadSignals(r, v)
}

type signalsResponse struct {
	signals any
}

func (s signalsResponse) Render(w http.ResponseWriter, r *http.Request) error {
	if !IsDataStar(r) {
		return ErrNotDataStar
	}

	data, err := json.Marshal(s.signals)
	if err != nil {
		return err
	}

	return NewSSE(w, r).PatchSignals(data)
}

// Signals creates a response that patches the given signals over SSE.
// The value is marshalled to a JSON object; nested objects merge into the
// client's signal tree.
func Signals(v any) Response {
	return signalsResponse{signals: v}
}

// SignalsBinder binds DataStar signals into the request struct.
// Plain requests are skipped so JSON or form binders can run instead.
func SignalsBinder() Bind {
	return func(r *http.Request, v any) error {
		if !IsDataStar(r) {
			return binder.ErrNotApplicable
		}
		if err := ReadSignals(r, v); err != nil {
			return fmt.Errorf("%w: signals: %v", binder.ErrInvalidJSON, err)
		}
		return nil
	}
}
