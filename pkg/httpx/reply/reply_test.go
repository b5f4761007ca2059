package reply_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"portals_watcher/pkg/contextx"
	"portals_watcher/pkg/errcodes"
	"portals_watcher/pkg/httpx/reply"
)

type codedError struct {
	code errcodes.ErrorCode
}

func (e codedError) Error() string                { return "coded: " + e.code.String() }
func (e codedError) ErrorCode() errcodes.ErrorCode { return e.code }

type response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "validation",
			err:         fmt.Errorf("svc: %w", codedError{code: errcodes.InvalidThreshold}),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "InvalidThreshold",
			wantMessage: "svc: coded: InvalidThreshold",
		},
		{
			name:       "not found",
			err:        codedError{code: errcodes.SubscriptionNotFound},
			wantStatus: http.StatusNotFound,
			wantCode:   "SubscriptionNotFound",
		},
		{
			name:       "unauthorized",
			err:        codedError{code: errcodes.Unauthorized},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "Unauthorized",
		},
		{
			name:        "plain error hides details",
			err:         errors.New("sql: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "InternalServerError",
			wantMessage: "Internal Server Error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			ctx := contextx.WithTraceID(context.Background(), "trace-1")
			w := httptest.NewRecorder()

			reply.Error(ctx, w, tc.err)

			rq.Equal(tc.wantStatus, w.Code)
			rq.Contains(w.Header().Get("Content-Type"), "application/json")

			var got response
			rq.NoError(jsoniter.Unmarshal(w.Body.Bytes(), &got))
			rq.Equal(tc.wantCode, got.Code)
			rq.Equal("trace-1", got.SupportID)

			if tc.wantMessage != "" {
				rq.Equal(tc.wantMessage, got.Message)
			}
		})
	}
}

func TestError_NoTraceID(t *testing.T) {
	rq := require.New(t)

	w := httptest.NewRecorder()
	reply.Error(context.Background(), w, errors.New("boom"))

	var got response
	rq.NoError(jsoniter.Unmarshal(w.Body.Bytes(), &got))
	rq.Equal("unsupported", got.SupportID)
}
