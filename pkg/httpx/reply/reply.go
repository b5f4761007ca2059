package reply

import (
	"context"
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"portals_watcher/pkg/contextx"
	"portals_watcher/pkg/errcodes"
	"portals_watcher/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}

func (e *errorResponse) WithDefaultCode(code errcodes.ErrorCode) {
	if e.Code == "" {
		e.Code = code.String()
	}
}

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func OK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}

func Created(w http.ResponseWriter) {
	w.WriteHeader(http.StatusCreated)
}

func JSON(ctx context.Context, w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger(ctx).Error("json.Encode", logx.Error(err))
	}
}

// Error отвечает JSON-ошибкой. Код берётся из ошибки, если она его несёт;
// текст раскрывается клиенту только для ошибок запроса.
func Error(ctx context.Context, w http.ResponseWriter, err error) {
	code := codeOf(err)

	response := errorResponse{
		Code:      code.String(),
		SupportID: supportID(ctx),
	}

	status := statusOf(code)
	if status < http.StatusInternalServerError {
		logger(ctx).Warn("request error", logx.Error(err))
		response.Message = err.Error()
	} else {
		logger(ctx).Error("error", logx.Error(err))
		response.WithDefaultCode(errcodes.InternalServerError)
		response.Message = http.StatusText(status)
	}

	JSON(ctx, w, status, response)
}

type coder interface {
	ErrorCode() errcodes.ErrorCode
}

func codeOf(err error) errcodes.ErrorCode {
	var c coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return errcodes.InternalServerError
}

func statusOf(code errcodes.ErrorCode) int {
	switch code {
	case errcodes.ValidationError, errcodes.InvalidUserID, errcodes.InvalidCollection, errcodes.InvalidThreshold:
		return http.StatusBadRequest
	case errcodes.NotFound, errcodes.SubscriptionNotFound:
		return http.StatusNotFound
	case errcodes.Unauthorized:
		return http.StatusUnauthorized
	case errcodes.Forbidden:
		return http.StatusForbidden
	case errcodes.TimeoutExceeded:
		return http.StatusGatewayTimeout
	case errcodes.MarketUnavailable, errcodes.DeliveryFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func supportID(ctx context.Context) string {
	traceID, err := contextx.TraceIDFromContext(ctx)
	if err != nil {
		return "unsupported"
	}

	return traceID.String()
}
