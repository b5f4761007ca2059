package req

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"portals_watcher/pkg/errcodes"
)

const maxBodyBytes = 1 << 20

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

// Error — ошибка разбора запроса, отдаётся клиенту как ValidationError.
type Error struct {
	description string
	cause       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.description, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) ErrorCode() errcodes.ErrorCode {
	return errcodes.ValidationError
}

func Read(r *http.Request, dest any) error {
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(dest); err != nil {
		return &Error{description: "invalid JSON", cause: err}
	}

	if err := validate.StructCtx(r.Context(), dest); err != nil {
		return &Error{description: "validation error", cause: err}
	}

	return nil
}
