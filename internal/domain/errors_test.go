package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"portals_watcher/internal/domain"
	"portals_watcher/pkg/errcodes"
)

func TestAppError(t *testing.T) {
	rq := require.New(t)

	cause := errors.New("database is locked")
	err := fmt.Errorf("repo.Add: %w", domain.WrapError(cause, errcodes.InternalServerError, "failed to upsert"))

	rq.True(domain.IsAppError(err))
	rq.ErrorIs(err, cause)
	rq.EqualError(err, "repo.Add: failed to upsert: database is locked")

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InternalServerError, code)

	plain := domain.NewError(errcodes.InvalidThreshold, "bad threshold")
	rq.EqualError(plain, "bad threshold")
	rq.Equal(errcodes.InvalidThreshold, plain.ErrorCode())

	_, ok = domain.GetCode(cause)
	rq.False(ok)
	rq.False(domain.IsAppError(cause))
}
