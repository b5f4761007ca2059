package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	tu "github.com/mymmrac/telego/telegoutil"

	"portals_watcher/internal/domain"
	"portals_watcher/pkg/contextx"
	"portals_watcher/pkg/errcodes"
	"portals_watcher/pkg/httpx/reply"
	"portals_watcher/pkg/logx"
)

const (
	authScheme            = "tma"
	DefaultInitDataMaxAge = 24 * time.Hour
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

//nolint:gochecknoglobals
var (
	errUnauthorized         = domain.NewError(errcodes.Unauthorized, "invalid or missing Telegram init data")
	errSubscriptionNotFound = domain.NewError(errcodes.SubscriptionNotFound, "subscription not found")
)

// WebAppAuth проверяет подпись initData Telegram WebApp из заголовка
// "Authorization: tma <initData>" и кладёт id пользователя в контекст.
type WebAppAuth struct {
	botToken string
	maxAge   time.Duration
	now      func() time.Time
}

func NewWebAppAuth(botToken string, maxAge time.Duration) WebAppAuth {
	if maxAge <= 0 {
		maxAge = DefaultInitDataMaxAge
	}

	return WebAppAuth{
		botToken: botToken,
		maxAge:   maxAge,
		now:      time.Now,
	}
}

func (a WebAppAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := a.authenticate(r.Header.Get("Authorization"))
		if err != nil {
			logger(ctx).Warn("webapp auth failed", logx.Error(err))
			reply.Error(ctx, w, errUnauthorized)
			return
		}

		ctx = contextx.WithUserID(ctx, contextx.UserID(strconv.FormatInt(userID, 10)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a WebAppAuth) authenticate(header string) (int64, error) {
	scheme, initData, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, authScheme) || initData == "" {
		return 0, fmt.Errorf("missing %s authorization", authScheme)
	}

	values, err := tu.ValidateWebAppData(a.botToken, initData)
	if err != nil {
		return 0, fmt.Errorf("tu.ValidateWebAppData: %w", err)
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid auth_date: %w", err)
	}

	if a.now().Sub(time.Unix(authDate, 0)) > a.maxAge {
		return 0, fmt.Errorf("init data expired")
	}

	var user struct {
		ID int64 `json:"id"`
	}

	if err := json.Unmarshal([]byte(values.Get("user")), &user); err != nil {
		return 0, fmt.Errorf("json.Unmarshal(user): %w", err)
	}

	if user.ID == 0 {
		return 0, fmt.Errorf("init data has no user")
	}

	return user.ID, nil
}

func userIDFromContext(ctx context.Context) (int64, error) {
	raw, err := contextx.UserIDFromContext(ctx)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.Unauthorized, "user is not authenticated")
	}

	userID, err := strconv.ParseInt(raw.String(), 10, 64)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InvalidUserID, "invalid user id")
	}

	return userID, nil
}
