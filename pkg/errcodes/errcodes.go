package errcodes

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

const (
	InternalServerError ErrorCode = "InternalServerError"
	TimeoutExceeded     ErrorCode = "TimeoutExceeded"
	Unauthorized        ErrorCode = "Unauthorized"
	Forbidden           ErrorCode = "Forbidden"
	ValidationError     ErrorCode = "ValidationError"
	NotFound            ErrorCode = "NotFound"

	InvalidUserID     ErrorCode = "InvalidUserID"
	InvalidCollection ErrorCode = "InvalidCollection"
	InvalidThreshold  ErrorCode = "InvalidThreshold"

	SubscriptionNotFound ErrorCode = "SubscriptionNotFound"
	MarketUnavailable    ErrorCode = "MarketUnavailable"
	DeliveryFailed       ErrorCode = "DeliveryFailed"
)
