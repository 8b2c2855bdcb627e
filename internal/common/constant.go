package common

// Metadata keys carrying credentials on outbound gRPC requests.
const (
	AccessTokenHeaderName  = "access_token"
	RefreshTokenHeaderName = "refresh_token"
)

// MaxTweetLength is the upper bound on tweet text, in characters.
const MaxTweetLength = 240
