package session

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Credential is an authkey handed out by the API together with its absolute
// expiry. It is a value: a refresh produces a new Credential.
type Credential struct {
	Token   string
	Expires time.Time
}

// ExpiresIn returns the time left until the credential expires, relative to now.
// It is negative once the expiry has passed.
func (c Credential) ExpiresIn(now time.Time) time.Duration {
	return c.Expires.Sub(now)
}

// Expired reports whether the credential's expiry is at or before now.
func (c Credential) Expired(now time.Time) bool {
	return !c.Expires.After(now)
}

// credentialFromBody extracts {authkey, expires} from a decoded response body.
func credentialFromBody(body map[string]interface{}) (Credential, error) {
	if body == nil {
		return Credential{}, fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}

	token, ok := body["authkey"].(string)
	if !ok || token == "" {
		return Credential{}, fmt.Errorf("%w: missing authkey", ErrMalformedResponse)
	}

	expires, ok := intField(body, "expires")
	if !ok {
		return Credential{}, fmt.Errorf("%w: missing or invalid expires", ErrMalformedResponse)
	}

	return Credential{Token: token, Expires: time.Unix(expires, 0)}, nil
}

// intField reads an integral JSON number from body. Bodies are decoded with
// UseNumber, so values arrive as json.Number.
func intField(body map[string]interface{}, key string) (int64, bool) {
	switch v := body[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case float64:
		return floatToInt(v)
	default:
		return 0, false
	}
}

// floatToInt accepts whole numbers that fit in an int64. 2^63 itself is
// representable as a float64 but not as an int64, hence the open upper bound.
func floatToInt(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
