// Package recoverylink parses password-recovery credentials out of redirect
// URLs. Backends deliver them in several historical shapes: an exchange code
// in the query, an access/refresh token pair in the fragment, or a legacy
// one-time token plus email. Parse unifies them behind a single
// priority-ordered contract.
package recoverylink

import (
	"errors"
	"net/url"
	"strings"
)

// Kind identifies which recovery strategy the link carries.
type Kind string

const (
	// KindCode means the link carries an exchange code to swap for a session.
	KindCode Kind = "code"
	// KindTokenPair means the link carries recovery access/refresh tokens.
	KindTokenPair Kind = "token_pair"
	// KindOneTimeToken means the link carries a legacy one-time token + email.
	KindOneTimeToken Kind = "one_time_token"
)

// TypeRecovery is the marker value backends attach to recovery links.
const TypeRecovery = "recovery"

// ErrNoRecoveryParams indicates the URL carried none of the supported
// recovery parameter shapes.
var ErrNoRecoveryParams = errors.New("recoverylink: no recovery parameters in url")

// Credentials holds the extracted recovery material. Only the fields for the
// reported Kind are populated.
type Credentials struct {
	Kind         Kind
	Code         string
	AccessToken  string
	RefreshToken string
	Token        string
	Email        string
	Type         string
}

// Parse extracts recovery credentials from a raw URL, checking the query
// string and the fragment. Strategies are tried in priority order: exchange
// code, recovery token pair, one-time token + email. The first match wins;
// later shapes present on the same URL are ignored.
func Parse(raw string) (*Credentials, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	query := parsed.Query()
	fragment := parseFragment(parsed.Fragment)

	pick := func(key string) string {
		if v := fragment.Get(key); v != "" {
			return v
		}
		return query.Get(key)
	}

	if code := query.Get("code"); code != "" {
		return &Credentials{Kind: KindCode, Code: code}, nil
	}

	linkType := pick("type")
	access := pick("access_token")
	refresh := pick("refresh_token")
	if linkType == TypeRecovery && access != "" && refresh != "" {
		return &Credentials{
			Kind:         KindTokenPair,
			AccessToken:  access,
			RefreshToken: refresh,
			Type:         linkType,
		}, nil
	}

	token := pick("token")
	if token == "" {
		token = pick("token_hash")
	}
	email := pick("email")
	if token != "" && email != "" {
		return &Credentials{
			Kind:  KindOneTimeToken,
			Token: token,
			Email: email,
			Type:  TypeRecovery,
		}, nil
	}

	return nil, ErrNoRecoveryParams
}

// Strip returns the URL with every recovery parameter removed from the query
// and the fragment dropped, so tokens never stay navigable or bookmarkable.
// The path and any unrelated query parameters are preserved.
func Strip(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	for _, key := range []string{"code", "token", "token_hash", "email", "type", "access_token", "refresh_token"} {
		query.Del(key)
	}
	parsed.RawQuery = query.Encode()
	parsed.Fragment = ""
	parsed.RawFragment = ""
	return parsed.String(), nil
}

// parseFragment reads "#access_token=X&refresh_token=Y" style fragments as
// URL values. Malformed fragments degrade to an empty set.
func parseFragment(fragment string) url.Values {
	fragment = strings.TrimPrefix(fragment, "#")
	if fragment == "" {
		return url.Values{}
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return url.Values{}
	}
	return values
}
