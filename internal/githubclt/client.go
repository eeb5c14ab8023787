// Package githubclt provides a github API client.
package githubclt

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/go-github/v43/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/simplesurance/backporter/internal/bperr"
	"github.com/simplesurance/backporter/internal/logfields"
)

const DefaultHTTPClientTimeout = time.Minute

const loggerName = "github_client"

// New returns a new github api client.
func New(oauthAPItoken string) *Client {
	httpClient := newHTTPClient(oauthAPItoken)
	return &Client{
		restClt:    github.NewClient(httpClient),
		graphQLClt: githubv4.NewClient(httpClient),
		logger:     zap.L().Named(loggerName),
	}
}

func newHTTPClient(apiToken string) *http.Client {
	if apiToken == "" {
		return &http.Client{
			Timeout: DefaultHTTPClientTimeout,
		}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: apiToken},
	)

	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultHTTPClientTimeout

	return tc
}

// Client is an github API client.
// All methods return a bperr.RetryableError when an operation can be retried.
// This can be e.g. the case when the API ratelimit is exceeded.
type Client struct {
	restClt    *github.Client
	graphQLClt *githubv4.Client
	logger     *zap.Logger
}

// User is a GitHub user account.
type User struct {
	ID    int64
	Login string
	Name  string
}

// NoReplyEmail returns the email address that GitHub associates with the
// account when the user hides the real address.
func (u *User) NoReplyEmail() string {
	return strconv.FormatInt(u.ID, 10) + "+" + u.Login + "@users.noreply.github.com"
}

// AuthenticatedUser returns the user that owns the API token.
func (clt *Client) AuthenticatedUser(ctx context.Context) (*User, error) {
	user, _, err := clt.restClt.Users.Get(ctx, "")
	if err != nil {
		return nil, clt.wrapRetryableErrors(err)
	}

	name := user.GetName()
	if name == "" {
		name = user.GetLogin()
	}

	return &User{
		ID:    user.GetID(),
		Login: user.GetLogin(),
		Name:  name,
	}, nil
}

func (clt *Client) wrapRetryableErrors(err error) error {
	switch v := err.(type) {
	case *github.RateLimitError:
		clt.logger.Info(
			"rate limit exceeded",
			logfields.Event("github_api_rate_limit_exceeded"),
			zap.Int("github_api_rate_limit", v.Rate.Limit),
			zap.Time("github_api_rate_limit_reset_time", v.Rate.Reset.Time),
		)

		return bperr.NewRetryableError(err, v.Rate.Reset.Time)

	case *github.AbuseRateLimitError:
		if v.RetryAfter != nil {
			return bperr.NewRetryableError(err, time.Now().Add(*v.RetryAfter))
		}

		return bperr.NewRetryableAnytimeError(err)

	case *github.ErrorResponse:
		if v.Response.StatusCode >= 500 && v.Response.StatusCode < 600 {
			return bperr.NewRetryableAnytimeError(err)
		}
	}

	return err
}

var graphQlHTTPStatusErrRe = regexp.MustCompile(`^non-200 OK status code: ([0-9]+) .*`)

// wrapGraphQLError converts an error returned by the GraphQL client to a
// QueryError. Errors for 5xx HTTP responses are additionally wrapped in a
// bperr.RetryableError.
func (clt *Client) wrapGraphQLError(op string, err error) error {
	queryErr := QueryError{Op: op, Err: err}

	matches := graphQlHTTPStatusErrRe.FindStringSubmatch(err.Error())
	if len(matches) == 2 {
		errcode, atoiErr := strconv.Atoi(matches[1])
		if atoiErr != nil {
			clt.logger.Info(
				"parsing http code from error string failed",
				zap.Error(atoiErr),
				zap.String("error_string", err.Error()),
				zap.String("http_errcode", matches[1]),
			)
		}

		queryErr.HTTPStatus = errcode
	}

	if queryErr.HTTPStatus >= 500 && queryErr.HTTPStatus < 600 {
		return bperr.NewRetryableAnytimeError(&queryErr)
	}

	return &queryErr
}
