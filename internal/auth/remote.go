package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

// RemoteAuthorizer delegates permission checks to a host authorization
// service. Transient failures are retried with exponential backoff; a check
// that still fails is answered with a deny, since capability checks are
// booleans rather than errors.
type RemoteAuthorizer struct {
	client     *resty.Client
	maxRetries uint64
}

// NewRemoteAuthorizer creates a client for the authorization service at
// baseURL.
func NewRemoteAuthorizer(baseURL, apiKey string) *RemoteAuthorizer {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	if apiKey != "" {
		c.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &RemoteAuthorizer{client: c, maxRetries: 3}
}

type allowedRequest struct {
	Actor      string `json:"actor"`
	Permission string `json:"permission,omitempty"`

	FromStatus  string `json:"fromStatus,omitempty"`
	ToStatus    string `json:"toStatus,omitempty"`
	ContentType string `json:"contenttype,omitempty"`
	ContentID   string `json:"contentId,omitempty"`
}

type allowedResponse struct {
	Allowed bool `json:"allowed"`
}

// IsAllowed implements Authorizer.
func (a *RemoteAuthorizer) IsAllowed(ctx context.Context, permission string) bool {
	actor := ActorFrom(ctx)
	if actor == nil {
		return false
	}
	return a.ask(ctx, "/v1/allowed", allowedRequest{Actor: actor.UserID, Permission: permission})
}

// IsStatusTransitionAllowed implements Authorizer.
func (a *RemoteAuthorizer) IsStatusTransitionAllowed(ctx context.Context, from, to, contentType, id string) bool {
	actor := ActorFrom(ctx)
	if actor == nil {
		return false
	}
	return a.ask(ctx, "/v1/transitions", allowedRequest{
		Actor:       actor.UserID,
		FromStatus:  from,
		ToStatus:    to,
		ContentType: contentType,
		ContentID:   id,
	})
}

func (a *RemoteAuthorizer) ask(ctx context.Context, path string, req allowedRequest) bool {
	var out allowedResponse
	op := func() error {
		resp, err := a.client.R().
			SetContext(ctx).
			SetBody(req).
			SetResult(&out).
			Post(path)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("authorization service status %d", resp.StatusCode())
		}
		return nil
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = 100 * time.Millisecond
	exp.MaxInterval = 2 * time.Second
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(exp, a.maxRetries), ctx)); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("authorization check failed, denying")
		return false
	}
	return out.Allowed
}
