package account

import (
	"context"
	"fmt"

	"github.com/sportmed/trainingmonitor/internal/rest"
	"github.com/sportmed/trainingmonitor/internal/telemetry/tracing"
)

const prefixPath = "/account"

// Service talks to the /account resource group.
type Service struct {
	client *rest.Client
}

func NewService(client *rest.Client) *Service {
	return &Service{client: client}
}

// Auth exchanges credentials for a bearer token and the caller's role id.
// This is the one unauthorized POST in the API.
func (s *Service) Auth(ctx context.Context, username, password string) (_ *Login, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accountService.auth")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	credentials := map[string]string{
		"username": username,
		"password": password,
	}

	var login Login
	if err := s.client.Post(ctx, prefixPath+"/auth", credentials, false, &login); err != nil {
		return nil, err
	}
	return &login, nil
}

// VerifyToken checks whether the currently set token is still accepted by
// the server. Called at startup to validate a persisted session.
func (s *Service) VerifyToken(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accountService.verifyToken")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp map[string]string
	return s.client.Get(ctx, prefixPath+"/auth/verifyToken", "", true, &resp)
}

func (s *Service) PostAccount(ctx context.Context, req PostRequest) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accountService.postAccount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Post(ctx, prefixPath, req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) PatchAccount(ctx context.Context, req PatchRequest) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accountService.patchAccount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Patch(ctx, prefixPath, req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) DeleteAccount(ctx context.Context, id int) (_ *PostResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "accountService.deleteAccount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var resp PostResponse
	if err := s.client.Delete(ctx, prefixPath, fmt.Sprintf("id=%d", id), true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
