package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/solvesync/internal/dto"
	"github.com/noah-isme/solvesync/internal/handler"
	"github.com/noah-isme/solvesync/internal/service"
	"github.com/noah-isme/solvesync/internal/utils"
)

type mockConfigService struct {
	saved    dto.RepoConfigRequest
	response dto.RepoConfigResponse
	err      error
}

func (m *mockConfigService) Get(context.Context) (dto.RepoConfigResponse, error) {
	return m.response, m.err
}

func (m *mockConfigService) Save(_ context.Context, req dto.RepoConfigRequest) (dto.RepoConfigResponse, error) {
	m.saved = req
	return m.response, m.err
}

func newConfigApp(svc service.ConfigService) *fiber.App {
	app := fiber.New()
	handler.NewConfigHandler(svc, zerolog.Nop()).Register(app.Group("/api/v1/config"))
	return app
}

func TestConfigHandler_Get(t *testing.T) {
	svc := &mockConfigService{response: dto.RepoConfigResponse{Owner: "noah", Repo: "solutions", Token: "********abcd", HasToken: true}}

	resp, err := newConfigApp(svc).Test(httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body envelope[dto.RepoConfigResponse]
	decodeResponse(t, resp, &body)
	require.Equal(t, "solutions", body.Data.Repo)
	require.Equal(t, "********abcd", body.Data.Token)
	require.True(t, body.Data.HasToken)
}

func TestConfigHandler_GetNotConfigured(t *testing.T) {
	resp, err := newConfigApp(&mockConfigService{err: service.ErrRepoNotConfigured}).Test(httptest.NewRequest(http.MethodGet, "/api/v1/config", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestConfigHandler_Save(t *testing.T) {
	svc := &mockConfigService{response: dto.RepoConfigResponse{Owner: "noah", Repo: "solutions", Branch: "main"}}

	resp, err := newConfigApp(svc).Test(jsonRequest(t, http.MethodPut, "/api/v1/config", dto.RepoConfigRequest{Owner: "noah", Repo: "solutions", Branch: "main", Token: "ghp_secret"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "ghp_secret", svc.saved.Token)
	require.Equal(t, "main", svc.saved.Branch)
}

func TestConfigHandler_SaveRejectsInvalidInput(t *testing.T) {
	validationErr := utils.NewValidator().Struct(dto.RepoConfigRequest{Repo: "solutions"})

	resp, err := newConfigApp(&mockConfigService{err: validationErr}).Test(jsonRequest(t, http.MethodPut, "/api/v1/config", dto.RepoConfigRequest{Repo: "solutions"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body envelope[any]
	decodeResponse(t, resp, &body)
	require.Equal(t, "required", body.Errors["owner"])

	templateErr := fmt.Errorf("%w: {author}", service.ErrInvalidTemplate)
	resp, err = newConfigApp(&mockConfigService{err: templateErr}).Test(jsonRequest(t, http.MethodPut, "/api/v1/config", dto.RepoConfigRequest{Owner: "noah", Repo: "solutions", PathTemplate: "{author}/x"}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
