package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Yudzxml/PANELSV2/internal/cache"
	"github.com/Yudzxml/PANELSV2/internal/core/model"
	"github.com/Yudzxml/PANELSV2/internal/core/repository"
	"github.com/Yudzxml/PANELSV2/internal/core/service"
	"github.com/Yudzxml/PANELSV2/internal/provision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvisioner struct {
	healthErr error
}

func (s *stubProvisioner) CreatePanel(_ context.Context, _ int, username, _ string) (*provision.PanelRecord, error) {
	return &provision.PanelRecord{ServerID: 101, UserID: 7, Username: username}, nil
}

func (s *stubProvisioner) DeletePanel(context.Context, int64, int64) error {
	return nil
}

func (s *stubProvisioner) Health(context.Context) (*provision.HealthStatus, error) {
	if s.healthErr != nil {
		return nil, s.healthErr
	}
	return &provision.HealthStatus{Active: true, Maintenance: false}, nil
}

type routerFixture struct {
	handler  http.Handler
	userRepo repository.UserRepository
	stub     *stubProvisioner
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	userRepo := repository.NewInMemoryUserRepository()
	panelRepo := repository.NewInMemoryPanelRepository()
	stub := &stubProvisioner{}
	userService := service.NewUserService(userRepo, panelRepo)
	panelService := service.NewPanelService(userRepo, panelRepo, stub, cache.New(""))
	return &routerFixture{
		handler:  NewRouter(userService, panelService),
		userRepo: userRepo,
		stub:     stub,
	}
}

func (f *routerFixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestMissingAction(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/panels", `{"email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnknownAction(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/panels", `{"action":"panel_destroy"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "panel_destroy")
}

func TestMethodMismatch(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/panels?action=user_add", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/panels", `{"action":"user_delete","email":"a@b.c"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUserAddThenInfo(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/panels",
		`{"action":"user_add","email":"a@b.c","password":"pw","activeDays":30,"money":5000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "user added", body["message"])

	rec = f.do(t, http.MethodGet, "/api/panels?action=user_info&email=a@b.c", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.c", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, float64(5000), user["money"])
	assert.NotContains(t, user, "password", "credentials never leave the service")
	assert.NotNil(t, user["panels"])
}

func TestUserInfo_NotFound(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/panels?action=user_info&email=ghost@b.c", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserAdd_RejectsBadNumbers(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/panels",
		`{"action":"user_add","email":"a@b.c","password":"pw","activeDays":-3}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/panels",
		`{"action":"user_add","email":"a@b.c","password":"pw","activeDays":30,"money":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserInfoAll_AdminGate(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	require.NoError(t, f.userRepo.Create(ctx, model.NewUser("user@b.c", "pw", model.RoleUser, 0, time.Now().Add(time.Hour))))
	require.NoError(t, f.userRepo.Create(ctx, model.NewUser("root@b.c", "pw", model.RoleAdmin, 0, time.Now().Add(time.Hour))))

	rec := f.do(t, http.MethodGet, "/api/panels?action=user_info_all&email=user@b.c", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/panels?action=user_info_all&email=root@b.c", "")
	require.Equal(t, http.StatusOK, rec.Code)
	emails := decodeBody(t, rec)["emails"].([]any)
	assert.Len(t, emails, 2)
}

func TestUserRole(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.userRepo.Create(context.Background(), model.NewUser("a@b.c", "pw", model.RoleUser, 0, time.Now().Add(time.Hour))))

	rec := f.do(t, http.MethodPost, "/api/panels", `{"action":"user_role","email":"a@b.c"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/panels", `{"action":"user_role","email":"a@b.c","role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
}

func TestPanelCreate_InsufficientBalance(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.userRepo.Create(context.Background(), model.NewUser("a@b.c", "pw", model.RoleUser, 2000, time.Now().Add(time.Hour))))

	rec := f.do(t, http.MethodPost, "/api/panels",
		`{"action":"panel_create","email":"a@b.c","username":"srv1","password":"pw","ram":1024}`)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(3000), body["required"])
	assert.Equal(t, float64(2000), body["current"])
}

func TestPanelCreateAndDeleteFlow(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.userRepo.Create(context.Background(), model.NewUser("a@b.c", "pw", model.RoleUser, 5000, time.Now().Add(time.Hour))))

	rec := f.do(t, http.MethodPost, "/api/panels",
		`{"action":"panel_create","email":"a@b.c","username":"srv1","password":"pw","ram":1024}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	panel := decodeBody(t, rec)["panel"].(map[string]any)
	assert.Equal(t, float64(101), panel["serverId"])

	// serverId supplied as a numeric string is accepted
	rec = f.do(t, http.MethodDelete, "/api/panels",
		`{"action":"panel_delete","email":"a@b.c","userId":7,"serverId":"101"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/api/panels?action=panel_current&email=a@b.c", "")
	require.Equal(t, http.StatusOK, rec.Code)
	panels := decodeBody(t, rec)["panels"].([]any)
	assert.Empty(t, panels)
}

func TestPanelDelete_NonNumericIDs(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodDelete, "/api/panels",
		`{"action":"panel_delete","email":"a@b.c","userId":"seven","serverId":"101"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPanelHealth_DegradesOnUpstreamFailure(t *testing.T) {
	f := newRouterFixture(t)
	f.stub.healthErr = errors.New("timeout")

	rec := f.do(t, http.MethodGet, "/api/panels?action=panel_health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["active"])
	assert.Equal(t, true, body["maintenance"])
}

func TestPanelDeleteAll_AdminOnly(t *testing.T) {
	f := newRouterFixture(t)
	ctx := context.Background()
	require.NoError(t, f.userRepo.Create(ctx, model.NewUser("user@b.c", "pw", model.RoleUser, 0, time.Now().Add(time.Hour))))
	require.NoError(t, f.userRepo.Create(ctx, model.NewUser("root@b.c", "pw", model.RoleAdmin, 0, time.Now().Add(time.Hour))))

	rec := f.do(t, http.MethodDelete, "/api/panels", `{"action":"panel_delete_all","email":"user@b.c"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/panels", `{"action":"panel_delete_all","email":"root@b.c"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeBody(t, rec)["deletedCount"])
}

func TestLivenessEndpoint(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
