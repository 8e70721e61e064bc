package compilesvc_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piilip/neon/internal/buildstore"
	"github.com/piilip/neon/internal/compilesvc"
)

func newTestService(t *testing.T) (*compilesvc.Service, *compilesvc.MemoryUsers) {
	t.Helper()
	store, err := buildstore.Open(filepath.Join(t.TempDir(), "builds.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	users := compilesvc.NewMemoryUsers()
	users.Add("admin", "correct-horse")

	return compilesvc.New(users, store, []byte("test-secret")), users
}

func login(t *testing.T, svc *compilesvc.Service, name, password string) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	var resp map[string]string
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestLogin_CorrectCredentials_IssuesToken(t *testing.T) {
	svc, _ := newTestService(t)

	rec, resp := login(t, svc, "admin", "correct-horse")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp["token"])
}

func TestLogin_WrongPassword_Unauthorized(t *testing.T) {
	svc, _ := newTestService(t)

	rec, _ := login(t, svc, "admin", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_UnknownUser_Unauthorized(t *testing.T) {
	svc, _ := newTestService(t)

	rec, _ := login(t, svc, "nobody", "whatever")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuilds_WithoutToken_Unauthorized(t *testing.T) {
	svc, _ := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/builds", nil)
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBuilds_WithToken_SubmitAndList(t *testing.T) {
	svc, _ := newTestService(t)
	_, resp := login(t, svc, "admin", "correct-horse")
	token := resp["token"]
	require.NotEmpty(t, token)

	dir := t.TempDir()
	entry := filepath.Join(dir, "main.ne")
	require.NoError(t, os.WriteFile(entry, []byte(`
fun main() void {
	assert(1 == 1);
}
`), 0644))

	body, _ := json.Marshal(map[string]string{"entry_path": entry})
	req := httptest.NewRequest(http.MethodPost, "/builds", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "succeeded", created["status"])

	listReq := httptest.NewRequest(http.MethodGet, "/builds", nil)
	listReq.Header.Set("Authorization", "Bearer "+token)
	listRec := httptest.NewRecorder()
	svc.ServeHTTP(listRec, listReq)

	require.Equal(t, http.StatusOK, listRec.Code)
	var builds []map[string]interface{}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &builds))
	assert.Len(t, builds, 1)
}

func TestBuilds_SubmitWithTypeError_UnprocessableEntity(t *testing.T) {
	svc, _ := newTestService(t)
	_, resp := login(t, svc, "admin", "correct-horse")
	token := resp["token"]

	dir := t.TempDir()
	entry := filepath.Join(dir, "main.ne")
	require.NoError(t, os.WriteFile(entry, []byte(`
fun main() void {
	int x = true;
}
`), 0644))

	body, _ := json.Marshal(map[string]string{"entry_path": entry})
	req := httptest.NewRequest(http.MethodPost, "/builds", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestBuilds_GetByID_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, resp := login(t, svc, "admin", "correct-horse")
	token := resp["token"]

	req := httptest.NewRequest(http.MethodGet, "/builds/00000000-0000-0000-0000-000000000000", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuilds_MalformedBearerToken_Unauthorized(t *testing.T) {
	svc, _ := newTestService(t)

	req := httptest.NewRequest(http.MethodGet, "/builds", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
