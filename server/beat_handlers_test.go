package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"BeatWave/config"
	"BeatWave/core/auth"
	"BeatWave/core/ledger"
	"BeatWave/core/wallet"
	"BeatWave/model"
	"BeatWave/repository"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router   *mux.Router
	store    *ledger.Store
	userRepo *repository.MemoryUserRepository
	payments *wallet.MemoryPayments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	auth.SetJWTSecret("test-secret")

	userRepo := repository.NewMemoryUserRepository()
	payments := wallet.NewMemoryPayments()
	store := ledger.NewStore(repository.NewMemoryBeatRepository(), payments, nil)

	handler := NewAPIHandler(store, userRepo, nil, nil, &config.Config{})

	router := mux.NewRouter()
	router.HandleFunc("/api/auth/register", handler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/beats", handler.AuthMiddleware(handler.UploadBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats", handler.BrowseBeatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/beats/{id}", handler.GetBeatHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/beats/{id}/list", handler.AuthMiddleware(handler.ListBeatForSaleHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/unlist", handler.AuthMiddleware(handler.DeleteBeatForSaleHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/buy", handler.AuthMiddleware(handler.BuyBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/like", handler.AuthMiddleware(handler.LikeBeatHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/beats/{id}/transfer", handler.AuthMiddleware(handler.TransferOwnerHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/wallet", handler.AuthMiddleware(handler.GetWalletHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/wallet/deposit", handler.AuthMiddleware(handler.DepositHandler)).Methods(http.MethodPost)

	return &testEnv{
		router:   router,
		store:    store,
		userRepo: userRepo,
		payments: payments,
	}
}

// newUser registers a user directly and returns its id with a valid token.
func (env *testEnv) newUser(t *testing.T, username string) (int64, string) {
	t.Helper()
	user := &model.User{Username: username, Email: username + "@example.com", PasswordHash: "x"}
	id, err := env.userRepo.CreateUser(context.Background(), user)
	require.NoError(t, err)

	token, err := auth.GenerateToken(id, username)
	require.NoError(t, err)
	return id, token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/beats", "", UploadBeatRequest{ContentRef: "cid", Title: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/beats", "not-a-token", UploadBeatRequest{ContentRef: "cid", Title: "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadAndGetBeat(t *testing.T) {
	env := newTestEnv(t)
	ownerID, token := env.newUser(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/beats", token,
		UploadBeatRequest{ContentRef: "cid123", Title: "My beat", Price: 1000})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/beats/%d", created.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var beat model.Beat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beat))
	assert.Equal(t, ownerID, beat.OwnerID)
	assert.Equal(t, "cid123", beat.ContentRef)
	assert.Equal(t, "My beat", beat.Title)
	assert.Equal(t, uint64(1000), beat.Price)
	assert.False(t, beat.IsForSale)
	assert.Equal(t, uint64(0), beat.NumberOfLikes)
}

func TestUploadRejectsEmptyTitle(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/beats", token, UploadBeatRequest{ContentRef: "cid123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBeatNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/beats/42", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListUnlistFlow(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.newUser(t, "alice")
	_, bobToken := env.newUser(t, "bob")

	rec := env.do(t, http.MethodPost, "/api/beats", aliceToken,
		UploadBeatRequest{ContentRef: "cid123", Title: "My beat", Price: 1000})
	require.Equal(t, http.StatusCreated, rec.Code)

	// a stranger cannot list someone else's beat
	rec = env.do(t, http.MethodPost, "/api/beats/1/list", bobToken, ListBeatRequest{Price: 1500})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/beats/1/list", aliceToken, ListBeatRequest{Price: 1500})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/beats/1", "", nil)
	var beat model.Beat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beat))
	assert.True(t, beat.IsForSale)
	assert.Equal(t, uint64(1500), beat.Price)

	// a stranger cannot unlist it either
	rec = env.do(t, http.MethodPost, "/api/beats/1/unlist", bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/beats/1/unlist", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/beats/1", "", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beat))
	assert.False(t, beat.IsForSale)
}

func TestBuyFlow(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.newUser(t, "alice")
	bobID, bobToken := env.newUser(t, "bob")

	env.payments.Credit(bobID, 2000)

	rec := env.do(t, http.MethodPost, "/api/beats", aliceToken,
		UploadBeatRequest{ContentRef: "cid123", Title: "My beat", Price: 1000})
	require.Equal(t, http.StatusCreated, rec.Code)

	// buying before it is listed fails
	rec = env.do(t, http.MethodPost, "/api/beats/1/buy", bobToken, BuyBeatRequest{Payment: 1000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not for sale")

	rec = env.do(t, http.MethodPost, "/api/beats/1/list", aliceToken, ListBeatRequest{Price: 1500})
	require.Equal(t, http.StatusOK, rec.Code)

	// wrong payment is rejected with no effect
	rec = env.do(t, http.MethodPost, "/api/beats/1/buy", bobToken, BuyBeatRequest{Payment: 1000})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "incorrect price")
	assert.Equal(t, uint64(2000), env.payments.Balance(bobID))

	rec = env.do(t, http.MethodPost, "/api/beats/1/buy", bobToken, BuyBeatRequest{Payment: 1500})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/beats/1", "", nil)
	var beat model.Beat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beat))
	assert.Equal(t, bobID, beat.OwnerID)
	assert.False(t, beat.IsForSale)
	assert.Equal(t, uint64(500), env.payments.Balance(bobID))
	assert.Equal(t, uint64(1500), env.payments.Balance(aliceID))

	// buying a missing beat is a 404
	rec = env.do(t, http.MethodPost, "/api/beats/42/buy", bobToken, BuyBeatRequest{Payment: 1500})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLikeBeatHandler(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/beats", token,
		UploadBeatRequest{ContentRef: "cid123", Title: "My beat"})
	require.Equal(t, http.StatusCreated, rec.Code)

	for want := 1; want <= 3; want++ {
		rec = env.do(t, http.MethodPost, "/api/beats/1/like", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			NumberOfLikes uint64 `json:"numberOfLikes"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, uint64(want), resp.NumberOfLikes)
	}
}

func TestTransferOwnerHandler(t *testing.T) {
	env := newTestEnv(t)
	_, aliceToken := env.newUser(t, "alice")
	bobID, _ := env.newUser(t, "bob")
	_, carolToken := env.newUser(t, "carol")

	rec := env.do(t, http.MethodPost, "/api/beats", aliceToken,
		UploadBeatRequest{ContentRef: "cid123", Title: "My beat"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// non-owner cannot transfer
	rec = env.do(t, http.MethodPost, "/api/beats/1/transfer", carolToken, TransferOwnerRequest{NewOwner: bobID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/beats/1/transfer", aliceToken, TransferOwnerRequest{NewOwner: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/beats/1/transfer", aliceToken, TransferOwnerRequest{NewOwner: bobID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/beats/1", "", nil)
	var beat model.Beat
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beat))
	assert.Equal(t, bobID, beat.OwnerID)
}

func TestBrowseBeatsHandler(t *testing.T) {
	env := newTestEnv(t)
	aliceID, aliceToken := env.newUser(t, "alice")
	_, bobToken := env.newUser(t, "bob")

	rec := env.do(t, http.MethodPost, "/api/beats", aliceToken,
		UploadBeatRequest{ContentRef: "cid1", Title: "one"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/beats", bobToken,
		UploadBeatRequest{ContentRef: "cid2", Title: "two"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/beats/2/list", bobToken, ListBeatRequest{Price: 100})
	require.Equal(t, http.StatusOK, rec.Code)

	var beats []*model.Beat

	rec = env.do(t, http.MethodGet, "/api/beats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beats))
	assert.Len(t, beats, 2)

	rec = env.do(t, http.MethodGet, "/api/beats?forSale=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beats))
	require.Len(t, beats, 1)
	assert.Equal(t, int64(2), beats[0].ID)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/beats?owner=%d", aliceID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &beats))
	require.Len(t, beats, 1)
	assert.Equal(t, int64(1), beats[0].ID)
}

func TestWalletHandlers(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "alice")

	rec := env.do(t, http.MethodGet, "/api/wallet", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Balance uint64 `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(0), resp.Balance)

	rec = env.do(t, http.MethodPost, "/api/wallet/deposit", token, DepositRequest{Amount: 500})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(500), resp.Balance)

	rec = env.do(t, http.MethodPost, "/api/wallet/deposit", token, DepositRequest{Amount: 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
