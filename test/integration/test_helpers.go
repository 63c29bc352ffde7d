//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"mess-portal/internal/app"
	"mess-portal/internal/config"
	"mess-portal/internal/model"
	"mess-portal/pkg/apierror"
)

const refreshCookie = "refreshToken"

type account struct {
	user     model.User
	password string
}

type apiCall struct {
	Method        string
	Path          string
	Authorization string
	HasRefresh    bool
}

// fakeMess is an in-memory stand-in for the mess API.
type fakeMess struct {
	mu       sync.Mutex
	accounts map[string]*account
	tokens   map[string]int64
	calls    []apiCall
	nextID   int64

	subscription *model.MySubscriptionStatus
}

func newFakeMess() *fakeMess {
	f := &fakeMess{
		accounts: map[string]*account{},
		tokens:   map[string]int64{},
		nextID:   1,
	}
	f.addAccount("student@mess.test", "student123", "Asha", model.RoleStudent)
	f.addAccount("admin@mess.test", "admin123", "Ravi", model.RoleAdmin)
	return f
}

func (f *fakeMess) addAccount(email string, password string, name string, role model.Role) model.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := model.User{
		UserID:    f.nextID,
		Name:      name,
		Email:     email,
		Role:      role,
		MobileNo:  "98765" + strconv.FormatInt(f.nextID, 10),
		Address:   "Hostel A",
		CreatedAt: "2024-01-01T00:00:00Z",
		UpdatedAt: "2024-01-01T00:00:00Z",
	}
	f.nextID++
	f.accounts[email] = &account{user: user, password: password}
	return user
}

func (f *fakeMess) callsTo(path string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []apiCall
	for _, c := range f.calls {
		if c.Path == path {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeMess) allCalls() []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]apiCall(nil), f.calls...)
}

func (f *fakeMess) userFor(r *http.Request) (model.User, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

	f.mu.Lock()
	defer f.mu.Unlock()

	id, ok := f.tokens[token]
	if !ok {
		return model.User{}, false
	}
	for _, acc := range f.accounts {
		if acc.user.UserID == id {
			return acc.user, true
		}
	}
	return model.User{}, false
}

func (f *fakeMess) sortedUsers() []model.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]model.User, 0, len(f.accounts))
	for id := int64(1); id < f.nextID; id++ {
		for _, acc := range f.accounts {
			if acc.user.UserID == id {
				users = append(users, acc.user)
			}
		}
	}
	return users
}

func (f *fakeMess) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			_, err := req.Cookie(refreshCookie)
			f.mu.Lock()
			f.calls = append(f.calls, apiCall{
				Method:        req.Method,
				Path:          req.URL.Path,
				Authorization: req.Header.Get("Authorization"),
				HasRefresh:    err == nil,
			})
			f.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/auth/login", f.login)
		api.Post("/auth/register", f.register)
		api.Post("/auth/logout", func(w http.ResponseWriter, req *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: "", Path: "/api/v1/auth", MaxAge: -1})
			_, _ = io.WriteString(w, "Logout successful")
		})

		api.Group(func(authed chi.Router) {
			authed.Use(f.requireToken)

			authed.Get("/users/me", func(w http.ResponseWriter, req *http.Request) {
				user, _ := f.userFor(req)
				writeJSON(w, http.StatusOK, user)
			})
			authed.Get("/users", func(w http.ResponseWriter, req *http.Request) {
				page, _ := strconv.Atoi(req.URL.Query().Get("page"))
				size, _ := strconv.Atoi(req.URL.Query().Get("size"))
				writeJSON(w, http.StatusOK, model.Paginate(f.sortedUsers(), page, size))
			})
			authed.Delete("/users/{id}", f.deleteUser)
			authed.Post("/meal-entries/mark", func(w http.ResponseWriter, req *http.Request) {
				var payload model.MealEntryRequest
				_ = json.NewDecoder(req.Body).Decode(&payload)
				user, _ := f.userFor(req)
				writeJSON(w, http.StatusCreated, model.MealEntry{
					EntryID:   1,
					UserID:    user.UserID,
					UserEmail: user.Email,
					UserName:  user.Name,
					MealType:  payload.MealType,
					EntryDate: "2024-01-01",
					EntryTime: "12:30:00",
				})
			})
			authed.Get("/subscriptions/my-status", func(w http.ResponseWriter, req *http.Request) {
				f.mu.Lock()
				status := f.subscription
				f.mu.Unlock()
				if status == nil {
					writeJSON(w, http.StatusNotFound, apierror.New(http.StatusNotFound, "No subscription found for user"))
					return
				}
				writeJSON(w, http.StatusOK, status)
			})
			authed.Get("/weekly-menu", func(w http.ResponseWriter, req *http.Request) {
				writeJSON(w, http.StatusOK, model.WeeklyMenu{
					DailyMenus: map[model.DayOfWeek]map[model.MealType]model.WeeklyMenuDayMeal{},
					StartDate:  "2024-01-01",
					EndDate:    "2024-01-07",
				})
			})
		})
	})

	return r
}

func (f *fakeMess) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := f.userFor(r); !ok {
			writeJSON(w, http.StatusUnauthorized, apierror.New(http.StatusUnauthorized, "Full authentication is required to access this resource"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeMess) login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	_ = json.NewDecoder(r.Body).Decode(&payload)

	f.mu.Lock()
	acc, ok := f.accounts[payload.Email]
	if !ok || acc.password != payload.Password {
		f.mu.Unlock()
		writeJSON(w, http.StatusUnauthorized, apierror.New(http.StatusUnauthorized, "Invalid email or password."))
		return
	}
	token := fmt.Sprintf("token-%d-%d", acc.user.UserID, time.Now().UnixNano())
	f.tokens[token] = acc.user.UserID
	user := acc.user
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: refreshCookie, Value: "refresh-" + token, Path: "/api/v1/auth", HttpOnly: true})
	writeJSON(w, http.StatusOK, model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		UserID:      user.UserID,
		Email:       user.Email,
		Role:        user.Role,
	})
}

func (f *fakeMess) register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	_ = json.NewDecoder(r.Body).Decode(&payload)

	f.mu.Lock()
	_, exists := f.accounts[payload.Email]
	f.mu.Unlock()
	if exists {
		writeJSON(w, http.StatusConflict, apierror.New(http.StatusConflict, "Email is already in use"))
		return
	}

	writeJSON(w, http.StatusCreated, f.addAccount(payload.Email, payload.Password, payload.Name, model.RoleStudent))
}

func (f *fakeMess) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)

	f.mu.Lock()
	defer f.mu.Unlock()
	for email, acc := range f.accounts {
		if acc.user.UserID == id {
			delete(f.accounts, email)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, apierror.New(http.StatusNotFound, "User not found with id: "+strconv.FormatInt(id, 10)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newPortal starts a fake mess API and a portal pointed at it.
func newPortal(t *testing.T) (*httptest.Server, *fakeMess) {
	t.Helper()

	backend := newFakeMess()
	api := httptest.NewServer(backend.handler())
	t.Cleanup(api.Close)

	cfg := &config.Config{
		PortalPort:              "0",
		ServerReadHeaderTimeout: 10 * time.Second,
		ServerWriteTimeout:      30 * time.Second,
		ServerIdleTimeout:       120 * time.Second,
		RequestTimeout:          10 * time.Second,
		APIBaseURL:              api.URL + "/api/v1",
		APITimeout:              5 * time.Second,
		CORSOrigins:             []string{"*"},
		RateLimitRPM:            0,
		AuthRateLimitRPM:        1000,
		NotifyBuffer:            16,
		DefaultPageSize:         5,
		LogLevel:                "error",
	}

	application, err := app.NewWithConfig(cfg)
	require.NoError(t, err)

	portal := httptest.NewServer(application.Handler())
	t.Cleanup(portal.Close)

	return portal, backend
}

// portalClient does not follow redirects so guard responses can be asserted.
func portalClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func doJSON(t *testing.T, method string, url string, body any) *http.Response {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := portalClient().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeData(t *testing.T, resp *http.Response, dst any) {
	t.Helper()

	var envelope struct {
		Success bool               `json:"success"`
		Data    json.RawMessage    `json:"data"`
		Error   *apierror.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if dst == nil {
		return
	}
	if envelope.Error != nil {
		require.NoError(t, json.Unmarshal(mustJSON(t, envelope.Error), dst))
		return
	}
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func login(t *testing.T, portalURL string, email string, password string) {
	t.Helper()

	resp := doJSON(t, http.MethodPost, portalURL+"/login", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
