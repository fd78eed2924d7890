//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"dna-clinic-go/internal/auth"
	"dna-clinic-go/internal/config"
	"dna-clinic-go/internal/db"
	bookingdomain "dna-clinic-go/internal/domain/booking"
	cascadedomain "dna-clinic-go/internal/domain/cascade"
	catalogdomain "dna-clinic-go/internal/domain/catalog"
	coursedomain "dna-clinic-go/internal/domain/course"
	feedbackdomain "dna-clinic-go/internal/domain/feedback"
	invoicedomain "dna-clinic-go/internal/domain/invoice"
	kitdomain "dna-clinic-go/internal/domain/kit"
	"dna-clinic-go/internal/domain/lifecycle"
	notificationdomain "dna-clinic-go/internal/domain/notification"
	relativedomain "dna-clinic-go/internal/domain/relative"
	resultdomain "dna-clinic-go/internal/domain/result"
	statsdomain "dna-clinic-go/internal/domain/stats"
	userdomain "dna-clinic-go/internal/domain/user"
	"dna-clinic-go/internal/report"
	"dna-clinic-go/internal/repository/inmemory"
	bookingrepo "dna-clinic-go/internal/repository/postgres/booking"
	cascaderepo "dna-clinic-go/internal/repository/postgres/cascade"
	catalogrepo "dna-clinic-go/internal/repository/postgres/catalog"
	courserepo "dna-clinic-go/internal/repository/postgres/course"
	feedbackrepo "dna-clinic-go/internal/repository/postgres/feedback"
	invoicerepo "dna-clinic-go/internal/repository/postgres/invoice"
	kitrepo "dna-clinic-go/internal/repository/postgres/kit"
	notificationrepo "dna-clinic-go/internal/repository/postgres/notification"
	relativerepo "dna-clinic-go/internal/repository/postgres/relative"
	resultrepo "dna-clinic-go/internal/repository/postgres/result"
	statsrepo "dna-clinic-go/internal/repository/postgres/stats"
	userrepo "dna-clinic-go/internal/repository/postgres/user"
	"dna-clinic-go/internal/storage"
	"dna-clinic-go/internal/transport/httpserver"
	"dna-clinic-go/internal/transport/httpserver/handler"
	"dna-clinic-go/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.NewNop()
	cfg := config.Config{
		Env:       "test",
		StaticDir: t.TempDir(),
		UploadMax: 1 << 20,
		DB:        config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			JWTSecret:      "e2e-secret",
			JWTIssuer:      "dna-clinic",
			AccessTokenTTL: time.Hour,
		},
		RateLimit: config.RateLimitConfig{AuthPerMinute: 600, AuthBurst: 100},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn, log); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	deleter := cascadedomain.NewDeleter(cascaderepo.NewPostgres(dbConn), log)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)
	notifications := notificationdomain.NewService(notificationrepo.NewPostgres(dbConn), deleter)

	services := handler.Services{
		Users:         userdomain.NewService(userrepo.NewPostgres(dbConn), deleter, auth.Bcrypt{}, tokens, userdomain.WithResetPolicy(time.Hour, true)),
		Catalog:       catalogdomain.NewService(catalogrepo.NewPostgres(dbConn), deleter, catalogdomain.WithCache(inmemory.NewInMemoryCatalogCache(), time.Minute)),
		Bookings:      bookingdomain.NewService(bookingrepo.NewPostgres(dbConn), deleter, bookingdomain.WithNotifier(notifications, log)),
		Kits:          kitdomain.NewService(kitrepo.NewPostgres(dbConn), deleter),
		Results:       resultdomain.NewService(resultrepo.NewPostgres(dbConn), deleter, report.NewPDFRenderer()),
		Invoices:      invoicedomain.NewService(invoicerepo.NewPostgres(dbConn), deleter),
		Relatives:     relativedomain.NewService(relativerepo.NewPostgres(dbConn), deleter),
		Feedbacks:     feedbackdomain.NewService(feedbackrepo.NewPostgres(dbConn), deleter),
		Notifications: notifications,
		Courses:       coursedomain.NewService(courserepo.NewPostgres(dbConn), deleter),
		Stats:         statsdomain.NewService(statsrepo.NewPostgres(dbConn)),
	}

	images, err := storage.NewLocal(cfg.StaticDir, cfg.UploadMax)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	handlers := handler.New(services, images, cfg.UploadMax, log)
	router := httpserver.NewRouter(cfg, handlers, tokens, images.Dir(), log)
	return &testEnv{server: httptest.NewServer(router), db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE password_resets, courses, notifications, feedbacks, relatives, invoice_details, invoices, test_results, kits, bookings, services, users CASCADE",
	).Error
}

// seedStaff inserts a staff account directly since registration only
// creates customers.
func seedStaff(t *testing.T, dbConn *gorm.DB, id, username, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	err = dbConn.Exec(
		"INSERT INTO users (id, username, password_hash, fullname, role_id) VALUES (?, ?, ?, ?, ?)",
		id, username, hash, "Nhân viên "+username, int(userdomain.RoleStaff),
	).Error
	if err != nil {
		t.Fatalf("seed staff: %v", err)
	}
}

func seedService(t *testing.T, dbConn *gorm.DB, id, name string) {
	t.Helper()
	err := dbConn.Exec(
		"INSERT INTO services (id, type, name, price) VALUES (?, ?, ?, ?)",
		id, "Dân sự", name, 2500000,
	).Error
	if err != nil {
		t.Fatalf("seed service: %v", err)
	}
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, respBody
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type bookingResponse struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	Method     string `json:"method"`
	Status     string `json:"status"`
}

type kitResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type notificationResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read"`
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
	return out
}

func login(t *testing.T, client *http.Client, baseURL, username, password string) sessionResponse {
	t.Helper()
	resp, body := requestJSON(t, client, http.MethodPost, baseURL+"/api/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected login 200, got %d: %s", resp.StatusCode, string(body))
	}
	return decode[envelope[sessionResponse]](t, body).Data
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected health 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", map[string]string{
		"username": "khachhang",
		"password": "matkhau123",
		"fullname": "Nguyễn Văn A",
		"email":    "a@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected register 201, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", map[string]string{
		"username": "khachhang",
		"password": "khac",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected duplicate register 409, got %d: %s", resp.StatusCode, string(body))
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/login", "", map[string]string{
		"username": "khachhang",
		"password": "sai",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected bad login 401, got %d: %s", resp.StatusCode, string(body))
	}

	session := login(t, client, env.server.URL, "khachhang", "matkhau123")
	if session.Token == "" || session.User.Role != userdomain.RoleCustomer.String() {
		t.Fatalf("expected customer session, got %+v", session)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected me 200, got %d: %s", resp.StatusCode, string(body))
	}

	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/kit", session.Token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected customer kit list 403, got %d", resp.StatusCode)
	}
}

func TestE2ESelfCollectBookingNeedsKitAtStorage(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	seedStaff(t, env.db, "U9001", "nhanvien", "matkhau123")
	seedService(t, env.db, "S9001", "Xét nghiệm huyết thống")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/auth/register", "", map[string]string{
		"username": "khachhang",
		"password": "matkhau123",
		"fullname": "Trần Thị B",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected register 201, got %d: %s", resp.StatusCode, string(body))
	}
	customer := login(t, client, env.server.URL, "khachhang", "matkhau123")
	staff := login(t, client, env.server.URL, "nhanvien", "matkhau123")

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/appointments", customer.Token, map[string]string{
		"service_id": "S9001",
		"date":       "2026-03-10T09:00",
		"address":    "12 Lê Lợi, Quận 1",
		"method":     string(lifecycle.MethodSelfCollect),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected booking 201, got %d: %s", resp.StatusCode, string(body))
	}
	booking := decode[envelope[bookingResponse]](t, body).Data
	if booking.CustomerID != customer.User.ID {
		t.Fatalf("expected booking owned by %s, got %s", customer.User.ID, booking.CustomerID)
	}
	if booking.Status != string(lifecycle.BookingAwaitingSample) {
		t.Fatalf("expected initial status %q, got %q", lifecycle.BookingAwaitingSample, booking.Status)
	}

	statusURL := env.server.URL + "/api/appointments/" + booking.ID + "/status"
	inProgress := map[string]string{"status": string(lifecycle.BookingInProgress)}

	resp, body = requestJSON(t, client, http.MethodPatch, statusURL, staff.Token, inProgress)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without kit, got %d: %s", resp.StatusCode, string(body))
	}
	rejection := decode[errorBody](t, body)
	if rejection.Code != "invalid_transition" {
		t.Fatalf("expected invalid_transition, got %+v", rejection)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/kit", staff.Token, map[string]string{
		"booking_id": booking.ID,
		"status":     string(lifecycle.KitArrivedAtStorage),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected kit 201, got %d: %s", resp.StatusCode, string(body))
	}
	kit := decode[envelope[kitResponse]](t, body).Data
	if kit.BookingID != booking.ID {
		t.Fatalf("expected kit for %s, got %+v", booking.ID, kit)
	}

	resp, body = requestJSON(t, client, http.MethodPatch, statusURL, staff.Token, inProgress)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status change 200, got %d: %s", resp.StatusCode, string(body))
	}
	updated := decode[envelope[bookingResponse]](t, body).Data
	if updated.Status != string(lifecycle.BookingInProgress) {
		t.Fatalf("expected %q, got %q", lifecycle.BookingInProgress, updated.Status)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/notifications/mine", customer.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected notifications 200, got %d: %s", resp.StatusCode, string(body))
	}
	notes := decode[[]notificationResponse](t, body)
	if len(notes) != 1 || notes[0].IsRead {
		t.Fatalf("expected one unread notification, got %+v", notes)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/appointments/"+booking.ID, "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected anonymous booking read 401, got %d: %s", resp.StatusCode, string(body))
	}
}
