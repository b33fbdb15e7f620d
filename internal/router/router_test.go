package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afpthedev/smyapp/internal/email"
	"github.com/afpthedev/smyapp/internal/handler"
	appointmentHandler "github.com/afpthedev/smyapp/internal/handler/appointment"
	appointmentTypeHandler "github.com/afpthedev/smyapp/internal/handler/appointmenttype"
	authHandler "github.com/afpthedev/smyapp/internal/handler/auth"
	businessHandler "github.com/afpthedev/smyapp/internal/handler/business"
	customerHandler "github.com/afpthedev/smyapp/internal/handler/customer"
	financeHandler "github.com/afpthedev/smyapp/internal/handler/finance"
	guestHandler "github.com/afpthedev/smyapp/internal/handler/guest"
	"github.com/afpthedev/smyapp/internal/handler/health"
	notificationHandler "github.com/afpthedev/smyapp/internal/handler/notification"
	offeredServiceHandler "github.com/afpthedev/smyapp/internal/handler/offeredservice"
	paymentHandler "github.com/afpthedev/smyapp/internal/handler/payment"
	promHandler "github.com/afpthedev/smyapp/internal/handler/prometheus"
	reservationHandler "github.com/afpthedev/smyapp/internal/handler/reservation"
	"github.com/afpthedev/smyapp/internal/middleware"
	"github.com/afpthedev/smyapp/internal/model"
	"github.com/afpthedev/smyapp/internal/repository/memory"
	appointmentService "github.com/afpthedev/smyapp/internal/service/appointment"
	appointmentTypeService "github.com/afpthedev/smyapp/internal/service/appointmenttype"
	authService "github.com/afpthedev/smyapp/internal/service/auth"
	businessService "github.com/afpthedev/smyapp/internal/service/business"
	customerService "github.com/afpthedev/smyapp/internal/service/customer"
	eventService "github.com/afpthedev/smyapp/internal/service/event"
	financeService "github.com/afpthedev/smyapp/internal/service/finance"
	guestService "github.com/afpthedev/smyapp/internal/service/guest"
	notificationService "github.com/afpthedev/smyapp/internal/service/notification"
	offeredServiceService "github.com/afpthedev/smyapp/internal/service/offeredservice"
	paymentService "github.com/afpthedev/smyapp/internal/service/payment"
	reservationService "github.com/afpthedev/smyapp/internal/service/reservation"
	"github.com/afpthedev/smyapp/pkg/auth"
	"github.com/afpthedev/smyapp/pkg/httputil"
	"github.com/afpthedev/smyapp/pkg/logger"
	"github.com/afpthedev/smyapp/pkg/metrics"
	"github.com/afpthedev/smyapp/pkg/validator"
)

const (
	testSecret = "test-secret"
	testIssuer = "smyapp-test"

	aliceID int64 = 1
	bobID   int64 = 2
	adminID int64 = 99
)

type testServer struct {
	engine *gin.Engine
	jwt    auth.JWTService
	outbox *memory.OutboxRepository
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.Register())

	reservations := memory.NewReservationRepository()
	appointments := memory.NewAppointmentRepository()
	appointmentTypes := memory.NewAppointmentTypeRepository()
	businesses := memory.NewBusinessRepository()
	customers := memory.NewCustomerRepository()
	offered := memory.NewOfferedServiceRepository()
	notifications := memory.NewNotificationRepository()
	payments := memory.NewPaymentRepository()
	entries := memory.NewFinanceEntryRepository()
	documents := memory.NewFinanceDocumentRepository()
	outbox := memory.NewOutboxRepository()
	users := memory.NewUserRepository(
		&model.User{Base: model.Base{ID: aliceID}, Login: "alice"},
		&model.User{Base: model.Base{ID: bobID}, Login: "bob"},
		&model.User{Base: model.Base{ID: adminID}, Login: "admin"},
	)

	log := logger.Nop()
	reg := prometheus.NewRegistry()
	m := metrics.New("test", reg)
	events := eventService.NewService(outbox)
	summaries := reservationService.NewSummaryCache(time.Minute, time.Minute)
	jwtSvc := auth.NewJWTService(testSecret, testIssuer)

	reservationSvc := reservationService.NewService(reservations, customers, users, events, summaries, m, log)
	base := handler.NewBaseHandler(50)
	handlers := Handlers{
		Health:          health.NewHandler(nil),
		Metrics:         promHandler.New("test_http", reg, reg),
		Account:         authHandler.NewHandler(),
		Reservation:     reservationHandler.NewHandler(base, reservationSvc),
		Guest:           guestHandler.NewHandler(guestService.NewService(reservations, customers, offered, businesses, events, summaries, log)),
		Appointment:     appointmentHandler.NewHandler(base, appointmentService.NewService(appointments, appointmentTypes, log)),
		AppointmentType: appointmentTypeHandler.NewHandler(base, appointmentTypeService.NewService(appointmentTypes, log)),
		Notification: notificationHandler.NewHandler(base,
			notificationService.NewService(notifications, appointments, users, email.NewLogService(log), m, log)),
		Business:       businessHandler.NewHandler(base, businessService.NewService(businesses, log)),
		Customer:       customerHandler.NewHandler(base, customerService.NewService(customers, log), reservationSvc),
		OfferedService: offeredServiceHandler.NewHandler(base, offeredServiceService.NewService(offered, businesses, log)),
		Payment:        paymentHandler.NewHandler(base, paymentService.NewService(payments, log)),
		Finance:        financeHandler.NewHandler(base, financeService.NewService(entries, documents, log)),
	}

	r := NewRouter(middleware.NewAuthMiddleware(authService.NewService(users, jwtSvc)), handlers, RouterConfig{}, zerolog.Nop())
	r.Setup()
	return &testServer{engine: r.Engine(), jwt: jwtSvc, outbox: outbox}
}

func (s *testServer) token(t *testing.T, id int64, login string, authorities ...string) string {
	t.Helper()
	token, err := s.jwt.GenerateAccessToken(auth.Actor{ID: &id, Login: login, Authorities: authorities}, time.Hour)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))

	w = s.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_http_requests_total")
}

func TestAPIRequiresBearerToken(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"bad token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/reservations/my", nil)
			req.Header.Set(middleware.HeaderXRequestID, "trace-123")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			s.engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
			assert.Equal(t, "trace-123", resp.TraceID)
		})
	}
}

func TestAccountReflectsToken(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/account", s.token(t, adminID, "admin", auth.AuthorityAdmin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var account authHandler.Account
	decodeData(t, w, &account)
	assert.Equal(t, "admin", account.Login)
	assert.True(t, account.Admin)
	require.NotNil(t, account.ID)
	assert.Equal(t, adminID, *account.ID)
}

func TestReservationOwnershipOverHTTP(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, aliceID, "alice")
	bob := s.token(t, bobID, "bob")
	admin := s.token(t, adminID, "admin", auth.AuthorityAdmin)

	w := s.do(t, http.MethodPost, "/api/reservations", alice, map[string]any{
		"date": time.Date(2030, 1, 2, 18, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Reservation
	decodeData(t, w, &created)
	assert.Equal(t, "/api/reservations/1", w.Header().Get("Location"))
	require.NotNil(t, created.UserID)
	assert.Equal(t, aliceID, *created.UserID)
	assert.Equal(t, model.ReservationStatusPending, created.Status)
	assert.Len(t, s.outbox.Events(), 1)

	w = s.do(t, http.MethodGet, "/api/reservations/1", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/reservations", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "listing every reservation is admin only")

	w = s.do(t, http.MethodGet, "/api/reservations", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(httputil.TotalCountHeader))

	w = s.do(t, http.MethodGet, "/api/reservations/my", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get(httputil.TotalCountHeader))

	w = s.do(t, http.MethodPost, "/api/reservations/1/approve", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved model.Reservation
	decodeData(t, w, &approved)
	assert.Equal(t, model.ReservationStatusConfirmed, approved.Status)
}

func TestReservationRequestErrors(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, aliceID, "alice")

	w := s.do(t, http.MethodGet, "/api/reservations/abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/reservations", alice, map[string]any{
		"id":   7,
		"date": time.Date(2030, 1, 2, 18, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/reservations", alice, map[string]any{
		"date": time.Date(2030, 1, 2, 18, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(t, http.MethodPut, "/api/reservations/1", alice, map[string]any{
		"id":   2,
		"date": time.Date(2030, 1, 3, 18, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPatch, "/api/reservations/1", alice, map[string]any{"status": "SOMEDAY"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "status")

	w = s.do(t, http.MethodDelete, "/api/reservations/42", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAppointmentValidationAndCriteria(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, aliceID, "alice")

	w := s.do(t, http.MethodPost, "/api/appointments", alice, map[string]any{
		"duration": 0,
		"status":   "PLANNED",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decodeError(t, w).Fields
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "appointment_date")

	for _, title := range []string{"John Doe intake", "Jane Roe follow-up"} {
		w = s.do(t, http.MethodPost, "/api/appointments", alice, map[string]any{
			"title":            title,
			"appointment_date": time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC),
			"duration":         30,
			"status":           "PLANNED",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/appointments?title.contains=Doe", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(httputil.TotalCountHeader))
	var found []model.Appointment
	decodeData(t, w, &found)
	require.Len(t, found, 1)
	assert.Equal(t, "John Doe intake", found[0].Title)

	w = s.do(t, http.MethodGet, "/api/appointments/count?status.equals=PLANNED", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var count int64
	decodeData(t, w, &count)
	assert.Equal(t, int64(2), count)

	w = s.do(t, http.MethodGet, "/api/appointments?duration.greaterThan=abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGuestReservationIsPublic(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/public/reservations", "", map[string]any{
		"first_name":       "Jane",
		"last_name":        "Roe",
		"email":            "jane@example.com",
		"phone":            "+90 555 000 0000",
		"reservation_date": time.Date(2030, 7, 1, 19, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var r model.Reservation
	decodeData(t, w, &r)
	assert.Nil(t, r.UserID)
	assert.NotNil(t, r.CustomerID)

	w = s.do(t, http.MethodPost, "/api/public/reservations", "", map[string]any{"email": "nope"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Fields, "email")
}

func TestCustomerSummaryIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, aliceID, "alice")
	admin := s.token(t, adminID, "admin", auth.AuthorityAdmin)

	w := s.do(t, http.MethodPost, "/api/customers", admin, map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      "ada@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/customers/1/reservation-summary", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/customers/1/reservation-summary", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary model.CustomerReservationSummary
	decodeData(t, w, &summary)
	assert.Equal(t, int64(1), summary.CustomerID)
	assert.Zero(t, summary.TotalReservations)
}

func TestFinanceDocumentUpload(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, aliceID, "alice")

	body, contentType := multipartFile(t, "file", "march.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/finance-documents", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+alice)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/finance-documents/1/download", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF-1.4", w.Body.String())
	assert.True(t, strings.Contains(w.Header().Get("Content-Disposition"), "march.pdf"))
}

func TestRequestTimeoutReachesHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.Timeout(time.Second))
	engine.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/deadline", nil).WithContext(context.Background()))
	assert.JSONEq(t, `{"deadline":true}`, w.Body.String())
}

func multipartFile(t *testing.T, field, name string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}
