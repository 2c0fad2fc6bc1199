package create_appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_appointment"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	gotActor *domain.Actor
	gotReq   *createAppointment.Request
	err      error
}

func (f *fakeUseCase) Execute(_ context.Context, actor *domain.Actor, req *createAppointment.Request) (*models.AppointmentResponse, error) {
	f.gotActor = actor
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.AppointmentResponse{ID: 10, ServiceCategory: req.ServiceCategory, Lastname: req.Lastname, Start: req.Start}, nil
}

const validBody = `{
	"serviceCategory": "hair",
	"procedureId": 3,
	"extraProcedureIds": [4],
	"lastname": "Novak",
	"phone": "+420 777 123 456",
	"start": "2026-03-10T09:00:00Z"
}`

func TestHandle_CreatesAnonymousAppointment(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(validBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, uc.gotActor)
	require.NotNil(t, uc.gotReq)
	assert.Equal(t, []int64{4}, uc.gotReq.ExtraProcedureIDs)
	assert.Equal(t, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC), uc.gotReq.Start.UTC())

	var resp models.AppointmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "Novak", resp.Lastname)
}

func TestHandle_PassesActorFromContext(t *testing.T) {
	uc := &fakeUseCase{}
	h := NewHandler(uc, nopLogger{})

	actor := &domain.Actor{UserID: 7, Role: domain.RoleUser}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(validBody))
	req = req.WithContext(middleware.WithActor(req.Context(), actor))

	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, actor, uc.gotActor)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"malformed json", `{"serviceCategory":`, nil, http.StatusBadRequest, msgInvalidRequestBody},
		{"unknown field", `{"foo": 1}`, nil, http.StatusBadRequest, msgInvalidRequestBody},
		{"slot taken", validBody, fmt.Errorf("%w: overlap", createAppointment.ErrSlotNotAvailable), http.StatusConflict, msgSlotNotAvailable},
		{"procedure missing", validBody, createAppointment.ErrProcedureNotFound, http.StatusNotFound, msgProcedureNotFound},
		{"invalid input", validBody, fmt.Errorf("%w: lastname", createAppointment.ErrInvalidInput), http.StatusBadRequest, msgInvalidInput},
		{"busy", validBody, createAppointment.ErrBusy, http.StatusServiceUnavailable, msgBusy},
		{"internal", validBody, createAppointment.ErrInternal, http.StatusInternalServerError, "внутренняя ошибка сервера"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&fakeUseCase{err: tt.err}, nopLogger{})

			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantMsg, resp.Error)
		})
	}
}
