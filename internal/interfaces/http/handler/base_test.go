package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/erp/lobapi/internal/interfaces/http/dto"
	"github.com/erp/lobapi/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewNotFoundError("Warehouse", uuid.New()), http.StatusNotFound, dto.ErrCodeNotFound},
		{"conflict", shared.NewDomainError("ALREADY_EXISTS", "Code taken"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"invalid state", shared.NewInvalidStateError("Bill is posted"), http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"invalid input", shared.NewInvalidInputError("Bad dates"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"wrapped domain error", errors.Join(errors.New("ctx"), shared.NewNotFoundError("Bill", 1)), http.StatusNotFound, dto.ErrCodeNotFound},
		{"internal", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/", "")
			c.Set(middleware.RequestIDKey, "req-1")
			h := &BaseHandler{}
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
			assert.NotContains(t, resp.Error.Message, "pq:")
		})
	}
}

func TestBaseHandler_HandleErrorNil(t *testing.T) {
	c, w := newContext(http.MethodGet, "/", "")
	(&BaseHandler{}).HandleError(c, nil)
	assert.Empty(t, w.Body.String())
}

type bindPayload struct {
	Name   string          `json:"name" binding:"required,max=5"`
	Amount decimal.Decimal `json:"amount" binding:"decimal_gte0"`
}

type optionalPayload struct {
	Reason string `json:"reason" binding:"max=5"`
}

func TestBaseHandler_BindJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		ok        bool
		wantCode  string
		wantField string
	}{
		{"valid", `{"name":"ok","amount":"1.50"}`, true, "", ""},
		{"missing required", `{"amount":"1"}`, false, dto.ErrCodeValidation, "name"},
		{"negative decimal", `{"name":"ok","amount":"-1"}`, false, dto.ErrCodeValidation, "amount"},
		{"malformed", `{"name":`, false, dto.ErrCodeInvalidJSON, ""},
		{"empty body", ``, false, dto.ErrCodeInvalidJSON, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodPost, "/", tt.body)
			var req bindPayload
			ok := (&BaseHandler{}).bindJSON(c, &req)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, "ok", req.Name)
				assert.True(t, req.Amount.Equal(decimal.RequireFromString("1.5")))
				return
			}
			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			if tt.wantField != "" {
				require.Len(t, resp.Error.Details, 1)
				assert.Equal(t, tt.wantField, resp.Error.Details[0].Field)
			}
		})
	}
}

func TestBaseHandler_BindOptionalJSON(t *testing.T) {
	t.Run("empty body is the zero value", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", "")
		var req optionalPayload
		assert.True(t, (&BaseHandler{}).bindOptionalJSON(c, &req))
		assert.Empty(t, req.Reason)
	})
	t.Run("present body is still validated", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", `{"reason":"far too long"}`)
		var req optionalPayload
		assert.False(t, (&BaseHandler{}).bindOptionalJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	id := uuid.New()
	c, _ := newContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := (&BaseHandler{}).pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok = (&BaseHandler{}).pathID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidID, decodeResponse(t, w).Error.Code)
}

func TestBaseHandler_Actor(t *testing.T) {
	userID := uuid.New()
	c, _ := newContext(http.MethodGet, "/", "")
	c.Set(middleware.JWTUserIDKey, userID.String())
	got, ok := (&BaseHandler{}).actor(c)
	assert.True(t, ok)
	assert.Equal(t, userID, got)

	c, w := newContext(http.MethodGet, "/", "")
	_, ok = (&BaseHandler{}).actor(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRespondPage(t *testing.T) {
	t.Run("meta and items", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", "")
		page := shared.NewPaginated([]string{"a", "b"}, 12, 2, 5)
		respondPage(&BaseHandler{}, c, page, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, []any{"a", "b"}, resp.Data)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(12), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 5, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})
	t.Run("nil items render as empty list", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", "")
		respondPage(&BaseHandler{}, c, shared.Paginated[string]{Page: 1, PageSize: 20}, nil)
		assert.JSONEq(t, `[]`, string(mustMarshal(t, decodeResponse(t, w).Data)))
	})
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}
