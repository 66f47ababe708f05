package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationPayload struct {
	Email   string           `json:"email" binding:"required,email"`
	Name    string           `json:"name" binding:"required,min=2,max=10"`
	Status  string           `json:"status" binding:"omitempty,serial_status"`
	Amount  decimal.Decimal  `json:"amount" binding:"decimal_gte0"`
	Penalty *decimal.Decimal `json:"penalty" binding:"omitempty,decimal_gte0"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/validate", func(c *gin.Context) {
		var req validationPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postValidate(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestValidation_Accepts(t *testing.T) {
	router := validationRouter()

	bodies := []string{
		`{"email":"a@b.io","name":"Ann","amount":"0"}`,
		`{"email":"a@b.io","name":"Ann","amount":"12.50","status":"inrepair","penalty":"1"}`,
		`{"email":"a@b.io","name":"Ann","amount":3}`,
	}
	for _, body := range bodies {
		assert.Equal(t, http.StatusOK, postValidate(router, body).Code, body)
	}
}

func TestValidation_RejectsWithJSONFieldNames(t *testing.T) {
	router := validationRouter()

	w := postValidate(router, `{"email":"nope","name":"A","amount":"-1","status":"Lost","penalty":"-0.01"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	info := decodeError(t, w)
	assert.Equal(t, "ERR_VALIDATION", info.Code)
	assert.NotEmpty(t, info.RequestID)

	got := map[string]string{}
	for _, d := range info.Details {
		got[d.Field] = d.Message
	}
	assert.Equal(t, "Invalid email format", got["email"])
	assert.Equal(t, "Must be at least 2 characters", got["name"])
	assert.Equal(t, "Must not be negative", got["amount"])
	assert.Equal(t, "Must not be negative", got["penalty"])
	assert.Equal(t, "Invalid serial number status", got["status"])
}

func TestValidation_RequiredFields(t *testing.T) {
	w := postValidate(validationRouter(), `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := map[string]string{}
	for _, d := range decodeError(t, w).Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["email"])
	assert.Equal(t, "This field is required", fields["name"])
}
