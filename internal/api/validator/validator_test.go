package validator_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ITyukz11/payops/internal/api/validator"
	"github.com/ITyukz11/payops/internal/constants"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusRequest struct {
	Status string `json:"status" validate:"required,request_status"`
}

func TestXValidator_Validator(t *testing.T) {
	xv := validator.NewXValidator(playground.New(), nil)

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var request statusRequest
		if responseErr := xv.Validator(&request, constants.MessageErrorFormat, c); responseErr.Code != "" {
			return c.JSON(responseErr)
		}
		return c.SendString(request.Status)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{name: "valid status", body: `{"status":"COMPLETED"}`, wantStatus: 200, wantBody: "COMPLETED"},
		{name: "unknown status", body: `{"status":"DONE"}`, wantStatus: 400, wantBody: "Status is invalid"},
		{name: "missing status", body: `{}`, wantStatus: 400, wantBody: constants.ErrCodeValidationFailed},
		{name: "broken json", body: `{"status":`, wantStatus: 400, wantBody: constants.ErrCodeInvalidRequestBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)

			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}
