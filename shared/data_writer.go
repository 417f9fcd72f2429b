package shared

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

var JSONAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

var (
	successResponse       = mustMarshal(Response{Code: fiber.StatusOK, Message: "Success"})
	notFoundResponse      = mustMarshal(Response{Code: fiber.StatusNotFound, Message: "Not Found"})
	unauthorizedResponse  = mustMarshal(Response{Code: fiber.StatusUnauthorized, Message: "Unauthorized"})
	internalErrorResponse = mustMarshal(Response{Code: fiber.StatusInternalServerError, Message: "Internal Server Error"})
)

func mustMarshal(v interface{}) []byte {
	b, _ := JSONAPI.Marshal(v)
	return b
}

func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	if data == nil {
		switch {
		case httpCode == fiber.StatusOK && message == "Success":
			return c.Status(httpCode).Send(successResponse)
		case httpCode == fiber.StatusNotFound && message == "Not Found":
			return c.Status(httpCode).Send(notFoundResponse)
		case httpCode == fiber.StatusUnauthorized && message == "Unauthorized":
			return c.Status(httpCode).Send(unauthorizedResponse)
		case httpCode == fiber.StatusInternalServerError && message == "Internal Server Error":
			return c.Status(httpCode).Send(internalErrorResponse)
		}
	}

	body, err := JSONAPI.Marshal(Response{
		Code:    httpCode,
		Message: message,
		Data:    data,
	})
	if err != nil {
		return err
	}
	return c.Status(httpCode).Send(body)
}

func ResponseOK(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusOK, "Success", data)
}

func ResponseCreated(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusCreated, "Created", data)
}

// ErrorHandler is the fiber error handler that renders AppError values.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appErr := GetAppError(err)
	return ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
}
