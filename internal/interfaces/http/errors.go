package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

// ErrorHandler traduce los errores de los handlers a respuestas JSON.
//
//	ValidationError → 422 {code, message, field, value, limit}
//	ErrNotFound → 404, ErrForbidden → 403, ErrUnauthorized → 401, ErrInvalidInput → 400
//	ErrConflict, ErrInvalidStatus, ErrReadOnly, ErrDuplicate, ErrInProgress → 409
//	StorageError y el resto → 500 (se registra en el log)
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	log = log.Component("http")
	return func(c *fiber.Ctx, err error) error {
		if ve, ok := domain.AsValidation(err); ok {
			body := dto.ValidationErrorResponse{
				Code:    string(ve.Kind),
				Message: ve.Error(),
				Field:   ve.Field,
			}
			if ve.HasValue {
				v := ve.Value
				body.Value = &v
			}
			if ve.HasLimit {
				l := ve.Limit
				body.Limit = &l
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
		}

		var bad *badRequestError
		if errors.As(err, &bad) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: bad.code, Message: bad.message})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: codeForStatus(fe.Code), Message: fe.Message})
		}

		status, code := statusFor(err)
		if status == fiber.StatusInternalServerError {
			companyID, _ := c.Locals(LocalCompanyID).(string)
			log.ForCompany(companyID).Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Bool("storage", domain.IsStorage(err)).
				Msg("error interno")
			return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: "error interno"})
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "INVALID_INPUT"
	case errors.Is(err, domain.ErrReadOnly):
		return fiber.StatusConflict, "READ_ONLY"
	case errors.Is(err, domain.ErrInvalidStatus):
		return fiber.StatusConflict, "INVALID_STATUS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrInProgress):
		return fiber.StatusConflict, "IN_PROGRESS"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusBadRequest:
		return "BAD_REQUEST"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	}
	return "INTERNAL"
}

// badRequestError cuerpo mal formado o que no pasa las reglas de validación del DTO.
type badRequestError struct {
	code    string
	message string
}

func (e *badRequestError) Error() string { return e.message }

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody decodifica el JSON y aplica las etiquetas validate del DTO.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &badRequestError{code: "INVALID_BODY", message: "cuerpo inválido: " + err.Error()}
	}
	return validateStruct(out)
}

// parseQuery decodifica la query string y la valida.
func parseQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return &badRequestError{code: "INVALID_QUERY", message: "parámetros inválidos: " + err.Error()}
	}
	return validateStruct(out)
}

func validateStruct(out any) error {
	err := validate.Struct(out)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &badRequestError{code: "VALIDATION", message: err.Error()}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldPath(fe.Namespace())+": "+fe.Tag())
	}
	return &badRequestError{code: "VALIDATION", message: strings.Join(msgs, "; ")}
}

// fieldPath quita el nombre del struct raíz: "CreateDocumentRequest.Items[0].ProductID" → "Items[0].ProductID".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
