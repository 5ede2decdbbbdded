package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/showtime-booking/api"
	"github.com/metinatakli/showtime-booking/internal/domain"
	appvalidator "github.com/metinatakli/showtime-booking/internal/validator"
)

const (
	ErrInternalServer   = "The server encountered a problem and could not process your request"
	ErrNotFound         = "The requested resource not found"
	ErrMethodNotAllowed = "The requested method is not supported for this resource"
	ErrFailedValidation = "One or more fields are invalid"
	ErrHoldIdMissing    = "No hold id was given and the session holds none"
	ErrSeatsUnavailable = "Some of the selected seats are no longer available"
	ErrAlreadyCancelled = "The reservation has already been cancelled"
	ErrHoldExpired      = "Your selections have expired, please select your seats again"
	ErrShowtimeInUse    = "The showtime has confirmed reservations or seats on hold"
	ErrMovieInUse       = "The movie still has scheduled showtimes"
	ErrUnknownMovie     = "must reference a movie in the catalog"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.contextGetLogger(r).Error(err.Error(), "method", method, "uri", uri)
}

// writeError sends resp with the request id and timestamp filled in.
func (app *Application) writeError(w http.ResponseWriter, r *http.Request, status int, resp api.ErrorResponse) {
	resp.RequestId = middleware.GetReqID(r.Context())
	resp.Timestamp = time.Now()

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *Application) errorResponse(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	code api.ErrorCode,
	message string) {

	app.writeError(w, r, status, api.ErrorResponse{Error: code, Message: message})
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, api.CodeInternal, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, api.CodeNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, api.CodeMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, api.CodeBadRequest, err.Error())
}

// invalidParamResponse reports path and query parameters the router could not bind.
func (app *Application) invalidParamResponse(w http.ResponseWriter, r *http.Request, err error) {
	var formatErr *api.InvalidParamFormatError
	if errors.As(err, &formatErr) {
		err = fmt.Errorf("%s has an invalid format", formatErr.ParamName)
	}

	app.badRequestResponse(w, r, err)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ErrorResponse{
		Error:            api.CodeValidationFailed,
		Message:          ErrFailedValidation,
		ValidationErrors: make([]api.ValidationError, 0, len(validationErrs)),
	}

	for _, fieldErr := range validationErrs {
		resp.ValidationErrors = append(resp.ValidationErrors, api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		})
	}

	app.writeError(w, r, http.StatusUnprocessableEntity, resp)
}

// bookingErrorResponse maps errors from the booking coordinator and the
// repositories onto their HTTP responses.
func (app *Application) bookingErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		conflictErr *domain.SeatConflictError
		invalidErr  *domain.InvalidSeatsError
		paymentErr  *domain.PaymentError
	)

	switch {
	case errors.As(err, &conflictErr):
		app.writeError(w, r, http.StatusConflict, api.ErrorResponse{
			Error:     api.CodeSeatConflict,
			Message:   ErrSeatsUnavailable,
			Conflicts: conflictErr.Seats,
		})

	case errors.As(err, &invalidErr):
		app.writeError(w, r, http.StatusUnprocessableEntity, api.ErrorResponse{
			Error:   api.CodeValidationFailed,
			Message: invalidErr.Error(),
			ValidationErrors: []api.ValidationError{
				{Field: "seat_labels", Issue: invalidErr.Error()},
			},
		})

	case errors.Is(err, domain.ErrHoldExpired):
		if err != domain.ErrHoldExpired {
			// Expired after the charge went through; the refund outcome is in err.
			app.logError(r, err)
		}
		app.errorResponse(w, r, http.StatusGone, api.CodeHoldExpired, ErrHoldExpired)

	case errors.As(err, &paymentErr):
		app.errorResponse(w, r, http.StatusPaymentRequired, api.CodePaymentFailed, paymentErr.Error())

	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)

	case errors.Is(err, domain.ErrAlreadyCancelled):
		app.errorResponse(w, r, http.StatusConflict, api.CodeAlreadyCancelled, ErrAlreadyCancelled)

	case errors.Is(err, domain.ErrShowtimeInUse):
		app.errorResponse(w, r, http.StatusConflict, api.CodeInUse, ErrShowtimeInUse)

	case errors.Is(err, domain.ErrMovieInUse):
		app.errorResponse(w, r, http.StatusConflict, api.CodeInUse, ErrMovieInUse)

	case errors.Is(err, domain.ErrUnknownMovie):
		app.fieldErrorResponse(w, r, "movie_id", ErrUnknownMovie)

	default:
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) fieldErrorResponse(w http.ResponseWriter, r *http.Request, field, issue string) {
	app.writeError(w, r, http.StatusUnprocessableEntity, api.ErrorResponse{
		Error:            api.CodeValidationFailed,
		Message:          ErrFailedValidation,
		ValidationErrors: []api.ValidationError{{Field: field, Issue: issue}},
	})
}
