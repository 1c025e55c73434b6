package httpx

import (
	"errors"
	"net/http"

	"github.com/po-mobile/po-gateway/internal/odata"
)

// Sentinel errors raised by handlers and services.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
)

// RespondError maps service and upstream errors to RFC7807 responses. Upstream
// failures surface as gateway errors so the client can tell "the backend is
// down" apart from "no data matched".
func RespondError(w http.ResponseWriter, err error) {
	var reqErr *odata.RequestError
	var statusErr *odata.StatusError
	var parseErr *odata.ParseError

	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, odata.ErrAuth):
		Problem(w, http.StatusBadGateway, "Upstream Authentication Failed", "the SAP backend rejected the service credentials")
	case errors.As(err, &reqErr):
		if reqErr.Timeout() {
			Problem(w, http.StatusGatewayTimeout, "Upstream Timeout", "the SAP backend did not respond in time")
			return
		}
		Problem(w, http.StatusBadGateway, "Upstream Unreachable", "the SAP backend could not be reached")
	case errors.As(err, &statusErr):
		if statusErr.Status == http.StatusNotFound {
			Problem(w, http.StatusNotFound, "Not Found", "the requested entity does not exist")
			return
		}
		Problem(w, http.StatusBadGateway, "Upstream Error", statusErr.Error())
	case errors.As(err, &parseErr):
		Problem(w, http.StatusBadGateway, "Upstream Response Invalid", "the SAP backend returned an unreadable response")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
