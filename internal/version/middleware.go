package version

import (
	"errors"
	"fmt"
	"net/http"

	"customer-accounts/internal/httputil"
	"customer-accounts/internal/logging"
)

// Require is chi middleware applying the gate to every request that passes
// through it. Both a malformed and a too-old version answer 422: the caller
// must upgrade, resubmitting the same request cannot succeed.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(HeaderName)

		if err := g.Check(header); err != nil {
			logger := logging.GetLoggerFromContext(r.Context())

			if errors.Is(err, ErrVersionTooOld) {
				logger.Warn("request rejected: client version too old", "client_version", header)
				httputil.RespondErrorWithCode(w,
					fmt.Sprintf("header client-version '%s' is lower than %s", header, g.Min()),
					httputil.CodeVersionTooOld, http.StatusUnprocessableEntity)
				return
			}

			logger.Warn("request rejected: malformed client version", "client_version", header)
			httputil.RespondErrorWithCode(w,
				fmt.Sprintf("header client-version '%s' is not valid", header),
				httputil.CodeMalformedVersion, http.StatusUnprocessableEntity)
			return
		}

		next.ServeHTTP(w, r)
	})
}
