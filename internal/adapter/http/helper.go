package http

import (
	"errors"
	"net/http"

	invDomain "lending-ledger/internal/domain/investment"
	loanDomain "lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/uow"
	userDomain "lending-ledger/internal/domain/user"
)

// statusFromErr maps the engine's typed errors onto HTTP statuses. The
// error taxonomy is closed, so anything unknown is a 500.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, invDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrNotFound),
		errors.Is(err, loanDomain.ErrInstallmentNotFound),
		errors.Is(err, userDomain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, invDomain.ErrInvalidAmount),
		errors.Is(err, invDomain.ErrInvalidInput),
		errors.Is(err, loanDomain.ErrInvalidInput),
		errors.Is(err, loanDomain.ErrInvalidPenalty):
		return http.StatusBadRequest
	case errors.Is(err, invDomain.ErrNotAdmin),
		errors.Is(err, loanDomain.ErrNotBorrower):
		return http.StatusForbidden
	case errors.Is(err, invDomain.ErrNotActive),
		errors.Is(err, invDomain.ErrInvalidTransition),
		errors.Is(err, loanDomain.ErrImmutable),
		errors.Is(err, loanDomain.ErrInvalidTransition),
		errors.Is(err, loanDomain.ErrHasPaidInstallments):
		return http.StatusUnprocessableEntity
	case errors.Is(err, invDomain.ErrCapacityExceeded),
		errors.Is(err, invDomain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, loanDomain.ErrAlreadyPaid),
		errors.Is(err, loanDomain.ErrPendingLoanExists),
		errors.Is(err, uow.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errJSON(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
