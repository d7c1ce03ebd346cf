package http

import (
	"errors"
	"net/http"

	"github.com/spec-kit/expense-service/internal/repository"
	apperrors "github.com/spec-kit/expense-service/pkg/util/errorutil"
)

// toDomainError maps storage sentinels that escaped the services, then defers
// to errorutil for everything else.
func toDomainError(err error) *apperrors.DomainError {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewDomainError(apperrors.CodeNotFound, "resource not found", http.StatusNotFound, nil)
	case errors.Is(err, repository.ErrEmailExists):
		return apperrors.ToDomainError(apperrors.NewEmailExists())
	case errors.Is(err, repository.ErrStatusConflict):
		return apperrors.NewDomainError(apperrors.CodeConflict, "ticket status changed", http.StatusConflict, nil)
	}
	return apperrors.ToDomainError(err)
}
