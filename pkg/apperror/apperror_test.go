package apperror_test

import (
	"fmt"
	"net/http"
	"testing"

	"expoflow/pkg/apperror"

	"github.com/stretchr/testify/assert"
)

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("create order: %w", apperror.Validation("product %s is not approved", "p1"))

	assert.ErrorIs(t, err, apperror.ErrValidationFailed)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
	assert.Equal(t, "product p1 is not approved", apperror.Validation("product %s is not approved", "p1").Error())
}

func TestWithCopiesDetails(t *testing.T) {
	base := apperror.Validation("bad")
	withID := base.With("product_id", "p1")
	withName := withID.With("product_name", "Widget")

	assert.Nil(t, base.Details)
	assert.Equal(t, map[string]string{"product_id": "p1"}, withID.Details)
	assert.Equal(t, map[string]string{"product_id": "p1", "product_name": "Widget"}, apperror.DetailsOf(withName))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		apperror.Unauthenticated("x"): http.StatusUnauthorized,
		apperror.Forbidden("x"):       http.StatusForbidden,
		apperror.NotFound("x"):        http.StatusNotFound,
		apperror.Validation("x"):      http.StatusBadRequest,
		apperror.Conflict("x"):        http.StatusConflict,
		fmt.Errorf("boom"):            http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, apperror.HTTPStatus(err), err.Error())
	}
}
