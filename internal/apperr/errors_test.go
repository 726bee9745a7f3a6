package apperr

import (
	"errors"
	"net/http"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		err := pkgerrors.Wrap(Validation("quantity", "only %d items available", 3), "add line")
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
	})

	t.Run("not found", func(t *testing.T) {
		err := NotFound("order", 42)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "order 42 not found", err.Error())
		assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	})

	t.Run("remote keeps client status", func(t *testing.T) {
		err := &RemoteError{Op: "create order", Status: http.StatusConflict, Message: "Insufficient stock"}
		assert.ErrorIs(t, err, ErrRemote)
		assert.Equal(t, "Insufficient stock", err.Error())
		assert.Equal(t, http.StatusConflict, HTTPStatus(err))
	})

	t.Run("remote server failure is a bad gateway", func(t *testing.T) {
		err := &RemoteError{Op: "list orders", Status: http.StatusInternalServerError, Message: "boom"}
		assert.Equal(t, http.StatusBadGateway, HTTPStatus(err))
	})

	t.Run("race warning is not fatal", func(t *testing.T) {
		err := &RaceWarning{Op: "submit order", Err: errors.New("timeout")}
		assert.ErrorIs(t, err, ErrStale)
		assert.True(t, IsWarning(err))
		assert.Equal(t, http.StatusOK, HTTPStatus(err))
	})
}

func TestBannerFor(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Nil(t, BannerFor(nil, now))

	b := BannerFor(Validation("items", "at least one item required"), now)
	require.NotNil(t, b)
	assert.Equal(t, SeverityError, b.Severity)
	assert.Equal(t, "at least one item required", b.Message)
	assert.Equal(t, now.Add(3*time.Second), b.ExpiresAt)

	w := BannerFor(&RaceWarning{Op: "delete order", Err: errors.New("x")}, now)
	require.NotNil(t, w)
	assert.Equal(t, SeverityWarning, w.Severity)

	s := Success("Order created successfully!", now)
	assert.Equal(t, SeveritySuccess, s.Severity)
}
