package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

var (
	// ErrStoreUnavailable means the backing store could not be reached. Callers must not
	// assume the write happened; nothing below this layer retries.
	ErrStoreUnavailable = errors.New("rating store unavailable")
	ErrItemNotFound     = errors.New("menu item not found")
)

// unavailable wraps err with ErrStoreUnavailable when it looks like a connectivity failure
// and leaves every other error untouched.
func unavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	if isConnectivityError(err) {
		return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isConnectivityError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, context.DeadlineExceeded)
}
