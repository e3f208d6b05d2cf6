package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{gorm.ErrDuplicatedKey, true},
		{fmt.Errorf("create user: %w", gorm.ErrDuplicatedKey), true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "ux_users_email" (SQLSTATE 23505)`), true},
		{errors.New("Error 1062 (23000): Duplicate entry 'owner@example.com' for key 'ux_users_email'"), true},
		{errors.New("UNIQUE constraint failed: users.email"), true},
		{errors.New("connection refused"), false},
		{gorm.ErrRecordNotFound, false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, IsDuplicateKeyErr(tc.err), "err=%v", tc.err)
	}
}
