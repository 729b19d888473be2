package errors

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ExitError
		want string
	}{
		{
			name: "with underlying error",
			err:  NewExitError(errors.New("something broke"), ExitSystem),
			want: "something broke",
		},
		{
			name: "nil underlying error",
			err:  NewExitError(nil, ExitUser),
			want: "exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestExitError_Unwrap(t *testing.T) {
	underlying := ErrNotFound
	err := NewUserError(underlying, "check the target path")

	assert.True(t, errors.Is(err, ErrNotFound))

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, ExitUser, exitErr.Code)
	assert.Equal(t, "check the target path", exitErr.Suggestion)
}

func TestNewConfigError_MarksInvalidConfig(t *testing.T) {
	err := NewConfigError(errors.New("bad yaml"))

	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Equal(t, ExitUser, err.Code)
	assert.NotEmpty(t, err.Suggestion)
}

func TestSentinels_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrInvalidResource,
		ErrStoreWriteFailed,
		ErrFileWriteFailed,
		ErrRollbackPartial,
		ErrArchiveFailed,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
		}
	}
}

func TestWrappedSentinel_SurvivesWrapf(t *testing.T) {
	err := errors.Wrapf(ErrRollbackPartial, "restored 2 of 5 steps")
	assert.True(t, errors.Is(err, ErrRollbackPartial))
	assert.Contains(t, err.Error(), "restored 2 of 5")
}
