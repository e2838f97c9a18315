package sitevec_test

import (
	"testing"

	"github.com/fwojciec/sitevec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		run     sitevec.Run
		wantErr string
	}{
		{
			name: "valid",
			run:  sitevec.Run{SeedURL: "https://example.com", TargetID: "vs_1"},
		},
		{
			name:    "missing seed",
			run:     sitevec.Run{TargetID: "vs_1"},
			wantErr: "run seed URL required",
		},
		{
			name:    "missing target",
			run:     sitevec.Run{SeedURL: "https://example.com"},
			wantErr: "run target ID required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.run.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, sitevec.EINVALID, sitevec.ErrorCode(err))
			assert.Equal(t, tt.wantErr, sitevec.ErrorMessage(err))
		})
	}
}

func TestUpload_Validate(t *testing.T) {
	t.Parallel()

	err := (&sitevec.Upload{}).Validate()

	require.Error(t, err)
	assert.Equal(t, sitevec.EINVALID, sitevec.ErrorCode(err))
}
