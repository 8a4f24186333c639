package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"walletbridge/relay/internal/model"
)

func TestParseStatus(t *testing.T) {
	for _, s := range []model.Status{
		model.StatusInitialized,
		model.StatusRetrieved,
		model.StatusCompleted,
	} {
		parsed, err := model.ParseStatus(s.String())
		require.NoError(t, err)
		require.Equal(t, s, parsed)
	}
}

func TestParseStatusRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "Initialized", "done", "unknown"} {
		_, err := model.ParseStatus(s)
		require.Error(t, err, "status %q should be rejected", s)
	}
}
