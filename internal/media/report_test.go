package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/appmarket/appship/internal/common"
)

func TestSummaryCounts(t *testing.T) {
	s := NewSummary()
	s.Succeed()
	s.Succeed()
	s.Skip()
	s.Fail("en-US/PHONE_65/a.png", errors.New("boom"))

	require.Equal(t, 2, s.Succeeded)
	require.Equal(t, 1, s.Failed)
	require.Equal(t, 1, s.Skipped)
	require.Equal(t, "succeeded 2, failed 1, skipped 1", s.String())
	require.False(t, s.Ok())
	require.ErrorContains(t, s.Err(), "a.png: boom")
}

func TestSummaryEmptyIsOk(t *testing.T) {
	s := NewSummary()
	require.True(t, s.Ok())
	require.NoError(t, s.Err())
	require.Equal(t, "succeeded 0, failed 0, skipped 0", s.String())
}

func TestSummaryFailSetCountsEveryFile(t *testing.T) {
	s := NewSummary()
	s.FailSet(SetKey{"en-US", "PHONE_65", KindScreenshot}, 3, common.ErrorCardinalityMismatch)

	require.Equal(t, 3, s.Failed)
	require.ErrorIs(t, s.Err(), common.ErrorCardinalityMismatch)
	require.ErrorContains(t, s.Err(), "set en-US/PHONE_65/screenshot")
}

func TestSummaryKeepsEveryError(t *testing.T) {
	s := NewSummary()
	s.Fail("x.png", common.ErrorTransport)
	s.Fail("y.png", common.ErrorIntegrity)
	s.AddError(errors.New("reorder hiccup"))

	require.ErrorIs(t, s.Err(), common.ErrorTransport)
	require.ErrorIs(t, s.Err(), common.ErrorIntegrity)
	require.ErrorContains(t, s.Err(), "reorder hiccup")
	require.False(t, s.Ok())
}
