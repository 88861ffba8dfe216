package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/shiftguard/pkg/core/rules"
)

func TestSampleInput_PassesValidation(t *testing.T) {
	in, err := SampleInput("2026-02")

	require.NoError(t, err)
	require.NoError(t, in.Validate())
	assert.Len(t, in.Staff, 6)
	assert.Len(t, in.ShiftTypes, 2)
}

func TestSampleInput_OffDatesFollowMonth(t *testing.T) {
	in, err := SampleInput("2026-06")

	require.NoError(t, err)
	require.NoError(t, in.Validate())
	assert.Contains(t, in.Staff[0].OffDates, "2026-06-11")
}

func TestSampleInput_BadMonth(t *testing.T) {
	_, err := SampleInput("June 2026")
	assert.Error(t, err)
}

func TestSampleRules_ParseCleanly(t *testing.T) {
	rs, err := rules.Parse(SampleRules())

	require.NoError(t, err)
	assert.Equal(t, 5, rs.HardCount())
	assert.Equal(t, 2, rs.SoftCount())
}

func TestWriteSampleInput_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample_input.yaml")

	require.NoError(t, WriteSampleInput(path, "2026-02"))

	in, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2026-02", in.Month)
	assert.Len(t, in.Staff, 6)
	assert.Equal(t, 3, in.Demand.Defaults["DAY"])
	assert.Equal(t, 2, in.Demand.Defaults["NIGHT"])
}
