package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"current", ChannelCurrent, true},
		{"Current Channel", ChannelCurrent, true},
		{"monthly", ChannelMonthlyEnterprise, true},
		{"Monthly Enterprise Channel", ChannelMonthlyEnterprise, true},
		{"sac", ChannelSemiAnnual, true},
		{"semi-annual", ChannelSemiAnnual, true},
		{"Semi-Annual Enterprise Channel", ChannelSemiAnnual, true},
		{"sacpreview", ChannelSemiAnnualPreview, true},
		{"Semi-Annual Enterprise Channel (Preview)", ChannelSemiAnnualPreview, true},
		{"insider", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseChannel(tt.input)
		assert.Equal(t, tt.ok, ok, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

func TestChannelArtifact(t *testing.T) {
	for _, ch := range AllChannels {
		name, ok := ChannelArtifact(ch)
		require.True(t, ok, "channel %q", ch)
		assert.NotEmpty(t, name)
	}

	_, ok := ChannelArtifact("Beta Channel")
	assert.False(t, ok)
}

func TestFilterChannel(t *testing.T) {
	d := &Office365VersionsData{
		Data: []Office365Version{
			{Channel: ChannelCurrent, Version: "2312", ReleaseDateParsed: time.Date(2023, 12, 12, 0, 0, 0, 0, time.UTC)},
			{Channel: ChannelMonthlyEnterprise, Version: "2311"},
			{Channel: ChannelCurrent, Version: "2401", ReleaseDateParsed: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)},
		},
	}

	got := d.FilterChannel(ChannelCurrent)
	require.Len(t, got, 2)
	assert.Equal(t, "2401", got[0].Version)
	assert.Equal(t, "2312", got[1].Version)

	// Receiver order is untouched.
	assert.Equal(t, "2312", d.Data[0].Version)
}

func TestSortOffice365VersionsDesc_UndatedSinkToEnd(t *testing.T) {
	versions := []Office365Version{
		{Version: "undated-a"},
		{Version: "2401", ReleaseDateParsed: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)},
		{Version: "undated-b"},
		{Version: "2402", ReleaseDateParsed: time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC)},
	}

	SortOffice365VersionsDesc(versions)

	assert.Equal(t, "2402", versions[0].Version)
	assert.Equal(t, "2401", versions[1].Version)
	// Stable sort keeps the undated entries in input order.
	assert.Equal(t, "undated-a", versions[2].Version)
	assert.Equal(t, "undated-b", versions[3].Version)
}

func TestOkAndFailResponse(t *testing.T) {
	at := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	ok := OkResponse("payload", at, SourceStorage)
	assert.True(t, ok.Success)
	assert.Equal(t, "payload", ok.Data)
	assert.Equal(t, at, ok.LastUpdatedUTC)
	assert.Equal(t, SourceStorage, ok.Source)

	fail := FailResponse("data not yet available")
	assert.False(t, fail.Success)
	assert.Equal(t, "data not yet available", fail.Message)
	assert.Nil(t, fail.Data)
}
