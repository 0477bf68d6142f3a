package decode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePackedLineRoundTrip(t *testing.T) {
	record, err := DecodePackedLine("{C001_Jane Doe_jane@example.com_1990-05-01_123 Main St_2021-01-01}")
	require.NoError(t, err)

	assert.Equal(t, "C001", record.CustomerID)
	assert.Equal(t, "Jane Doe", record.Name)
	assert.Equal(t, "jane@example.com", record.Email)
	assert.Equal(t, time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), record.DateOfBirth)
	assert.Equal(t, "123 Main St", record.Address)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), record.CreatedDate)
}

func TestDecodePackedLineTrimsWhitespace(t *testing.T) {
	record, err := DecodePackedLine("  {C002_Bob_bob@shop.io_1985-02-10_9 Side Rd_2020-06-30}\n")
	require.NoError(t, err)
	assert.Equal(t, "C002", record.CustomerID)
}

func TestDecodePackedLineRejections(t *testing.T) {
	cases := map[string]string{
		"no braces":      "not a record",
		"missing close":  "{C001_Jane_j@x.com_1990-05-01_Main St",
		"too few parts":  "{C001_Jane_j@x.com_1990-05-01_Main St}",
		"bad email":      "{C001_Jane_janeexample.com_1990-05-01_Main St_2021-01-01}",
		"no domain dot":  "{C001_Jane_jane@examplecom_1990-05-01_Main St_2021-01-01}",
		"bad dob":        "{C001_Jane_j@x.com_05/01/1990_Main St_2021-01-01}",
		"bad created":    "{C001_Jane_j@x.com_1990-05-01_Main St_notadate}",
		"empty customer": "{_Jane_j@x.com_1990-05-01_Main St_2021-01-01}",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodePackedLine(line)
			assert.Error(t, err)
		})
	}
}

func TestDecodePackedLineAddressWithSpaces(t *testing.T) {
	record, err := DecodePackedLine("{C003_Ann_ann@a.io_1999-09-09_Unit 4 West Block_2020-01-02}")
	require.NoError(t, err)
	assert.Equal(t, "Unit 4 West Block", record.Address)
}

func TestDecodeRegexLineRoundTrip(t *testing.T) {
	record, err := DecodeRegexLine("{C123|Jane Doe|jane@example.com|1990-05-01|123 Main St|44200.5}")
	require.NoError(t, err)

	assert.Equal(t, "C123", record.CustomerID)
	assert.Equal(t, "Jane Doe", record.Name)
	assert.Equal(t, "jane@example.com", record.Email)
	assert.Equal(t, time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), record.DateOfBirth)
	assert.Equal(t, "123 Main St", record.Address)
	assert.Equal(t, SerialToDate(44200.5), record.CreatedDate)
}

func TestSerialToDateEpoch(t *testing.T) {
	// Day 0 of the spreadsheet serial convention is 1899-12-30.
	assert.Equal(t, time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC), SerialToDate(0))
	assert.Equal(t, time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), SerialToDate(2))
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), SerialToDate(44197))
	// Fractional day parts are time of day and get truncated.
	assert.Equal(t, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), SerialToDate(44200.5))
}

func TestDecodeRegexLineRejections(t *testing.T) {
	cases := map[string]string{
		"no braces":        "not a record",
		"id missing C":     "{123|Jane|j@x.com|1990-05-01|Main St|44200}",
		"missing field":    "{C123|Jane|j@x.com|1990-05-01|44200}",
		"bad email":        "{C123|Jane|jx.com|1990-05-01|Main St|44200}",
		"bad dob format":   "{C123|Jane|j@x.com|01-05-1990|Main St|44200}",
		"serial not a num": "{C123|Jane|j@x.com|1990-05-01|Main St|soon}",
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRegexLine(line)
			assert.Error(t, err)
		})
	}
}

func TestDecodeBatchPackedSkipsBadLines(t *testing.T) {
	lines := []string{
		"{C001_Jane_jane@example.com_1990-05-01_Main St_2021-01-01}",
		"not a record",
		"{C002_Bob_bob@shop.io_1985-02-10_Side Rd_2020-06-30}",
	}

	result, err := DecodeBatch(lines, ModePacked)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 1, result.Skipped[0].Index)
	assert.Equal(t, "not a record", result.Skipped[0].Line)
}

func TestDecodeBatchRegexRejectsWholeBatch(t *testing.T) {
	lines := []string{
		"{C123|Jane|jane@example.com|1990-05-01|Main St|44200}",
		"not a record",
	}

	_, err := DecodeBatch(lines, ModeRegex)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
}

func TestDecodeBatchRegexAllValid(t *testing.T) {
	lines := []string{
		"{C123|Jane|jane@example.com|1990-05-01|Main St|44200}",
		"{C456|Bob|bob@shop.io|1985-02-10|Side Rd|44300}",
	}

	result, err := DecodeBatch(lines, ModeRegex)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Empty(t, result.Skipped)
}

func TestSniff(t *testing.T) {
	assert.Equal(t, ModeRegex, Sniff([]string{"{C1|a|a@b.c|1990-01-01|x|44200}"}))
	assert.Equal(t, ModePacked, Sniff([]string{"{C1_a_a@b.c_1990-01-01_x_2021-01-01}"}))
	// Non-braced junk is ignored when sniffing.
	assert.Equal(t, ModeRegex, Sniff([]string{"garbage", "{C1|a|a@b.c|1990-01-01|x|44200}"}))
	assert.Equal(t, ModePacked, Sniff(nil))
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode(" Packed ")
	require.NoError(t, err)
	assert.Equal(t, ModePacked, mode)

	mode, err = ParseMode("regex")
	require.NoError(t, err)
	assert.Equal(t, ModeRegex, mode)

	_, err = ParseMode("csv")
	assert.Error(t, err)
}
