package decode

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

// Mode selects which customer line encoding a batch uses. The two encodings
// carry different failure policies: packed skips bad lines, regex rejects the
// whole batch on the first unmatched field. Callers must not unify them.
type Mode string

const (
	// ModePacked is the brace/underscore encoding with per-line validation.
	ModePacked Mode = "packed"
	// ModeRegex is the brace/pipe encoding with full-batch validation.
	ModeRegex Mode = "regex"
)

// ParseMode maps a caller-supplied mode name onto a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ModePacked):
		return ModePacked, nil
	case string(ModeRegex):
		return ModeRegex, nil
	}
	return "", fmt.Errorf("unknown decoder mode %q", value)
}

// Record is one decoded customer line. Immutable once decoded; a later batch
// supersedes it instead of mutating it.
type Record struct {
	CustomerID  string    `json:"customer_id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Email       string    `json:"email" validate:"required,directory_email"`
	DateOfBirth time.Time `json:"date_of_birth" validate:"required"`
	Address     string    `json:"address" validate:"required"`
	CreatedDate time.Time `json:"created_date" validate:"required"`
}

// SkippedLine notes a line the packed decoder rejected without aborting.
type SkippedLine struct {
	Index int
	Line  string
	Err   error
}

// BatchResult holds the outcome of decoding one customer sheet.
type BatchResult struct {
	Records []Record
	Skipped []SkippedLine
}

const (
	dateLayout = "2006-01-02"
	fieldCount = 6
)

// serialEpoch is day 0 of the spreadsheet date serial convention.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// pipePattern captures the six fields of the brace/pipe encoding: customer id
// (C + digits), name, email (must carry @ and a dotted domain), ISO date of
// birth, address, numeric spreadsheet date serial.
var pipePattern = regexp.MustCompile(
	`^(C\d+)\|([^|]+)\|([^|@\s]+@[^|@\s]+\.[^|@\s]+)\|(\d{4}-\d{2}-\d{2})\|([^|]+)\|(\d+(?:\.\d+)?)$`,
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// The directory accepts any address with an @ and a dotted domain; the
	// stock email rule is stricter than the extracts have historically been.
	_ = v.RegisterValidation("directory_email", func(fl validator.FieldLevel) bool {
		return emailish(fl.Field().String())
	})
	return v
}

func emailish(value string) bool {
	at := strings.Index(value, "@")
	if at <= 0 || at == len(value)-1 {
		return false
	}
	domain := value[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// Sniff picks the decoding mode by inspecting the first braced line: a pipe
// inside the braces means the pipe/regex encoding.
func Sniff(lines []string) Mode {
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			continue
		}
		if strings.Contains(line[1:len(line)-1], "|") {
			return ModeRegex
		}
		return ModePacked
	}
	return ModePacked
}

// DecodeBatch decodes every line of a customer sheet under the given mode.
//
// Packed mode skips malformed lines and reports them in Skipped. Regex mode
// aggregates every line failure and rejects the whole batch when any line is
// malformed.
func DecodeBatch(lines []string, mode Mode) (*BatchResult, error) {
	switch mode {
	case ModePacked:
		return decodePackedBatch(lines), nil
	case ModeRegex:
		return decodeRegexBatch(lines)
	}
	return nil, fmt.Errorf("unknown decoder mode %q", mode)
}

func decodePackedBatch(lines []string) *BatchResult {
	result := &BatchResult{}
	for i, line := range lines {
		record, err := DecodePackedLine(line)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedLine{Index: i, Line: line, Err: err})
			continue
		}
		result.Records = append(result.Records, *record)
	}
	return result
}

func decodeRegexBatch(lines []string) (*BatchResult, error) {
	result := &BatchResult{}
	var batchErr error
	for i, line := range lines {
		record, err := DecodeRegexLine(line)
		if err != nil {
			batchErr = multierr.Append(batchErr, fmt.Errorf("line %d: %w", i, err))
			continue
		}
		result.Records = append(result.Records, *record)
	}
	if batchErr != nil {
		return nil, fmt.Errorf("customer batch failed full validation: %w", batchErr)
	}
	return result, nil
}

// DecodePackedLine parses one brace/underscore encoded line:
//
//	{customer_id_name_email_dob_address_createddate}
func DecodePackedLine(raw string) (*Record, error) {
	line := strings.TrimSpace(raw)
	if !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
		return nil, fmt.Errorf("line is not brace-delimited")
	}

	content := line[1 : len(line)-1]
	parts := strings.SplitN(content, "_", fieldCount)
	if len(parts) != fieldCount {
		return nil, fmt.Errorf("expected %d fields, got %d", fieldCount, len(parts))
	}

	dob, err := time.Parse(dateLayout, parts[3])
	if err != nil {
		return nil, fmt.Errorf("invalid date_of_birth %q: %w", parts[3], err)
	}
	created, err := time.Parse(dateLayout, parts[5])
	if err != nil {
		return nil, fmt.Errorf("invalid created_date %q: %w", parts[5], err)
	}

	record := &Record{
		CustomerID:  parts[0],
		Name:        parts[1],
		Email:       parts[2],
		DateOfBirth: dob,
		Address:     parts[4],
		CreatedDate: created,
	}
	if err := validate.Struct(record); err != nil {
		return nil, fmt.Errorf("invalid customer record: %w", err)
	}
	return record, nil
}

// DecodeRegexLine parses one brace/pipe encoded line:
//
//	{C123|Jane Doe|jane@example.com|1990-05-01|123 Main St|44200.5}
//
// The trailing field is a spreadsheet date serial converted against the
// 1899-12-30 epoch.
func DecodeRegexLine(raw string) (*Record, error) {
	line := strings.TrimSpace(raw)
	open := strings.Index(line, "{")
	end := strings.LastIndex(line, "}")
	if open < 0 || end <= open {
		return nil, fmt.Errorf("line is not brace-delimited")
	}

	groups := pipePattern.FindStringSubmatch(line[open+1 : end])
	if groups == nil {
		return nil, fmt.Errorf("line does not match the pipe-delimited pattern")
	}

	dob, err := time.Parse(dateLayout, groups[4])
	if err != nil {
		return nil, fmt.Errorf("invalid date_of_birth %q: %w", groups[4], err)
	}

	serial, err := strconv.ParseFloat(groups[6], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid date serial %q: %w", groups[6], err)
	}

	record := &Record{
		CustomerID:  groups[1],
		Name:        groups[2],
		Email:       groups[3],
		DateOfBirth: dob,
		Address:     groups[5],
		CreatedDate: SerialToDate(serial),
	}
	if err := validate.Struct(record); err != nil {
		return nil, fmt.Errorf("invalid customer record: %w", err)
	}
	return record, nil
}

// SerialToDate converts a spreadsheet date serial to a calendar date.
// Day 0 is 1899-12-30; fractional days (time of day) are truncated.
func SerialToDate(serial float64) time.Time {
	return serialEpoch.AddDate(0, 0, int(math.Floor(serial)))
}
