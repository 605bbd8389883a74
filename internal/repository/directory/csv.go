package directory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
)

// Column names required in the header row. Matching is exact and case-sensitive;
// column order and any extra columns are irrelevant.
const (
	ColumnDeviceKey = "IP"
	ColumnLocation  = "Location"
	ColumnEmail     = "Email"
	ColumnBackup    = "Backup Email"
	ColumnReplyTo   = "Reply-To Email"
	ColumnSender    = "From Email"
)

// addressSeparator separates addresses inside one field, e.g. "a@x.edu, b@x.edu".
const addressSeparator = ","

var (
	errEmptyDirectory  = errors.New("directory has no header row")
	errMissingColumn   = errors.New("required column missing")
	errDuplicateColumn = errors.New("required column repeated")
	errEmptyValue      = errors.New("required value empty")
	errPaddedValue     = errors.New("value has surrounding whitespace")
	errBadAddress      = errors.New("invalid email address")
)

// requiredColumns lists every column an entry is built from.
//
//nolint:gochecknoglobals // Read-only lookup table.
var requiredColumns = []string{
	ColumnDeviceKey,
	ColumnLocation,
	ColumnEmail,
	ColumnBackup,
	ColumnReplyTo,
	ColumnSender,
}

// Parse decodes a directory CSV. Any malformed row fails the whole load:
// a half-read directory could silently drop the one entry that matters.
func Parse(source io.Reader) ([]*freezer.Entry, error) {
	reader := csv.NewReader(source)
	// Every row must have as many fields as the header.
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDirectory
		}

		return nil, fmt.Errorf("read header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []*freezer.Entry

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := reader.FieldPos(0)

		entry, err := parseRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// indexColumns maps each required column name to its position in the header.
func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(requiredColumns))

	for i, name := range header {
		for _, required := range requiredColumns {
			if name != required {
				continue
			}

			if _, seen := columns[name]; seen {
				return nil, fmt.Errorf("%w: %q", errDuplicateColumn, name)
			}

			columns[name] = i
		}
	}

	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: %q", errMissingColumn, required)
		}
	}

	return columns, nil
}

// parseRecord builds a validated entry from one CSV row.
func parseRecord(record []string, columns map[string]int) (*freezer.Entry, error) {
	values := make(map[string]string, len(columns))

	for _, name := range requiredColumns {
		value := record[columns[name]]

		switch {
		case value == "":
			return nil, fmt.Errorf("%w: %q", errEmptyValue, name)
		case strings.TrimSpace(value) != value:
			return nil, fmt.Errorf("%w: %q", errPaddedValue, name)
		}

		values[name] = value
	}

	recipients, err := splitAddresses(values[ColumnEmail])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ColumnEmail, err)
	}

	backup, err := splitAddresses(values[ColumnBackup])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ColumnBackup, err)
	}

	for _, name := range []string{ColumnSender, ColumnReplyTo} {
		if _, err := mail.ParseAddress(values[name]); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", name, errBadAddress, err)
		}
	}

	return &freezer.Entry{
		DeviceKey:  values[ColumnDeviceKey],
		Location:   values[ColumnLocation],
		Recipients: recipients,
		Backup:     backup,
		Sender:     values[ColumnSender],
		ReplyTo:    values[ColumnReplyTo],
	}, nil
}

// splitAddresses splits a comma separated address list, keeping file order
// and dropping the space that follows each comma.
func splitAddresses(value string) ([]string, error) {
	parts := strings.Split(value, addressSeparator)
	addresses := make([]string, 0, len(parts))

	for _, part := range parts {
		address := strings.TrimSpace(part)
		if _, err := mail.ParseAddress(address); err != nil {
			return nil, fmt.Errorf("%w %q: %w", errBadAddress, address, err)
		}

		addresses = append(addresses, address)
	}

	return addresses, nil
}
