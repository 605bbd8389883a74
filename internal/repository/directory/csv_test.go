package directory

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
)

const validDirectory = `Freezer Number,Location,IP,Email,Backup Email,Reply-To Email,From Email,Comments
1,BLDG 345,10.12.80.11,minus80-backup@x.edu,net-l@x.edu,ithelp@x.edu,freezer-monitor@x.edu,Backup Minus-80
2,BLDG 456,10.12.80.12,"a@x.edu, b@x.edu",net-l@x.edu,ithelp@x.edu,freezer-monitor@x.edu,
`

// TestParse_Valid checks field mapping, column order independence and address splitting.
func TestParse_Valid(t *testing.T) {
	t.Parallel()

	entries, err := Parse(strings.NewReader(validDirectory))
	require.NoError(t, err)

	want := []*freezer.Entry{
		{
			DeviceKey:  "10.12.80.11",
			Location:   "BLDG 345",
			Recipients: []string{"minus80-backup@x.edu"},
			Backup:     []string{"net-l@x.edu"},
			Sender:     "freezer-monitor@x.edu",
			ReplyTo:    "ithelp@x.edu",
		},
		{
			DeviceKey:  "10.12.80.12",
			Location:   "BLDG 456",
			Recipients: []string{"a@x.edu", "b@x.edu"},
			Backup:     []string{"net-l@x.edu"},
			Sender:     "freezer-monitor@x.edu",
			ReplyTo:    "ithelp@x.edu",
		},
	}

	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

// TestParse_HeaderOnly yields no entries and no error.
func TestParse_HeaderOnly(t *testing.T) {
	t.Parallel()

	entries, err := Parse(strings.NewReader("IP,Location,Email,Backup Email,Reply-To Email,From Email\n"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

// TestParse_Malformed covers every load error the format contract defines.
func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	const header = "IP,Location,Email,Backup Email,Reply-To Email,From Email\n"

	cases := map[string]struct {
		input string
		err   error
	}{
		"empty file": {
			input: "",
			err:   errEmptyDirectory,
		},
		"lowercase column": {
			input: "ip,Location,Email,Backup Email,Reply-To Email,From Email\n",
			err:   errMissingColumn,
		},
		"padded column": {
			input: "IP, Location,Email,Backup Email,Reply-To Email,From Email\n",
			err:   errMissingColumn,
		},
		"repeated column": {
			input: "IP,IP,Location,Email,Backup Email,Reply-To Email,From Email\n",
			err:   errDuplicateColumn,
		},
		"empty value": {
			input: header + "10.0.0.1,,a@x.edu,b@x.edu,c@x.edu,d@x.edu\n",
			err:   errEmptyValue,
		},
		"padded value": {
			input: header + "10.0.0.1 ,Room 1,a@x.edu,b@x.edu,c@x.edu,d@x.edu\n",
			err:   errPaddedValue,
		},
		"bad recipient": {
			input: header + "10.0.0.1,Room 1,\"a@x.edu, nobody\",b@x.edu,c@x.edu,d@x.edu\n",
			err:   errBadAddress,
		},
		"trailing separator": {
			input: header + "10.0.0.1,Room 1,\"a@x.edu,\",b@x.edu,c@x.edu,d@x.edu\n",
			err:   errBadAddress,
		},
		"bad sender": {
			input: header + "10.0.0.1,Room 1,a@x.edu,b@x.edu,c@x.edu,sender\n",
			err:   errBadAddress,
		},
	}

	for name, tc := range cases {
		tc := tc

		t.Run(name, func(t *testing.T) {
			t.Parallel()

			entries, err := Parse(strings.NewReader(tc.input))
			require.ErrorIs(t, err, tc.err)
			require.Nil(t, entries)
		})
	}
}

// TestParse_ShortRow ensures a row with a missing field fails the load.
func TestParse_ShortRow(t *testing.T) {
	t.Parallel()

	input := "IP,Location,Email,Backup Email,Reply-To Email,From Email\n10.0.0.1,Room 1,a@x.edu\n"

	entries, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	require.Nil(t, entries)
}

// TestParse_StableFieldError reports the same column on every load when a row
// has several bad fields.
func TestParse_StableFieldError(t *testing.T) {
	t.Parallel()

	input := "From Email,Reply-To Email,Backup Email,Email,Location,IP\n" +
		",ithelp@x.edu,net-l@x.edu,,,10.0.0.1\n"

	for i := 0; i < 20; i++ {
		_, err := Parse(strings.NewReader(input))
		require.ErrorIs(t, err, errEmptyValue)
		require.ErrorContains(t, err, `"Location"`)
		require.NotContains(t, err.Error(), ColumnSender)
	}
}
