package importer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Dataset
	}{
		{
			name: "numeric coercion only on numeric cells",
			text: "a,b\n1,2\n3,x",
			want: Dataset{
				Row{"a": 1.0, "b": 2.0},
				Row{"a": 3.0, "b": "x"},
			},
		},
		{
			name: "semicolon delimiter detected from header",
			text: "a;b\n1;2",
			want: Dataset{Row{"a": 1.0, "b": 2.0}},
		},
		{
			name: "headers and cells trimmed, CRLF tolerated",
			text: " name , qty \r\n Ana , 3 \r\n",
			want: Dataset{Row{"name": "Ana", "qty": 3.0}},
		},
		{
			name: "blank lines dropped",
			text: "\n\na,b\n\n1,2\n   \n",
			want: Dataset{Row{"a": 1.0, "b": 2.0}},
		},
		{
			name: "empty and missing cells are nil",
			text: "a,b,c\n1,,\n2",
			want: Dataset{
				Row{"a": 1.0, "b": nil, "c": nil},
				Row{"a": 2.0, "b": nil, "c": nil},
			},
		},
		{
			name: "blank cells stay empty strings",
			text: "a,b\n  ,",
			want: Dataset{Row{"a": "", "b": nil}},
		},
		{
			name: "extra cells ignored",
			text: "a\n1,2,3",
			want: Dataset{Row{"a": 1.0}},
		},
		{
			name: "quotes are not interpreted",
			text: "a,b\n\"x,y\",2",
			want: Dataset{Row{"a": "\"x", "b": "y\""}},
		},
		{
			name: "comma header keeps semicolons in cells",
			text: "a,b\n1;2,3",
			want: Dataset{Row{"a": "1;2", "b": 3.0}},
		},
		{
			name: "header only yields no rows",
			text: "a,b\n",
			want: Dataset{},
		},
		{
			name: "empty text",
			text: "",
			want: Dataset{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCSV(tt.text))
		})
	}
}

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"42", 42.0},
		{"-3.5", -3.5},
		{"+7", 7.0},
		{".5", 0.5},
		{"5.", 5.0},
		{"1e3", 1000.0},
		{"0x1F", 31.0},
		{"0b101", 5.0},
		{"0o17", 15.0},
		{"  12  ", 12.0},
		{"", nil},
		{"   ", ""},
		{"\t", ""},
		{"abc", "abc"},
		{"12abc", "12abc"},
		{"1,5", "1,5"},
		{"NaN", "NaN"},
		{"Infinity", "Infinity"},
		{"1e400", "1e400"},
		{"-0x1F", "-0x1F"},
		{"1_000", "1_000"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceCell(tt.in))
		})
	}
}

func TestParseJSON_PreservesElements(t *testing.T) {
	data, err := ParseJSON(`[{"id": 1, "name": "Ana"}, 2.50, "x", null, [1, 2]]`)
	require.NoError(t, err)
	require.Len(t, data, 5)

	assert.Equal(t, map[string]any{"id": json.Number("1"), "name": "Ana"}, data[0])
	assert.Equal(t, json.Number("2.50"), data[1])
	assert.Equal(t, "x", data[2])
	assert.Nil(t, data[3])
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, data[4])
}

func TestParseJSON_LengthMatchesArray(t *testing.T) {
	for _, n := range []int{1, 2, 10, 250} {
		arr := make([]int, n)
		for i := range arr {
			arr[i] = i
		}
		raw, err := json.Marshal(arr)
		require.NoError(t, err)

		data, err := ParseJSON(string(raw))
		require.NoError(t, err)
		assert.Len(t, data, n)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantParse bool
		wantEmpty bool
	}{
		{name: "syntax error", text: `[{"a":1},]`, wantParse: true},
		{name: "empty input", text: "", wantParse: true},
		{name: "trailing data", text: `[1] [2]`, wantParse: true},
		{name: "object is not a dataset", text: `{"a":1}`, wantEmpty: true},
		{name: "scalar is not a dataset", text: `42`, wantEmpty: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON(tt.text)
			require.Error(t, err)

			var perr *ParseError
			assert.Equal(t, tt.wantParse, errors.As(err, &perr))
			assert.Equal(t, tt.wantEmpty, errors.Is(err, ErrEmptyDataset))
		})
	}
}

func TestParse_EmptyResultIsRejected(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		format Format
	}{
		{name: "empty json array", text: "[]", format: FormatJSON},
		{name: "csv without body", text: "a,b", format: FormatCSV},
		{name: "blank csv", text: "\n \n", format: FormatCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Parse(tt.text, tt.format)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, ErrEmptyDataset)
		})
	}
}

func TestParse_DispatchesOnFormat(t *testing.T) {
	data, err := Parse("a,b\n1,2", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, Dataset{Row{"a": 1.0, "b": 2.0}}, data)

	data, err = Parse(`[{"a":1}]`, FormatJSON)
	require.NoError(t, err)
	assert.Len(t, data, 1)

	_, err = Parse("a,b\n1,2", Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
