package flatfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{name: "plain", fields: []string{"1", "Ana", "ana@x.com"}, want: "1;Ana;ana@x.com"},
		{name: "separator replaced", fields: []string{"1", "Go; advanced"}, want: "1;Go, advanced"},
		{name: "empty values", fields: []string{"1", "", ""}, want: "1;;"},
		{name: "no fields", fields: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.fields))
		})
	}
}

func TestDecode_KeepsTrailingEmptyFields(t *testing.T) {
	assert.Equal(t, []string{"1", "Ana", "ana@x.com", ""}, Decode("1;Ana;ana@x.com;"))
	assert.Equal(t, []string{""}, Decode(""))
}

func TestEncodeDecode_LossyOnSeparator(t *testing.T) {
	fields := Decode(Encode([]string{"1", "a;b"}))
	assert.Equal(t, []string{"1", "a,b"}, fields)
}
