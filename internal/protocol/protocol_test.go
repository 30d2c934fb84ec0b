package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntField(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  int64
		ok    bool
	}{
		{"json number", json.Number("42"), 42, true},
		{"numeric string", "17", 17, true},
		{"negative", json.Number("-3"), -3, true},
		{"float number", json.Number("1.5"), 0, false},
		{"junk string", "ten", 0, false},
		{"expression", "1+1", 0, false},
		{"overflow", "9223372036854775808", 0, false},
		{"bool", true, 0, false},
		{"empty string", "", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := Request{"amount": tc.value}
			got, ok := req.IntField("amount")
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := Request{}.IntField("amount")
	assert.False(t, ok, "missing field must not parse")
}

func TestStringField(t *testing.T) {
	req := Request{"action": "login", "count": json.Number("5"), "empty": ""}

	action, ok := req.StringField("action")
	assert.True(t, ok)
	assert.Equal(t, "login", action)

	_, ok = req.StringField("count")
	assert.False(t, ok, "non-string must not pass")
	_, ok = req.StringField("empty")
	assert.False(t, ok, "empty string must not pass")
	_, ok = req.StringField("missing")
	assert.False(t, ok)
}

func TestResponseHelpers(t *testing.T) {
	ok := Success().With("points", 100)
	assert.True(t, ok.IsSuccess())
	assert.Equal(t, 100, ok["points"])

	bad := Errorf("Missing field: %s", "amount")
	assert.False(t, bad.IsSuccess())
	assert.Equal(t, "Missing field: amount", bad["message"])
}
