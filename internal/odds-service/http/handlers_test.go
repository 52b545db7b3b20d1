package httpapi

import (
	"net/http/httptest"
	"testing"

	"github.com/adabets/ada-bets-platform/internal/odds-service/dto"
)

func TestFormatBettors(t *testing.T) {
	bets := []dto.Bet{
		{Bettor: "addr1qxyzlonglongaddress"},
		{Bettor: ""},
		{Bettor: "curto"},
	}
	out := formatBettors(bets)

	if out[0].Bettor != "addr1qxy..." {
		t.Errorf("long address not truncated: %q", out[0].Bettor)
	}
	if out[1].Bettor != "Anonymous" {
		t.Errorf("empty bettor should be Anonymous, got %q", out[1].Bettor)
	}
	if out[2].Bettor != "curto" {
		t.Errorf("short address must stay as is, got %q", out[2].Bettor)
	}
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 10},
		{"?limit=5", 5},
		{"?limit=0", 10},
		{"?limit=101", 10},
		{"?limit=abc", 10},
	}
	for _, c := range cases {
		r := httptest.NewRequest("GET", "/v1/bets/latest"+c.query, nil)
		if got := parseLimit(r, 10); got != c.want {
			t.Errorf("query %q: expected %d, got %d", c.query, c.want, got)
		}
	}
}
