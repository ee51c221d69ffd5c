package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danmuck/wotreplay/format"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{format.NewError(format.KindTruncatedInput, "envelope.chunk_length", 0, nil), "truncated_input"},
		{format.NewError(format.KindMalformedBattleResults, "extract.battle_results", 1, errors.New("x")), "malformed_battle_results"},
		{os.ErrPermission, "io"},
	}
	for _, tc := range cases {
		if got := Outcome(tc.err); got != tc.want {
			t.Fatalf("Outcome(%v) = %q want %q", tc.err, got, tc.want)
		}
	}
}

func TestIndexMetricsTextfile(t *testing.T) {
	m := NewIndexMetrics()
	m.RecordDecode(nil, 2*time.Millisecond)
	m.RecordDecode(nil, 3*time.Millisecond)
	m.RecordDecode(format.NewError(format.KindInvalidFormat, "envelope.magic", format.NoChunk, nil), time.Millisecond)
	m.RecordStored(2)

	path := filepath.Join(t.TempDir(), "wotreplay.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(raw)
	for _, want := range []string{
		`wotreplay_index_replays_total{outcome="ok"} 2`,
		`wotreplay_index_replays_total{outcome="invalid_format"} 1`,
		`wotreplay_index_decode_duration_seconds_count{outcome="ok"} 2`,
		`wotreplay_index_entries_stored_total 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
