package audioscrobbler

import (
	"strings"
	"testing"

	"github.com/mpdscribble-go/mpdscribble/internal/record"
)

func TestHandshakeURL(t *testing.T) {
	got := HandshakeURL("https://post.audioscrobbler.com/", "alice", "1700000000", "deadbeef")
	want := "https://post.audioscrobbler.com/?hs=true&p=1.2&c=mdc&v=0.1.0&u=alice&t=1700000000&a=deadbeef"
	if got != want {
		t.Errorf("HandshakeURL = %q, want %q", got, want)
	}
}

func TestHandshakeURLWithExistingQuery(t *testing.T) {
	got := HandshakeURL("https://example.com/submit?debug=1", "alice", "1", "tok")
	if !strings.Contains(got, "?debug=1&hs=true") {
		t.Errorf("expected existing query to be preserved and joined with &, got %q", got)
	}
}

func TestParseHandshakeOK(t *testing.T) {
	body := "OK\nsess123\nhttps://post.audioscrobbler.com/np\nhttps://post.audioscrobbler.com/sub\n"
	session, err := ParseHandshake(body)
	if err != nil {
		t.Fatalf("ParseHandshake: %v", err)
	}
	if session.ID != "sess123" || session.NowPlayingURL != "https://post.audioscrobbler.com/np" || session.SubmitURL != "https://post.audioscrobbler.com/sub" {
		t.Errorf("unexpected session: %+v", session)
	}
}

func TestParseHandshakeFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
		want Status
	}{
		{"banned", "BANNED\n", StatusBanned},
		{"badauth", "BADAUTH\n", StatusBadAuth},
		{"badtime", "BADTIME\n", StatusBadTime},
		{"failed with reason", "FAILED too busy\n", StatusFailed},
		{"garbage", "what even is this\n", StatusFailed},
		{"short", "OK\nsess\n", StatusMalformed},
		{"empty url", "OK\nsess\n\nhttps://sub\n", StatusMalformed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseHandshake(tc.body)
			if err == nil {
				t.Fatalf("expected error for body %q", tc.body)
			}
			asErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if asErr.Status != tc.want {
				t.Errorf("Status = %v, want %v", asErr.Status, tc.want)
			}
		})
	}
}

func TestSubmitBodyBatchFormat(t *testing.T) {
	records := []record.Record{
		{Artist: "A", Track: "T", Length: 120, Time: "1000", Source: record.SourcePlaylist},
	}
	body := SubmitBody("sess123", records)
	want := "s=sess123&a[0]=A&t[0]=T&l[0]=120&i[0]=1000&o[0]=P&r[0]=&b[0]=&n[0]=&m[0]="
	if body != want {
		t.Errorf("SubmitBody = %q, want %q", body, want)
	}
}

func TestSubmitBodyLoveAppearsTwice(t *testing.T) {
	records := []record.Record{{Artist: "A", Track: "T", Love: true}}
	body := SubmitBody("s", records)
	if strings.Count(body, "r[0]=L") != 2 {
		t.Errorf("expected the r[0]=L field to appear twice in %q", body)
	}
}

func TestParseSubmitResponse(t *testing.T) {
	cases := []struct {
		body string
		want SubmitOutcome
	}{
		{"OK\n", SubmitOK},
		{"BADSESSION\n", SubmitBadSession},
		{"FAILED timeout\n", SubmitFailed},
		{"garbage\n", SubmitFailed},
	}
	for _, tc := range cases {
		got, _ := ParseSubmitResponse(tc.body)
		if got != tc.want {
			t.Errorf("ParseSubmitResponse(%q) = %v, want %v", tc.body, got, tc.want)
		}
	}
}

func TestMaxBatchSize(t *testing.T) {
	if MaxBatchSize() != 10 {
		t.Errorf("MaxBatchSize() = %d, want 10", MaxBatchSize())
	}
}
